package plant

import (
	"context"
	"errors"

	"github.com/ysalama/plantdoc/internal/domain"
)

// ImageInput is an uploaded image ready for transport: raw bytes plus the
// MIME type sniffed at the upload boundary. Adapters base64-encode it into
// whatever wire shape their provider expects.
type ImageInput struct {
	Data     []byte
	MimeType string
}

// Identifier is a provider adapter for the identify capability. Name is the
// label recorded as SourceProvider on results it produces. Ready reports
// whether the provider's credential is configured; the orchestrator skips
// adapters that are not ready without counting them as failures.
type Identifier interface {
	Name() string
	Ready() bool
	Identify(ctx context.Context, img ImageInput, prompt string) (*domain.DetectionResult, error)
}

// Chatter is a provider adapter for the chat capability. The system prompt
// carries the plant context; message is the single latest user turn.
type Chatter interface {
	Name() string
	Ready() bool
	Chat(ctx context.Context, system, message string) (string, error)
}

// ErrModelLoading marks a transient provider condition (e.g. a 503 while the
// model warms up). The orchestrator treats it like any other failure and
// advances to the next candidate; it exists so adapters can distinguish the
// condition in logs.
var ErrModelLoading = errors.New("model is loading")

// DefaultConfidence is assigned when a provider's response carries no usable
// confidence, including degraded text-only results. The source revisions used
// 75, 80 and 85 interchangeably; 80 is the documented constant here.
const DefaultConfidence = 80

// DefaultPlantName is the placeholder used when structured data could not be
// parsed from the provider's output.
const DefaultPlantName = "Detected Plant"

// minChatReply is the shortest generated text accepted as a real answer.
// Anything shorter is treated as an empty response and triggers fallback.
const minChatReply = 10
