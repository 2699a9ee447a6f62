package plant

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ysalama/plantdoc/internal/domain"
)

type stubIdentifier struct {
	name   string
	ready  bool
	result *domain.DetectionResult
	err    error
	calls  int
}

func (s *stubIdentifier) Name() string { return s.name }
func (s *stubIdentifier) Ready() bool  { return s.ready }
func (s *stubIdentifier) Identify(_ context.Context, _ ImageInput, _ string) (*domain.DetectionResult, error) {
	s.calls++
	return s.result, s.err
}

type stubChatter struct {
	name  string
	ready bool
	reply string
	err   error
	calls int

	lastSystem  string
	lastMessage string
}

func (s *stubChatter) Name() string { return s.name }
func (s *stubChatter) Ready() bool  { return s.ready }
func (s *stubChatter) Chat(_ context.Context, system, message string) (string, error) {
	s.calls++
	s.lastSystem = system
	s.lastMessage = message
	return s.reply, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func okResult(provider string) *domain.DetectionResult {
	return &domain.DetectionResult{
		Success:        true,
		PlantName:      "Aloe Vera",
		ScientificName: "Aloe barbadensis",
		Confidence:     92,
		SourceProvider: provider,
	}
}

func TestIdentifySkipsUnconfiguredProviders(t *testing.T) {
	missing := &stubIdentifier{name: "openai", ready: false}
	configured := &stubIdentifier{name: "gemini", ready: true, result: okResult("gemini")}

	f := NewFallback([]Identifier{missing, configured}, nil, testLogger())
	result, err := f.Identify(context.Background(), ImageInput{}, IdentifyPrompt)

	require.NoError(t, err)
	assert.Equal(t, "gemini", result.SourceProvider)
	assert.Equal(t, 0, missing.calls, "unconfigured provider must never be called")
	assert.Equal(t, 1, configured.calls)
}

func TestIdentifyFallsBackOnFailure(t *testing.T) {
	failing := &stubIdentifier{name: "openai", ready: true, err: errors.New("timeout")}
	working := &stubIdentifier{name: "groq", ready: true, result: okResult("groq")}
	untried := &stubIdentifier{name: "claude", ready: true, result: okResult("claude")}

	f := NewFallback([]Identifier{failing, working, untried}, nil, testLogger())
	result, err := f.Identify(context.Background(), ImageInput{}, IdentifyPrompt)

	require.NoError(t, err)
	assert.Equal(t, "groq", result.SourceProvider)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, working.calls)
	assert.Equal(t, 0, untried.calls, "orchestrator must stop at the first success")
}

func TestIdentifyModelLoadingAdvances(t *testing.T) {
	loading := &stubIdentifier{name: "huggingface", ready: true, err: ErrModelLoading}
	working := &stubIdentifier{name: "plantid", ready: true, result: okResult("plantid")}

	f := NewFallback([]Identifier{loading, working}, nil, testLogger())
	result, err := f.Identify(context.Background(), ImageInput{}, IdentifyPrompt)

	require.NoError(t, err)
	assert.Equal(t, "plantid", result.SourceProvider)
}

func TestIdentifyAllFailAggregates(t *testing.T) {
	p1 := &stubIdentifier{name: "openai", ready: true, err: errors.New("status 401")}
	p2 := &stubIdentifier{name: "gemini", ready: true, err: errors.New("timeout")}

	f := NewFallback([]Identifier{p1, p2}, nil, testLogger())
	result, err := f.Identify(context.Background(), ImageInput{}, IdentifyPrompt)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "API keys")
	assert.Contains(t, err.Error(), "openai")
	assert.Contains(t, err.Error(), "gemini")
	// One pass only: no provider retried.
	assert.Equal(t, 1, p1.calls)
	assert.Equal(t, 1, p2.calls)
}

func TestIdentifyNoProvidersConfigured(t *testing.T) {
	p := &stubIdentifier{name: "openai", ready: false}

	f := NewFallback([]Identifier{p}, nil, testLogger())
	_, err := f.Identify(context.Background(), ImageInput{}, IdentifyPrompt)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
	assert.Equal(t, 0, p.calls)
}

func TestIdentifyIdempotent(t *testing.T) {
	p := &stubIdentifier{name: "openai", ready: true, result: okResult("openai")}
	f := NewFallback([]Identifier{p}, nil, testLogger())

	first, err := f.Identify(context.Background(), ImageInput{}, IdentifyPrompt)
	require.NoError(t, err)
	second, err := f.Identify(context.Background(), ImageInput{}, IdentifyPrompt)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestChatFirstSuccessWins(t *testing.T) {
	failing := &stubChatter{name: "openai", ready: true, err: errors.New("status 500")}
	working := &stubChatter{name: "groq", ready: true, reply: "Water it twice a week."}

	f := NewFallback(nil, []Chatter{failing, working}, testLogger())
	reply := f.Chat(context.Background(), "system", "how often to water?")

	assert.Equal(t, "Water it twice a week.", reply)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, working.calls)
}

func TestChatShortReplyTriggersFallback(t *testing.T) {
	terse := &stubChatter{name: "openai", ready: true, reply: "ok"}
	verbose := &stubChatter{name: "gemini", ready: true, reply: "Here is a proper answer about watering."}

	f := NewFallback(nil, []Chatter{terse, verbose}, testLogger())
	reply := f.Chat(context.Background(), "system", "hello")

	assert.Equal(t, "Here is a proper answer about watering.", reply)
}

func TestChatAllFailReturnsGuidance(t *testing.T) {
	p1 := &stubChatter{name: "openai", ready: true, err: errors.New("boom")}
	p2 := &stubChatter{name: "gemini", ready: false}

	f := NewFallback(nil, []Chatter{p1, p2}, testLogger())
	reply := f.Chat(context.Background(), "system", "hello")

	assert.NotEmpty(t, reply)
	assert.Contains(t, reply, "API key")
	assert.Equal(t, 0, p2.calls)
}

func TestProviderNamesListOnlyReady(t *testing.T) {
	f := NewFallback(
		[]Identifier{
			&stubIdentifier{name: "openai", ready: true},
			&stubIdentifier{name: "plantid", ready: false},
			&stubIdentifier{name: "gemini", ready: true},
		},
		[]Chatter{
			&stubChatter{name: "openai", ready: false},
		},
		testLogger(),
	)

	assert.Equal(t, []string{"openai", "gemini"}, f.IdentifierNames())
	assert.Empty(t, f.ChatterNames())
}
