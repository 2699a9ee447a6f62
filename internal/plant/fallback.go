package plant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ysalama/plantdoc/internal/domain"
)

// ChatFailureMessage is returned to the user when every chat provider fails.
// It is a displayable value, never an error the caller has to unwrap.
const ChatFailureMessage = "Sorry, I couldn't reach any AI provider right now. " +
	"Please check that at least one API key is configured, or try again in a few minutes."

// Fallback tries provider adapters strictly in the order they were supplied,
// stopping at the first success. Providers whose credentials are missing are
// skipped without counting as failures. One pass only: a failing provider is
// never retried within the same call.
type Fallback struct {
	identifiers []Identifier
	chatters    []Chatter
	logger      *slog.Logger
}

func NewFallback(identifiers []Identifier, chatters []Chatter, logger *slog.Logger) *Fallback {
	return &Fallback{
		identifiers: identifiers,
		chatters:    chatters,
		logger:      logger,
	}
}

// IdentifierNames returns the names of ready identify providers, in priority order.
func (f *Fallback) IdentifierNames() []string {
	names := make([]string, 0, len(f.identifiers))
	for _, p := range f.identifiers {
		if p.Ready() {
			names = append(names, p.Name())
		}
	}
	return names
}

// ChatterNames returns the names of ready chat providers, in priority order.
func (f *Fallback) ChatterNames() []string {
	names := make([]string, 0, len(f.chatters))
	for _, p := range f.chatters {
		if p.Ready() {
			names = append(names, p.Name())
		}
	}
	return names
}

// Identify runs the identify fallback chain with the given instruction prompt.
// On total failure it returns an error whose message aggregates every
// provider's failure reason and points at credential setup.
func (f *Fallback) Identify(ctx context.Context, img ImageInput, prompt string) (*domain.DetectionResult, error) {
	var failures []string

	for _, p := range f.identifiers {
		if !p.Ready() {
			f.logger.Debug("skipping unconfigured provider", "provider", p.Name())
			continue
		}

		f.logger.Info("identify attempt", "provider", p.Name())
		result, err := p.Identify(ctx, img, prompt)
		if err != nil {
			if errors.Is(err, ErrModelLoading) {
				f.logger.Warn("provider model loading, trying next", "provider", p.Name())
			} else {
				f.logger.Warn("identify failed, trying next", "provider", p.Name(), "error", err)
			}
			failures = append(failures, fmt.Sprintf("%s: %v", p.Name(), err))
			continue
		}
		if result == nil || !result.Success {
			failures = append(failures, fmt.Sprintf("%s: empty result", p.Name()))
			continue
		}

		f.logger.Info("identify succeeded", "provider", p.Name(), "plant", result.PlantName)
		return result, nil
	}

	if len(failures) == 0 {
		return nil, errors.New("no identification provider is configured: set at least one API key")
	}
	return nil, fmt.Errorf("all identification providers failed, check your API keys or retry later (%s)",
		strings.Join(failures, "; "))
}

// Chat runs the chat fallback chain. Replies shorter than minChatReply are
// treated as empty and trigger fallback. The returned string is always
// displayable; total failure yields ChatFailureMessage instead of an error.
func (f *Fallback) Chat(ctx context.Context, system, message string) string {
	for _, p := range f.chatters {
		if !p.Ready() {
			f.logger.Debug("skipping unconfigured provider", "provider", p.Name())
			continue
		}

		f.logger.Info("chat attempt", "provider", p.Name())
		reply, err := p.Chat(ctx, system, message)
		if err != nil {
			f.logger.Warn("chat failed, trying next", "provider", p.Name(), "error", err)
			continue
		}
		if len(strings.TrimSpace(reply)) < minChatReply {
			f.logger.Warn("chat reply too short, trying next", "provider", p.Name(), "length", len(reply))
			continue
		}

		f.logger.Info("chat succeeded", "provider", p.Name())
		return reply
	}

	return ChatFailureMessage
}
