package chat

import (
	"context"
	"errors"
	"fmt"
)

// Completer sends a prompt to a language model and returns its reply text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var (
	// ErrNotConfigured is returned when no API key was supplied for the provider.
	ErrNotConfigured = errors.New("chat provider is not configured")
	// ErrUnrecognizedReply is returned when the provider answered with a body
	// no known reply shape matches.
	ErrUnrecognizedReply = errors.New("unrecognized reply shape")
)

// StatusError is a non-success HTTP answer from the provider.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Error: %d - %s", e.Code, e.Body)
}

type unconfigured struct {
	provider string
}

// Unconfigured returns a Completer that always fails with ErrNotConfigured.
func Unconfigured(provider string) Completer {
	return unconfigured{provider: provider}
}

func (u unconfigured) Complete(ctx context.Context, prompt string) (string, error) {
	return "", fmt.Errorf("%s: %w", u.provider, ErrNotConfigured)
}
