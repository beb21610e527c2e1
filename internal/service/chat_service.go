package service

import (
	"context"
	"errors"
	"strings"

	"github.com/andresuchdata/salescast/internal/chat"
	"github.com/andresuchdata/salescast/internal/domain"
	"github.com/andresuchdata/salescast/internal/storage"
	"github.com/rs/zerolog/log"
)

const noReplyMessage = "🤖 Sorry, I couldn't get a response."

// ChatService answers free-form questions about the catalog and sales history.
type ChatService struct {
	products  *storage.Collection[[]domain.ProductRecord]
	sales     *storage.Collection[[]domain.SalesRecord]
	completer chat.Completer
}

func NewChatService(products *storage.Collection[[]domain.ProductRecord], sales *storage.Collection[[]domain.SalesRecord], completer chat.Completer) *ChatService {
	return &ChatService{products: products, sales: sales, completer: completer}
}

// Ask always yields reply text once the message is valid; store and provider
// failures become the reply itself. Only validation errors are returned.
func (s *ChatService) Ask(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", domain.NewValidationError("message", "No message received")
	}

	products, err := s.products.Load(ctx, []domain.ProductRecord{})
	if err != nil {
		log.Error().Err(err).Msg("Chat context unavailable: products")
		return fallbackReply(err), nil
	}
	sales, err := s.sales.Load(ctx, []domain.SalesRecord{})
	if err != nil {
		log.Error().Err(err).Msg("Chat context unavailable: sales")
		return fallbackReply(err), nil
	}

	prompt, err := chat.BuildPrompt(message, products, sales)
	if err != nil {
		return fallbackReply(err), nil
	}

	reply, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("Chat completion failed")
		return fallbackReply(err), nil
	}
	if strings.TrimSpace(reply) == "" {
		return noReplyMessage, nil
	}
	return reply, nil
}

func fallbackReply(err error) string {
	var statusErr *chat.StatusError
	switch {
	case errors.As(err, &statusErr):
		return statusErr.Error()
	case errors.Is(err, chat.ErrUnrecognizedReply):
		return noReplyMessage
	default:
		return "Chat service unavailable: " + err.Error()
	}
}
