// Package deps contains the contracts the inbound domain depends on
package deps

import (
	"context"

	assistant "github.com/Conte777/botflow/internal/domain/assistant/entities"
	"github.com/Conte777/botflow/internal/infrastructure/telegram"
)

// MessageSender delivers a single message through the provider
type MessageSender interface {
	SendMessage(ctx context.Context, token, recipientID, text string, opts telegram.SendOptions) (*telegram.MessageHandle, error)
}

// Responder produces a reply when no auto-responder matched
type Responder interface {
	GenerateReply(ctx context.Context, incoming string, rc assistant.ConversationContext) assistant.Reply
}

// Dispatcher hands a raw webhook body over for processing without waiting for it
type Dispatcher interface {
	Dispatch(ctx context.Context, botID string, raw []byte) error
}

// UpdateConsumer processes a raw update; it never fails
type UpdateConsumer interface {
	Consume(ctx context.Context, botID string, raw []byte)
}
