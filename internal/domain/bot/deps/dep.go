// Package deps contains the contracts the bot domain depends on
package deps

import (
	"context"

	"github.com/Conte777/botflow/internal/infrastructure/telegram"
)

// Provider performs the provider calls needed to register a bot
type Provider interface {
	ValidateCredential(ctx context.Context, token string) bool
	FetchIdentity(ctx context.Context, token string) (*telegram.Identity, error)
	RegisterWebhook(ctx context.Context, token, callbackURL string) bool
}
