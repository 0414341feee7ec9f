// Package deps contains the contracts the campaign domain depends on
package deps

import (
	"context"

	"github.com/Conte777/botflow/internal/infrastructure/telegram"
)

// BulkSender delivers one text to many recipients under the provider rate limit
type BulkSender interface {
	SendBulk(ctx context.Context, token string, recipientIDs []string, text string, opts telegram.SendOptions) telegram.BulkResult
}
