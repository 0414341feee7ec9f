// Package telegram contains the Bot API provider client
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/Conte777/botflow/config"
	"github.com/Conte777/botflow/internal/infrastructure/metrics"
	"github.com/Conte777/botflow/pkg/mapfn"
)

// AllowedUpdates lists the update kinds requested when registering a webhook
var AllowedUpdates = []string{"message", "callback_query", "inline_query"}

// Identity is the bot account as reported by the provider
type Identity struct {
	ProviderID  int64
	DisplayName string
	Username    string
}

// SendOptions are optional message parameters
type SendOptions struct {
	ParseMode           string
	DisableNotification bool
}

// MessageHandle identifies a delivered message
type MessageHandle struct {
	MessageID int
	ChatID    int64
}

// BulkResult aggregates a bulk send; Failures holds the error per failed recipient
type BulkResult struct {
	Success  int
	Failed   int
	Failures map[string]error
}

// Client performs Bot API calls for any bot token
type Client struct {
	apiURL        string
	webhookSecret string
	timeout       time.Duration
	batchSize     int
	batchDelay    time.Duration
	httpClient    *http.Client
	wait          func(ctx context.Context, d time.Duration) error
	metrics       *metrics.Metrics
	logger        zerolog.Logger
}

// NewClient creates a provider client from config
func NewClient(cfg *config.TelegramConfig, m *metrics.Metrics, logger zerolog.Logger) *Client {
	batchSize := cfg.BulkBatchSize
	if batchSize <= 0 {
		batchSize = 30
	}

	return &Client{
		apiURL:        cfg.APIURL,
		webhookSecret: cfg.WebhookSecret,
		timeout:       cfg.RequestTimeout,
		batchSize:     batchSize,
		batchDelay:    cfg.BulkBatchDelay,
		httpClient:    &http.Client{Timeout: cfg.RequestTimeout},
		wait:          sleepContext,
		metrics:       m,
		logger:        logger,
	}
}

// api builds a lightweight Bot API handle for token; it performs no network call
func (c *Client) api(token string) (*tgbot.Bot, error) {
	opts := []tgbot.Option{
		tgbot.WithSkipGetMe(),
		tgbot.WithHTTPClient(c.timeout, c.httpClient),
	}
	if c.apiURL != "" {
		opts = append(opts, tgbot.WithServerURL(c.apiURL))
	}

	b, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return b, nil
}

// ValidateCredential reports whether token belongs to a bot account; any failure yields false
func (c *Client) ValidateCredential(ctx context.Context, token string) bool {
	b, err := c.api(token)
	if err != nil {
		return false
	}

	me, err := b.GetMe(ctx)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Credential validation failed")
		return false
	}
	return me != nil && me.IsBot
}

// FetchIdentity returns the bot account behind token
func (c *Client) FetchIdentity(ctx context.Context, token string) (*Identity, error) {
	b, err := c.api(token)
	if err != nil {
		return nil, newProviderError("getMe", err)
	}

	me, err := b.GetMe(ctx)
	if err != nil {
		return nil, newProviderError("getMe", err)
	}

	return &Identity{
		ProviderID:  me.ID,
		DisplayName: me.FirstName,
		Username:    me.Username,
	}, nil
}

// RegisterWebhook points future updates of the bot to callbackURL; failures yield false
func (c *Client) RegisterWebhook(ctx context.Context, token, callbackURL string) bool {
	b, err := c.api(token)
	if err != nil {
		return false
	}

	ok, err := b.SetWebhook(ctx, &tgbot.SetWebhookParams{
		URL:            callbackURL,
		AllowedUpdates: AllowedUpdates,
		SecretToken:    c.webhookSecret,
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("url", callbackURL).Msg("Failed to register webhook")
		return false
	}
	return ok
}

// SendMessage delivers text to one recipient
func (c *Client) SendMessage(ctx context.Context, token, recipientID, text string, opts SendOptions) (*MessageHandle, error) {
	b, err := c.api(token)
	if err != nil {
		return nil, newProviderError("sendMessage", err)
	}

	handle, err := c.send(ctx, b, recipientID, text, opts)
	c.metrics.RecordProviderSend(sendResult(err))
	return handle, err
}

func (c *Client) send(ctx context.Context, b *tgbot.Bot, recipientID, text string, opts SendOptions) (*MessageHandle, error) {
	msg, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:              recipientID,
		Text:                text,
		ParseMode:           models.ParseMode(opts.ParseMode),
		DisableNotification: opts.DisableNotification,
	})
	if err != nil {
		return nil, newProviderError("sendMessage", err)
	}

	return &MessageHandle{MessageID: msg.ID, ChatID: msg.Chat.ID}, nil
}

// SendBulk sends text to every recipient in batches, waiting between batches.
// Individual failures are counted and never abort the remaining sends.
func (c *Client) SendBulk(ctx context.Context, token string, recipientIDs []string, text string, opts SendOptions) BulkResult {
	result := BulkResult{Failures: make(map[string]error)}

	b, err := c.api(token)
	if err != nil {
		for _, id := range recipientIDs {
			result.Failed++
			result.Failures[id] = newProviderError("sendMessage", err)
		}
		return result
	}

	batches := mapfn.Chunk(recipientIDs, c.batchSize)
	for i, batch := range batches {
		if i > 0 {
			if err := c.wait(ctx, c.batchDelay); err != nil {
				for _, rest := range batches[i:] {
					for _, id := range rest {
						result.Failed++
						result.Failures[id] = err
					}
				}
				c.logger.Warn().Err(err).Int("batch", i).Msg("Bulk send interrupted")
				break
			}
		}
		c.sendBatch(ctx, b, batch, text, opts, &result)

		c.logger.Debug().
			Int("batch", i+1).
			Int("batches", len(batches)).
			Int("sent", result.Success).
			Int("failed", result.Failed).
			Msg("Bulk batch finished")
	}

	return result
}

func (c *Client) sendBatch(ctx context.Context, b *tgbot.Bot, batch []string, text string, opts SendOptions, result *BulkResult) {
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, id := range batch {
		wg.Add(1)
		go func(recipientID string) {
			defer wg.Done()

			_, err := c.send(ctx, b, recipientID, text, opts)
			c.metrics.RecordProviderSend(sendResult(err))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.Failures[recipientID] = err
				return
			}
			result.Success++
		}(id)
	}

	wg.Wait()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
