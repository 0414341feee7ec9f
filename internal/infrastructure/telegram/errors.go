package telegram

import (
	"errors"
	"fmt"

	tgbot "github.com/go-telegram/bot"
)

// ProviderError is returned when the Bot API rejects a call
type ProviderError struct {
	Method      string
	Description string
	Err         error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("telegram %s failed: %s", e.Method, e.Description)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Forbidden reports whether the recipient blocked the bot or the chat is unavailable
func (e *ProviderError) Forbidden() bool {
	return errors.Is(e.Err, tgbot.ErrorForbidden)
}

// Unauthorized reports whether the bot token was rejected
func (e *ProviderError) Unauthorized() bool {
	return errors.Is(e.Err, tgbot.ErrorUnauthorized)
}

// RateLimited reports whether the provider asked to slow down
func (e *ProviderError) RateLimited() bool {
	return tgbot.IsTooManyRequestsError(e.Err)
}

func newProviderError(method string, err error) *ProviderError {
	return &ProviderError{Method: method, Description: err.Error(), Err: err}
}

// sendResult classifies a send outcome for metrics
func sendResult(err error) string {
	if err == nil {
		return "success"
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		switch {
		case pe.RateLimited():
			return "rate_limited"
		case pe.Forbidden():
			return "forbidden"
		}
	}
	return "failed"
}
