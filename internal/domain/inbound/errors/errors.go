// Package errors contains inbound domain errors
package errors

import (
	pkgerrors "github.com/Conte777/botflow/pkg/errors"
)

var (
	ErrInvalidUpdate      = pkgerrors.NewValidationError("invalid update payload")
	ErrInvalidSecretToken = pkgerrors.NewUnauthorizedError("invalid webhook secret token")
	ErrMissingBotID       = pkgerrors.NewValidationError("bot id is required")
)
