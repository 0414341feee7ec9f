// Package errors contains bot domain errors
package errors

import (
	pkgerrors "github.com/Conte777/botflow/pkg/errors"
)

var (
	ErrTokenRequired    = pkgerrors.NewValidationError("bot token is required")
	ErrInvalidToken     = pkgerrors.NewValidationError("invalid bot token")
	ErrIdentityRejected = pkgerrors.NewValidationError("provider rejected bot identity request")
	ErrNameEmpty        = pkgerrors.NewValidationError("name must not be empty")
	ErrTriggerRequired  = pkgerrors.NewValidationError("trigger is required")
	ErrResponseRequired = pkgerrors.NewValidationError("response is required")
)
