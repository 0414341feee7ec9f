// Package errors contains campaign domain errors
package errors

import (
	pkgerrors "github.com/Conte777/botflow/pkg/errors"
)

var (
	ErrBotRequired         = pkgerrors.NewValidationError("botId is required")
	ErrNameRequired        = pkgerrors.NewValidationError("name is required")
	ErrMessageRequired     = pkgerrors.NewValidationError("message is required")
	ErrScheduledAtRequired = pkgerrors.NewValidationError("scheduledAt is required")
	ErrCampaignNotEditable = pkgerrors.NewConflictError("campaign can only be changed while draft or scheduled")
)

// ErrEngineStopped is returned when a broadcast is requested during shutdown
var ErrEngineStopped = pkgerrors.NewServiceUnavailableError("campaign engine is shutting down")
