// Package errors contains assistant domain errors
package errors

import (
	pkgerrors "github.com/Conte777/botflow/pkg/errors"
)

var (
	ErrPromptRequired  = pkgerrors.NewValidationError("prompt is required")
	ErrContentRequired = pkgerrors.NewValidationError("content is required")
	ErrInvalidTone     = pkgerrors.NewValidationError("tone must be one of professional, friendly, promotional")
)
