// Package errors contains persistence errors shared by all domains
package errors

import (
	pkgerrors "github.com/Conte777/botflow/pkg/errors"
)

var (
	ErrBotNotFound        = pkgerrors.NewNotFoundError("bot not found")
	ErrBotExists          = pkgerrors.NewConflictError("bot with this username already registered")
	ErrSubscriberNotFound = pkgerrors.NewNotFoundError("subscriber not found")
	ErrSubscriberExists   = pkgerrors.NewConflictError("subscriber already exists for this bot")
	ErrCampaignNotFound   = pkgerrors.NewNotFoundError("campaign not found")
	ErrCampaignNotSending = pkgerrors.NewConflictError("campaign is not in sending state")
	ErrDatabaseOperation  = pkgerrors.NewInternalError("database operation failed")
)
