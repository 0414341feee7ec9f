// Package domain aggregates the domain modules
package domain

import (
	"go.uber.org/fx"

	"github.com/Conte777/botflow/internal/domain/assistant"
	"github.com/Conte777/botflow/internal/domain/bot"
	"github.com/Conte777/botflow/internal/domain/campaign"
	"github.com/Conte777/botflow/internal/domain/inbound"
	"github.com/Conte777/botflow/internal/domain/platform"
)

// Module aggregates all domain modules
var Module = fx.Module("domain",
	platform.Module,
	assistant.Module,
	inbound.Module,
	campaign.Module,
	bot.Module,
)
