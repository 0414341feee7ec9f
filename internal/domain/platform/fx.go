// Package platform contains the persistence gateway shared by all domains
package platform

import (
	"go.uber.org/fx"

	"github.com/Conte777/botflow/internal/domain/platform/repository/postgres"
)

// Module provides the gorm-backed repositories for fx dependency injection
var Module = fx.Module("platform",
	fx.Provide(postgres.NewGateway),
)
