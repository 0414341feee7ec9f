package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Conte777/botflow/config"
)

func TestOpen_SQLiteMigratesSchema(t *testing.T) {
	db, err := Open(&config.DatabaseConfig{Driver: DriverSQLite, Path: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)

	for _, table := range []string{"bots", "subscribers", "messages", "auto_responders", "campaigns"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	checker := NewChecker(db)
	assert.Equal(t, "database", checker.Name())
	assert.NoError(t, checker.Check(context.Background()))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestParseGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, parseGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Info, parseGormLogLevel("INFO"))
	assert.Equal(t, gormlogger.Warn, parseGormLogLevel(""))
}
