package database

import (
	"path/filepath"
	"testing"

	"boleteria/common"
	"boleteria/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := config.LoadConfig()
	cfg.DBDriver = "sqlite"
	cfg.SQLitePath = filepath.Join(t.TempDir(), "boleteria.db")

	db, err := Open(cfg, zap.NewNop())
	require.NoError(t, err)

	for _, model := range Models() {
		assert.True(t, db.Migrator().HasTable(model))
	}
	assert.True(t, db.Migrator().HasIndex(&common.Ticket{}, "RedemptionCode"))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	cfg := config.LoadConfig()
	cfg.DBDriver = "postgres"

	_, err := Open(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestOpen_MySQLRequiresCredentials(t *testing.T) {
	cfg := config.LoadConfig()
	cfg.DBDriver = "mysql"
	cfg.DBUser = ""

	_, err := Open(cfg, zap.NewNop())
	assert.Error(t, err)
}
