package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig(zap.NewNop())
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "bank_state.csv", cfg.SnapshotPath)
	assert.Equal(t, "transactions.csv", cfg.AuditLogPath)
	assert.Empty(t, cfg.AuditSQLitePath)
	assert.Equal(t, time.Minute, cfg.SnapshotInterval)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("SNAPSHOT_PATH", "/tmp/state.csv")
	t.Setenv("SNAPSHOT_INTERVAL", "30s")

	cfg := LoadConfig(zap.NewNop())
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/state.csv", cfg.SnapshotPath)
	assert.Equal(t, 30*time.Second, cfg.SnapshotInterval)
}
