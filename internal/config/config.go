package config

import (
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds the service configuration, read from the environment with an
// optional .env file.
type Config struct {
	ListenAddr       string
	SnapshotPath     string
	AuditLogPath     string
	AuditSQLitePath  string // empty disables the relational sink
	SnapshotInterval time.Duration
}

// LoadConfig reads configuration from the environment. Missing keys fall
// back to defaults suitable for local runs.
func LoadConfig(logger *zap.Logger) *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("LISTEN_ADDR", ":8080")
	viper.SetDefault("SNAPSHOT_PATH", "bank_state.csv")
	viper.SetDefault("AUDIT_LOG_PATH", "transactions.csv")
	viper.SetDefault("AUDIT_SQLITE_PATH", "")
	viper.SetDefault("SNAPSHOT_INTERVAL", "1m")

	if err := viper.ReadInConfig(); err != nil {
		logger.Debug("No config file found, using environment and defaults", zap.Error(err))
	}

	return &Config{
		ListenAddr:       viper.GetString("LISTEN_ADDR"),
		SnapshotPath:     viper.GetString("SNAPSHOT_PATH"),
		AuditLogPath:     viper.GetString("AUDIT_LOG_PATH"),
		AuditSQLitePath:  viper.GetString("AUDIT_SQLITE_PATH"),
		SnapshotInterval: viper.GetDuration("SNAPSHOT_INTERVAL"),
	}
}
