package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/finvault/bankcore/internal/audit"
	"github.com/finvault/bankcore/internal/auth"
	"github.com/finvault/bankcore/internal/bank"
	"github.com/finvault/bankcore/internal/config"
	"github.com/finvault/bankcore/internal/ledger"
	"github.com/finvault/bankcore/internal/snapshot"
	"github.com/finvault/bankcore/pkg/logger"
)

func main() {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	zapLogger := logger.New(logLevel)
	defer zapLogger.Sync()

	cfg := config.LoadConfig(zapLogger)

	// Restore state from the last snapshot, if one exists.
	snapshots := snapshot.NewStore(cfg.SnapshotPath, zapLogger)
	book := ledger.New()
	if snapshots.Exists() {
		var err error
		if book, err = snapshots.Load(); err != nil {
			zapLogger.Fatal("Failed to load snapshot", zap.Error(err))
		}
	} else {
		zapLogger.Info("No snapshot found, starting with an empty ledger", zap.String("path", cfg.SnapshotPath))
	}

	// Rebuild the credential registry from the persisted credentials.
	creds := auth.NewService(zapLogger)
	for _, u := range book.Users() {
		creds.LoadHash(u.Username(), u.Credential())
	}

	// Audit sinks: flat file always, sqlite when configured.
	var recorder audit.Recorder = audit.NewFileRecorder(cfg.AuditLogPath, zapLogger)
	if cfg.AuditSQLitePath != "" {
		store, err := audit.OpenStore(cfg.AuditSQLitePath, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to open audit store", zap.Error(err))
		}
		recorder = audit.Multi{recorder, store}
	}

	service := bank.NewService(book, creds, recorder, snapshots, zapLogger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	bank.Routes(router.Group("/v1"), service, zapLogger)

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: router}
	go func() {
		zapLogger.Info("Server listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Periodic snapshot flush.
	flushDone := make(chan struct{})
	if cfg.SnapshotInterval > 0 {
		ticker := time.NewTicker(cfg.SnapshotInterval)
		go func() {
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := service.Snapshot(); err != nil {
						zapLogger.Error("Periodic snapshot failed", zap.Error(err))
					}
				case <-flushDone:
					return
				}
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	close(flushDone)

	zapLogger.Info("Shutting down, flushing final snapshot")
	if err := service.Snapshot(); err != nil {
		zapLogger.Error("Final snapshot failed", zap.Error(err))
	}
}
