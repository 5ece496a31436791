package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"examboard/internal/app"
	"examboard/internal/app/logging"
	"examboard/internal/auth"
	"examboard/internal/db"
)

func main() {
	cfg := app.LoadConfig()

	logger := logging.New(cfg.AppEnv, cfg.LogFile)
	defer func() { _ = logger.Sync() }()

	dbConn, err := db.OpenPostgresWithConfig(context.Background(), cfg.DBDSN, db.PostgresConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.DBConnMaxLifeMins) * time.Minute,
	})
	if err != nil {
		logger.Error("database error", zap.Error(err))
		os.Exit(1)
	}
	defer dbConn.Close()

	authSvc := auth.NewService(dbConn, auth.ServiceConfig{})
	if err := authSvc.EnsureDefaultOperator(context.Background(), cfg.OperatorEmail, cfg.OperatorName, cfg.OperatorPassword); err != nil {
		logger.Error("seed operator", zap.Error(err))
		os.Exit(1)
	}

	r := app.NewRouter(cfg, dbConn, logger)

	logger.Info("examboard web listening", zap.String("addr", cfg.HTTPAddr))
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
