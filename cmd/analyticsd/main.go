package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobs-analytics/internal/common"
	"jobs-analytics/internal/export"
	"jobs-analytics/internal/history"
	"jobs-analytics/internal/ingest"
	"jobs-analytics/internal/server"
)

func main() {
	cfg := common.LoadConfig()

	// Logger
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Log.Mode == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		gin.SetMode(gin.ReleaseMode)
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	var hist *history.Log
	if cfg.History.Path != "" {
		hist = history.NewLog(cfg.History.Path, slogger)
	}

	svc := server.NewAnalyticsService(cfg,
		ingest.NewService(slogger),
		export.NewService(slogger),
		hist,
		logger)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: server.NewRouter(svc),
	}

	log.Infof("http serving on %s", cfg.Server.HTTPAddr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnf("shutdown: %v", err)
	}
	fmt.Println("stopped.")
}
