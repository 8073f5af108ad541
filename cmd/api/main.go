package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/contractchecked/contract-checked/internal/adapters/http"
	"github.com/contractchecked/contract-checked/internal/bootstrap"
	"github.com/contractchecked/contract-checked/internal/config"
	"github.com/contractchecked/contract-checked/internal/observability/logging"
	"github.com/contractchecked/contract-checked/internal/observability/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.NewJSONLogger(cfg.ServiceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverMetrics := metrics.NewHTTPServerMetrics("api")
	app, err := bootstrap.New(ctx, cfg, bootstrap.Observers{
		Tokens:      serverMetrics,
		Persistence: serverMetrics,
	})
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	router := httpadapter.NewRouter(cfg, httpadapter.Dependencies{
		Analyzer:  app.Analyzer,
		Comparer:  app.Comparer,
		Templates: app.Templates,
		Blog:      app.Blog,
		Resources: app.Resources,
		History:   app.History,
		Metrics:   serverMetrics,
	}).Handler()

	// Analysis requests wait on the model, so writes outlive the provider timeout.
	writeTimeout := time.Duration(cfg.OpenAITimeoutSeconds)*time.Second + 30*time.Second
	server := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("api_listening",
			"port", cfg.APIPort,
			"model", cfg.OpenAIModel,
			"persistence", cfg.PersistenceEnabled(),
			"events", cfg.EventsEnabled(),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api_shutdown_failed", "error", err)
	}
}
