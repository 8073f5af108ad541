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

	"github.com/contractchecked/contract-checked/internal/bootstrap"
	"github.com/contractchecked/contract-checked/internal/config"
	"github.com/contractchecked/contract-checked/internal/core/domain"
	"github.com/contractchecked/contract-checked/internal/core/usecase"
	"github.com/contractchecked/contract-checked/internal/observability/logging"
	"github.com/contractchecked/contract-checked/internal/observability/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	logger := logging.NewJSONLogger(cfg.ServiceName+"-worker", cfg.LogLevel)
	slog.SetDefault(logger)

	if !cfg.EventsEnabled() {
		slog.Error("worker_requires_nats", "hint", "set NATS_URL")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	queue, err := bootstrap.NewEventQueue(cfg, bootstrap.NewExecutor(cfg))
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer queue.Close()

	tracker := usecase.NewTrackAnalysisEventsUseCase(workerMetrics)

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject, "metrics_port", cfg.WorkerMetricsPort)
	err = queue.SubscribeAnalysisCompleted(ctx, func(handlerCtx context.Context, event domain.AnalysisCompletedEvent) error {
		handleCtx, cancel := context.WithTimeout(handlerCtx, 30*time.Second)
		defer cancel()

		workerMetrics.StartEvent()
		started := time.Now()
		err := tracker.Handle(handleCtx, event)
		workerMetrics.FinishEvent(time.Since(started), err)
		return err
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}
