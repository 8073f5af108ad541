package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/contractchecked/contract-checked/internal/core/domain"
	"github.com/contractchecked/contract-checked/internal/infrastructure/resilience"
)

const (
	DefaultSubject = "contracts.analysis.completed"
	queueGroup     = "workers"
)

// Queue publishes and consumes analysis completion events.
type Queue struct {
	conn     *nats.Conn
	subject  string
	executor *resilience.Executor
}

func New(url, subject string) (*Queue, error) {
	return NewWithOptions(url, subject, Options{})
}

type Options struct {
	Name                 string
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
}

func NewWithOptions(url, subject string, options Options) (*Queue, error) {
	if subject == "" {
		subject = DefaultSubject
	}
	name := options.Name
	if name == "" {
		name = "contract-checked"
	}
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}

	conn, err := nats.Connect(
		url,
		nats.Name(name),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Queue{
		conn:     conn,
		subject:  subject,
		executor: options.ResilienceExecutor,
	}, nil
}

func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

func (q *Queue) PublishAnalysisCompleted(ctx context.Context, event domain.AnalysisCompletedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal analysis event: %w", err)
	}

	call := func(_ context.Context) error {
		if err := q.conn.Publish(q.subject, payload); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}

	if q.executor != nil {
		return q.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
	}
	return call(ctx)
}

// SubscribeAnalysisCompleted blocks until ctx is done, then drains the subscription.
func (q *Queue) SubscribeAnalysisCompleted(
	ctx context.Context,
	handler func(context.Context, domain.AnalysisCompletedEvent) error,
) error {
	sub, err := q.conn.QueueSubscribe(q.subject, queueGroup, func(msg *nats.Msg) {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}
		handleMessage(ctx, msg.Data, handler)
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}

	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := q.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}

func handleMessage(
	ctx context.Context,
	data []byte,
	handler func(context.Context, domain.AnalysisCompletedEvent) error,
) {
	var event domain.AnalysisCompletedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		slog.WarnContext(ctx, "analysis_event_decode_failed", "error", err, "bytes", len(data))
		return
	}

	handlerCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := handler(handlerCtx, event); err != nil {
		slog.ErrorContext(ctx, "analysis_event_handler_failed", "analysis_id", event.AnalysisID, "error", err)
	}
}
