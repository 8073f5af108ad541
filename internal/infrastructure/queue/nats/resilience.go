package nats

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go"

	"github.com/contractchecked/contract-checked/internal/infrastructure/resilience"
)

func classifyNATSError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{RecordFailure: false}
	}
	if errors.Is(err, nats.ErrMaxPayload) || errors.Is(err, nats.ErrBadSubject) {
		return resilience.ErrorClassification{RecordFailure: false}
	}
	return resilience.ErrorClassification{RecordFailure: true}
}
