package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/contractchecked/contract-checked/internal/core/domain"
	"github.com/contractchecked/contract-checked/internal/core/ports"
)

type TrackAnalysisEventsUseCase struct {
	metrics ports.AnalysisEventMetrics
	now     func() time.Time
}

func NewTrackAnalysisEventsUseCase(metrics ports.AnalysisEventMetrics) *TrackAnalysisEventsUseCase {
	return &TrackAnalysisEventsUseCase{
		metrics: metrics,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (uc *TrackAnalysisEventsUseCase) Handle(ctx context.Context, event domain.AnalysisCompletedEvent) error {
	if strings.TrimSpace(event.AnalysisID) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "handle analysis event", errors.New("analysis id is empty"))
	}
	if !event.OverallRisk.Valid() {
		return domain.WrapError(domain.ErrInvalidInput, "handle analysis event", fmt.Errorf("overall risk %q", event.OverallRisk))
	}

	lag := -1.0
	if !event.CreatedAt.IsZero() {
		lag = uc.now().Sub(event.CreatedAt).Seconds()
	}
	if uc.metrics != nil {
		uc.metrics.RecordAnalysisEvent(string(event.OverallRisk), lag)
	}

	slog.InfoContext(ctx, "analysis_event",
		"analysis_id", event.AnalysisID,
		"overall_risk", event.OverallRisk,
		"categories", event.Categories,
	)
	return nil
}
