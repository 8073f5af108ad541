package openai

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/contractchecked/contract-checked/internal/core/domain"
	"github.com/contractchecked/contract-checked/internal/infrastructure/resilience"
)

// classifyProviderError maps a chat completion failure onto a domain kind.
// Structured errors win; message matching is the last resort.
func classifyProviderError(err error) error {
	if err == nil {
		return nil
	}
	if resilience.IsCircuitOpen(err) {
		return domain.ErrProvider
	}

	if status, ok := providerStatus(err); ok {
		switch {
		case status == http.StatusTooManyRequests:
			return domain.ErrRateLimited
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return domain.ErrUnauthorized
		case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
			return domain.ErrTimeout
		default:
			return domain.ErrProvider
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return domain.ErrTimeout
		}
		return domain.ErrNetwork
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return domain.ErrNetwork
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "429"):
		return domain.ErrRateLimited
	case strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized"):
		return domain.ErrUnauthorized
	case strings.Contains(msg, "timeout"):
		return domain.ErrTimeout
	case strings.Contains(msg, "network") || strings.Contains(msg, "fetch"):
		return domain.ErrNetwork
	default:
		return domain.ErrProvider
	}
}

func providerStatus(err error) (int, bool) {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}

// breakerClassifier counts only provider outages against the breaker. Rate
// limiting and caller-side failures pass through so they keep their own status.
func breakerClassifier(err error) resilience.ErrorClassification {
	if err == nil || errors.Is(err, context.Canceled) {
		return resilience.ErrorClassification{}
	}
	if status, ok := providerStatus(err); ok {
		return resilience.ErrorClassification{RecordFailure: status >= 500}
	}
	if classifyProviderError(err) == domain.ErrRateLimited {
		return resilience.ErrorClassification{}
	}
	return resilience.ErrorClassification{RecordFailure: true}
}
