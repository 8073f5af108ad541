package httpadapter

import (
	"net/http"

	"github.com/contractchecked/contract-checked/internal/core/domain"
)

const (
	msgProviderBusy        = "Service is busy. Please try again in a few minutes."
	msgProviderUnavailable = "AI service temporarily unavailable. Please try again in a moment."
	msgProviderTimeout     = "AI service request timed out. Please try again."
	msgProviderNetwork     = "Network error connecting to AI service. Please try again."
	msgProviderMalformed   = "AI response format error. Please try again."

	msgAnalyzeFailed  = "Failed to analyze contract. Please try again."
	msgCompareFailed  = "Failed to compare contracts. Please try again."
	msgTemplateFailed = "Failed to generate document"
	msgExportFailed   = "Failed to export analyses"
	msgNotFound       = "Not found"
	msgInvalidRequest = "Invalid request"
)

// errorKind pairs a domain kind with its HTTP status, a caller-safe message
// and a metric label. Order matters: input kinds are matched before provider
// kinds.
type errorKind struct {
	kind    error
	status  int
	message string
	label   string
}

var providerErrorKinds = []errorKind{
	{domain.ErrRateLimited, http.StatusTooManyRequests, msgProviderBusy, "rate_limited"},
	{domain.ErrUnauthorized, http.StatusInternalServerError, msgProviderUnavailable, "unauthorized"},
	{domain.ErrTimeout, http.StatusInternalServerError, msgProviderTimeout, "timeout"},
	{domain.ErrNetwork, http.StatusInternalServerError, msgProviderNetwork, "network"},
	{domain.ErrMalformedResponse, http.StatusInternalServerError, msgProviderMalformed, "malformed_response"},
}

// mapError returns the status, message and metric label for err. fallback is
// the message used for unclassified failures.
func mapError(err error, fallback string) (int, string, string) {
	if inputErr, ok := domain.AsInputError(err); ok {
		return http.StatusBadRequest, inputErr.Message, "invalid_input"
	}
	switch {
	case domain.IsKind(err, domain.ErrNotFound):
		return http.StatusNotFound, msgNotFound, "not_found"
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, msgInvalidRequest, "invalid_input"
	}
	for _, k := range providerErrorKinds {
		if domain.IsKind(err, k.kind) {
			return k.status, k.message, k.label
		}
	}
	return http.StatusInternalServerError, fallback, "error"
}
