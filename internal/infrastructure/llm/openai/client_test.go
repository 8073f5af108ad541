package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/contractchecked/contract-checked/internal/core/domain"
	"github.com/contractchecked/contract-checked/internal/infrastructure/resilience"
)

const analysisJSON = `{
  "summary": "A twelve month residential lease.",
  "keyClauses": [
    {"title": "Rent", "description": "Monthly rent of 1200", "risk": "low", "type": "neutral"},
    {"title": "Early termination", "description": "Two months penalty", "risk": "high", "type": "disadvantage"}
  ],
  "recommendations": ["Negotiate the termination penalty."],
  "overallRisk": "medium",
  "categories": [
    {"name": "Real Estate", "confidence": 0.95},
    {"name": "Broken", "confidence": 1.7}
  ],
  "resourceRecommendations": [
    {"type": "template", "title": "Lease template", "description": "Standard lease", "priority": 3, "reason": "Similar agreement"},
    {"type": "podcast", "title": "Bad", "description": "Bad", "priority": 3, "reason": "Bad"}
  ],
  "learningInsights": {"patterns": {"industry_context": "housing"}, "confidence": 0.8}
}`

const comparisonJSON = `{
  "summary": "The booking form is looser than the operator contract.",
  "comparison": {"alignment": "low", "overallAssessment": "Weak protection", "keyDifferences": []},
  "acsRiskAssessment": {"cancellationRisks": [], "financialExposure": [], "operationalRisks": []},
  "recommendations": [{"priority": "high", "category": "negotiation", "title": "Tighten", "description": "Match operator terms", "actionItems": ["Use 100% one-way cancellation"]}],
  "contractStrength": {"operatorContract": "strong", "acsBooking": "weak", "overall": "favorable_operator"}
}`

type capturedRequest struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Format      struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

type tokenRecorderFake struct {
	counts map[string]int
}

func (f *tokenRecorderFake) RecordTokens(mode, direction, _ string, count int) {
	if f.counts == nil {
		f.counts = make(map[string]int)
	}
	f.counts[mode+":"+direction] += count
}

func completionBody(content string) []byte {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]int{"prompt_tokens": 120, "completion_tokens": 80, "total_tokens": 200},
	})
	return body
}

func newServer(t *testing.T, calls *int, captured *capturedRequest, status int, body []byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		*calls++
		if captured != nil {
			if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(baseURL string, opts Options) *Client {
	if opts.APIKey == "" {
		opts.APIKey = "test-key"
	}
	opts.BaseURL = baseURL + "/v1"
	return New(opts)
}

func TestAnalyzeContractParsesResultAndSendsPrompt(t *testing.T) {
	calls := 0
	var captured capturedRequest
	server := newServer(t, &calls, &captured, http.StatusOK, completionBody(analysisJSON))
	tokens := &tokenRecorderFake{}
	client := newTestClient(server.URL, Options{Tokens: tokens})

	result, err := client.AnalyzeContract(context.Background(), "THE LEASE TEXT", "lease.pdf")
	if err != nil {
		t.Fatalf("AnalyzeContract() error = %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one provider call, got %d", calls)
	}
	if result.OverallRisk != domain.RiskMedium || len(result.KeyClauses) != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(result.Categories) != 1 || result.Categories[0].Name != "Real Estate" {
		t.Fatalf("out of range category must be dropped, got %+v", result.Categories)
	}
	if len(result.ResourceRecommendations) != 1 {
		t.Fatalf("unknown resource type must be dropped, got %+v", result.ResourceRecommendations)
	}
	if result.LearningInsights == nil || result.LearningInsights.Confidence != 0.8 {
		t.Fatalf("expected learning insights, got %+v", result.LearningInsights)
	}

	if captured.Model != defaultModel || captured.MaxTokens != defaultAnalysisMaxTokens {
		t.Fatalf("unexpected request model=%q max_tokens=%d", captured.Model, captured.MaxTokens)
	}
	if captured.Format.Type != "json_object" {
		t.Fatalf("expected JSON response format, got %q", captured.Format.Type)
	}
	if captured.Temperature < 0.09 || captured.Temperature > 0.11 {
		t.Fatalf("unexpected temperature %v", captured.Temperature)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Content != analysisSystemMessage {
		t.Fatalf("unexpected messages %+v", captured.Messages)
	}
	prompt := captured.Messages[1].Content
	if !strings.Contains(prompt, "CONTRACT FILE: lease.pdf") || !strings.Contains(prompt, "THE LEASE TEXT") {
		t.Fatalf("prompt does not embed file name and text")
	}
	if tokens.counts["analysis:prompt"] != 120 || tokens.counts["analysis:completion"] != 80 {
		t.Fatalf("unexpected token usage %v", tokens.counts)
	}
}

func TestAnalyzeContractAcceptsFencedResponse(t *testing.T) {
	calls := 0
	plain := newServer(t, &calls, nil, http.StatusOK, completionBody(analysisJSON))
	fenced := newServer(t, &calls, nil, http.StatusOK, completionBody("```json\n"+analysisJSON+"\n```"))

	want, err := newTestClient(plain.URL, Options{}).AnalyzeContract(context.Background(), "text", "a.txt")
	if err != nil {
		t.Fatalf("plain AnalyzeContract() error = %v", err)
	}
	got, err := newTestClient(fenced.URL, Options{}).AnalyzeContract(context.Background(), "text", "a.txt")
	if err != nil {
		t.Fatalf("fenced AnalyzeContract() error = %v", err)
	}

	wantJSON, _ := json.Marshal(want)
	gotJSON, _ := json.Marshal(got)
	if string(wantJSON) != string(gotJSON) {
		t.Fatalf("fenced result differs:\n%s\n%s", wantJSON, gotJSON)
	}
}

func TestAnalyzeContractRejectsMalformedPayloads(t *testing.T) {
	tests := map[string]string{
		"missing summary":      `{"keyClauses":[],"recommendations":[],"overallRisk":"low","categories":[],"resourceRecommendations":[]}`,
		"clauses not an array": `{"summary":"s","keyClauses":{},"recommendations":[],"overallRisk":"low","categories":[],"resourceRecommendations":[]}`,
		"invalid risk":         `{"summary":"s","keyClauses":[],"recommendations":[],"overallRisk":"extreme","categories":[],"resourceRecommendations":[]}`,
		"not json":             `I cannot analyze this contract.`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			calls := 0
			server := newServer(t, &calls, nil, http.StatusOK, completionBody(content))
			_, err := newTestClient(server.URL, Options{}).AnalyzeContract(context.Background(), "text", "a.txt")
			if !errors.Is(err, domain.ErrMalformedResponse) {
				t.Fatalf("expected malformed response, got %v", err)
			}
		})
	}
}

func TestAnalyzeContractEmptyCompletionIsMalformed(t *testing.T) {
	calls := 0
	server := newServer(t, &calls, nil, http.StatusOK, completionBody("   "))
	_, err := newTestClient(server.URL, Options{}).AnalyzeContract(context.Background(), "text", "a.txt")
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected malformed response, got %v", err)
	}
}

func TestProviderStatusClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   error
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, kind: domain.ErrRateLimited},
		{name: "unauthorized", status: http.StatusUnauthorized, kind: domain.ErrUnauthorized},
		{name: "server error", status: http.StatusInternalServerError, kind: domain.ErrProvider},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			body := []byte(`{"error":{"message":"provider says no","type":"error","code":"x"}}`)
			server := newServer(t, &calls, nil, tc.status, body)
			_, err := newTestClient(server.URL, Options{}).AnalyzeContract(context.Background(), "text", "a.txt")
			if !errors.Is(err, tc.kind) {
				t.Fatalf("expected %v, got %v", tc.kind, err)
			}
		})
	}
}

func TestProviderTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL, Options{Timeout: 50 * time.Millisecond})
	_, err := client.AnalyzeContract(context.Background(), "text", "a.txt")
	if !errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestMissingAPIKeyFailsFast(t *testing.T) {
	calls := 0
	server := newServer(t, &calls, nil, http.StatusOK, completionBody(analysisJSON))
	client := New(Options{BaseURL: server.URL + "/v1"})

	_, err := client.AnalyzeContract(context.Background(), "text", "a.txt")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("no network call expected without an API key")
	}
}

func TestOpenCircuitSkipsProvider(t *testing.T) {
	calls := 0
	server := newServer(t, &calls, nil, http.StatusInternalServerError, []byte(`{"error":{"message":"down","type":"server_error"}}`))
	executor := resilience.NewExecutor(resilience.Config{
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      time.Minute,
		BreakerHalfOpenMaxCalls: 1,
	})
	client := newTestClient(server.URL, Options{Executor: executor})

	for i := 0; i < 2; i++ {
		_, _ = client.AnalyzeContract(context.Background(), "text", "a.txt")
	}
	_, err := client.AnalyzeContract(context.Background(), "text", "a.txt")
	if !errors.Is(err, domain.ErrProvider) {
		t.Fatalf("expected generic provider error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("open circuit must skip the provider, calls=%d", calls)
	}
}

func TestRateLimitKeepsCircuitClosed(t *testing.T) {
	calls := 0
	server := newServer(t, &calls, nil, http.StatusTooManyRequests, []byte(`{"error":{"message":"Rate limit reached","type":"requests"}}`))
	client := newTestClient(server.URL, Options{Executor: resilience.NewExecutor(resilience.Config{BreakerEnabled: true})})

	for i := 0; i < 8; i++ {
		_, err := client.AnalyzeContract(context.Background(), "text", "a.txt")
		if !errors.Is(err, domain.ErrRateLimited) {
			t.Fatalf("call %d: expected rate limited, got %v", i+1, err)
		}
	}
	if calls != 8 {
		t.Fatalf("every call must reach the provider, calls=%d", calls)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```JSON\n{\"a\":1}\n```": `{"a":1}`,
		"```Json {\"a\":1}```":    `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		"```{\"a\":1}```":         `{"a":1}`,
		`{"a":1}`:                 `{"a":1}`,
	}
	for in, want := range tests {
		if got := stripCodeFence(in); got != want {
			t.Fatalf("stripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCompareContractsSingleCallWithBothTexts(t *testing.T) {
	calls := 0
	var captured capturedRequest
	server := newServer(t, &calls, &captured, http.StatusOK, completionBody(comparisonJSON))
	client := newTestClient(server.URL, Options{})

	result, err := client.CompareContracts(context.Background(), "OPERATOR TERMS", "BOOKING TERMS", "operator.pdf", "booking.pdf")
	if err != nil {
		t.Fatalf("CompareContracts() error = %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one provider call, got %d", calls)
	}
	if result.ContractStrength.Overall != domain.BalanceFavorableOperator {
		t.Fatalf("unexpected result %+v", result.ContractStrength)
	}
	if captured.MaxTokens != defaultComparisonMaxTokens || captured.Messages[0].Content != comparisonSystemMessage {
		t.Fatalf("unexpected request settings %+v", captured)
	}
	prompt := captured.Messages[1].Content
	for _, want := range []string{"OPERATOR TERMS", "BOOKING TERMS", "OPERATOR CONTRACT FILE: operator.pdf", "ACS BOOKING FORM FILE: booking.pdf"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestCompareContractsRejectsMissingStrength(t *testing.T) {
	calls := 0
	payload := `{"summary":"s","comparison":{"alignment":"low"},"acsRiskAssessment":{},"recommendations":[]}`
	server := newServer(t, &calls, nil, http.StatusOK, completionBody(payload))
	_, err := newTestClient(server.URL, Options{}).CompareContracts(context.Background(), "a", "b", "a.txt", "b.txt")
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected malformed response, got %v", err)
	}
}

func TestClassifyProviderErrorMessageFallback(t *testing.T) {
	tests := map[string]error{
		"Rate limit reached for requests": domain.ErrRateLimited,
		"status 401 from upstream":        domain.ErrUnauthorized,
		"upstream timeout":                domain.ErrTimeout,
		"network unreachable":             domain.ErrNetwork,
		"something else":                  domain.ErrProvider,
	}
	for msg, want := range tests {
		if got := classifyProviderError(errors.New(msg)); got != want {
			t.Fatalf("classifyProviderError(%q) = %v, want %v", msg, got, want)
		}
	}
}
