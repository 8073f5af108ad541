package openai

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/contractchecked/contract-checked/internal/core/domain"
	"github.com/contractchecked/contract-checked/internal/infrastructure/resilience"
)

const (
	modeAnalysis   = "analysis"
	modeComparison = "comparison"

	defaultModel               = "gpt-4o"
	defaultTimeout             = 120 * time.Second
	defaultTemperature         = 0.1
	defaultAnalysisMaxTokens   = 2000
	defaultComparisonMaxTokens = 2500
)

var errMissingAPIKey = errors.New("OPENAI_API_KEY is not configured")

// TokenRecorder observes completion token usage.
type TokenRecorder interface {
	RecordTokens(mode, direction, model string, count int)
}

type Options struct {
	APIKey              string
	Model               string
	BaseURL             string
	Timeout             time.Duration
	Temperature         float32
	AnalysisMaxTokens   int
	ComparisonMaxTokens int
	Executor            *resilience.Executor
	Tokens              TokenRecorder
}

// Client implements ports.ContractModel on top of the chat completions API.
type Client struct {
	api                 *goopenai.Client
	apiKey              string
	model               string
	temperature         float32
	analysisMaxTokens   int
	comparisonMaxTokens int
	executor            *resilience.Executor
	tokens              TokenRecorder
}

func New(opts Options) *Client {
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Temperature <= 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.AnalysisMaxTokens <= 0 {
		opts.AnalysisMaxTokens = defaultAnalysisMaxTokens
	}
	if opts.ComparisonMaxTokens <= 0 {
		opts.ComparisonMaxTokens = defaultComparisonMaxTokens
	}

	cfg := goopenai.DefaultConfig(opts.APIKey)
	if base := strings.TrimRight(opts.BaseURL, "/"); base != "" {
		cfg.BaseURL = base
	}
	cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}

	return &Client{
		api:                 goopenai.NewClientWithConfig(cfg),
		apiKey:              strings.TrimSpace(opts.APIKey),
		model:               opts.Model,
		temperature:         opts.Temperature,
		analysisMaxTokens:   opts.AnalysisMaxTokens,
		comparisonMaxTokens: opts.ComparisonMaxTokens,
		executor:            opts.Executor,
		tokens:              opts.Tokens,
	}
}

func (c *Client) AnalyzeContract(ctx context.Context, text, fileName string) (*domain.AnalysisResult, error) {
	raw, err := c.complete(ctx, modeAnalysis, analysisSystemMessage, buildAnalysisPrompt(text, fileName), c.analysisMaxTokens)
	if err != nil {
		return nil, err
	}
	return parseAnalysis(raw)
}

func (c *Client) CompareContracts(
	ctx context.Context,
	operatorText, bookingText, operatorFileName, bookingFileName string,
) (*domain.ComparisonResult, error) {
	prompt := buildComparisonPrompt(operatorText, bookingText, operatorFileName, bookingFileName)
	raw, err := c.complete(ctx, modeComparison, comparisonSystemMessage, prompt, c.comparisonMaxTokens)
	if err != nil {
		return nil, err
	}
	return parseComparison(raw)
}

func (c *Client) complete(ctx context.Context, mode, system, prompt string, maxTokens int) (string, error) {
	operation := "openai " + mode
	if c.apiKey == "" {
		slog.ErrorContext(ctx, "provider_misconfigured", "mode", mode, "error", errMissingAPIKey)
		return "", domain.WrapError(domain.ErrUnauthorized, operation, errMissingAPIKey)
	}

	req := goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: system},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   maxTokens,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	var resp goopenai.ChatCompletionResponse
	call := func(ctx context.Context) error {
		out, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		resp = out
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, operation, call, breakerClassifier)
	} else {
		err = call(ctx)
	}
	if err != nil {
		kind := classifyProviderError(err)
		slog.WarnContext(ctx, "provider_call_failed", "mode", mode, "kind", kind.Error(), "error", err)
		if resilience.IsCircuitOpen(err) {
			err = errors.New("AI service temporarily unavailable")
		}
		return "", domain.WrapError(kind, operation, err)
	}

	c.recordUsage(mode, resp.Usage)

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", malformed(operation, errEmptyCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) recordUsage(mode string, usage goopenai.Usage) {
	if c.tokens == nil {
		return
	}
	c.tokens.RecordTokens(mode, "prompt", c.model, usage.PromptTokens)
	c.tokens.RecordTokens(mode, "completion", c.model, usage.CompletionTokens)
}
