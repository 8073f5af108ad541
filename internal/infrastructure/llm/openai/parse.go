package openai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/contractchecked/contract-checked/internal/core/domain"
)

// stripCodeFence removes a surrounding ``` fence and its language tag, in any
// case, if the model added one.
func stripCodeFence(raw string) string {
	clean := strings.TrimSpace(raw)
	if !strings.HasPrefix(clean, "```") {
		return clean
	}
	clean = strings.TrimPrefix(clean, "```")
	if len(clean) >= 4 && strings.EqualFold(clean[:4], "json") {
		clean = clean[4:]
	} else if nl := strings.IndexByte(clean, '\n'); nl >= 0 && !strings.ContainsAny(clean[:nl], "{[") {
		clean = clean[nl+1:]
	}
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	return strings.TrimSpace(clean)
}

// shape is the JSON kind a required top-level key must carry.
type shape byte

const (
	shapeString shape = '"'
	shapeArray  shape = '['
	shapeObject shape = '{'
)

var analysisShape = map[string]shape{
	"summary":                 shapeString,
	"keyClauses":              shapeArray,
	"recommendations":         shapeArray,
	"overallRisk":             shapeString,
	"categories":              shapeArray,
	"resourceRecommendations": shapeArray,
}

var comparisonShape = map[string]shape{
	"summary":           shapeString,
	"comparison":        shapeObject,
	"acsRiskAssessment": shapeObject,
	"recommendations":   shapeArray,
	"contractStrength":  shapeObject,
}

func checkRequiredKeys(payload []byte, keys []string, shapes map[string]shape) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(payload, &top); err != nil {
		return fmt.Errorf("response is not a JSON object: %w", err)
	}
	for _, key := range keys {
		value, ok := top[key]
		if !ok {
			return fmt.Errorf("missing key %q", key)
		}
		value = bytes.TrimSpace(value)
		if len(value) == 0 || bytes.Equal(value, []byte("null")) {
			return fmt.Errorf("key %q is null", key)
		}
		if want, ok := shapes[key]; ok && value[0] != byte(want) {
			return fmt.Errorf("key %q has the wrong JSON type", key)
		}
	}
	return nil
}

func parseAnalysis(raw string) (*domain.AnalysisResult, error) {
	payload := []byte(stripCodeFence(raw))
	if err := checkRequiredKeys(payload, domain.AnalysisRequiredKeys, analysisShape); err != nil {
		return nil, malformed("parse analysis", err)
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, malformed("parse analysis", err)
	}
	if err := result.Validate(); err != nil {
		return nil, malformed("validate analysis", err)
	}
	result.DropInvalidSuggestions()

	if result.KeyClauses == nil {
		result.KeyClauses = []domain.KeyClause{}
	}
	if result.Recommendations == nil {
		result.Recommendations = []string{}
	}
	return &result, nil
}

func parseComparison(raw string) (*domain.ComparisonResult, error) {
	payload := []byte(stripCodeFence(raw))
	if err := checkRequiredKeys(payload, domain.ComparisonRequiredKeys, comparisonShape); err != nil {
		return nil, malformed("parse comparison", err)
	}

	var result domain.ComparisonResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, malformed("parse comparison", err)
	}
	if err := result.Validate(); err != nil {
		return nil, malformed("validate comparison", err)
	}
	fillComparisonSlices(&result)
	return &result, nil
}

func fillComparisonSlices(r *domain.ComparisonResult) {
	if r.Comparison.KeyDifferences == nil {
		r.Comparison.KeyDifferences = []domain.KeyDifference{}
	}
	if r.ACSRiskAssessment.CancellationRisks == nil {
		r.ACSRiskAssessment.CancellationRisks = []domain.CancellationRisk{}
	}
	if r.ACSRiskAssessment.FinancialExposure == nil {
		r.ACSRiskAssessment.FinancialExposure = []domain.FinancialExposure{}
	}
	if r.ACSRiskAssessment.OperationalRisks == nil {
		r.ACSRiskAssessment.OperationalRisks = []domain.OperationalRisk{}
	}
	for i := range r.Recommendations {
		if r.Recommendations[i].ActionItems == nil {
			r.Recommendations[i].ActionItems = []string{}
		}
	}
}

var errEmptyCompletion = errors.New("no response from AI service")

func malformed(operation string, err error) error {
	return domain.WrapError(domain.ErrMalformedResponse, operation, err)
}
