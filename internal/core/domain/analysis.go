package domain

import (
	"errors"
	"fmt"
	"strings"
)

type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskHigh, RiskMedium, RiskLow:
		return true
	default:
		return false
	}
}

type ClauseType string

const (
	ClauseAdvantage    ClauseType = "advantage"
	ClauseDisadvantage ClauseType = "disadvantage"
	ClauseNeutral      ClauseType = "neutral"
)

func (t ClauseType) Valid() bool {
	switch t {
	case ClauseAdvantage, ClauseDisadvantage, ClauseNeutral:
		return true
	default:
		return false
	}
}

type ResourceType string

const (
	ResourceTemplate ResourceType = "template"
	ResourceExpert   ResourceType = "expert"
	ResourceGuide    ResourceType = "guide"
	ResourceService  ResourceType = "service"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourceTemplate, ResourceExpert, ResourceGuide, ResourceService:
		return true
	default:
		return false
	}
}

type KeyClause struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Risk        RiskLevel  `json:"risk"`
	Type        ClauseType `json:"type"`
}

type CategoryScore struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

type ResourceRecommendation struct {
	Type        ResourceType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Priority    float64      `json:"priority"`
	Reason      string       `json:"reason"`
}

type LearningInsights struct {
	Patterns   map[string]any `json:"patterns"`
	Confidence float64        `json:"confidence"`
}

// AnalysisResult is the single-contract analysis returned by the model.
type AnalysisResult struct {
	Summary                 string                   `json:"summary"`
	KeyClauses              []KeyClause              `json:"keyClauses"`
	Recommendations         []string                 `json:"recommendations"`
	OverallRisk             RiskLevel                `json:"overallRisk"`
	Categories              []CategoryScore          `json:"categories"`
	ResourceRecommendations []ResourceRecommendation `json:"resourceRecommendations"`
	LearningInsights        *LearningInsights        `json:"learningInsights,omitempty"`
}

// AnalysisRequiredKeys lists the top-level keys a model payload must carry.
var AnalysisRequiredKeys = []string{
	"summary",
	"keyClauses",
	"recommendations",
	"overallRisk",
	"categories",
	"resourceRecommendations",
}

// Validate rejects a result that is missing required content or carries an
// out-of-range enum on a clause.
func (r *AnalysisResult) Validate() error {
	if r == nil {
		return errors.New("analysis result is nil")
	}
	if strings.TrimSpace(r.Summary) == "" {
		return errors.New("summary is empty")
	}
	if !r.OverallRisk.Valid() {
		return fmt.Errorf("overallRisk %q is not one of high|medium|low", r.OverallRisk)
	}
	for i, clause := range r.KeyClauses {
		if strings.TrimSpace(clause.Title) == "" {
			return fmt.Errorf("keyClauses[%d].title is empty", i)
		}
		if !clause.Risk.Valid() {
			return fmt.Errorf("keyClauses[%d].risk %q is invalid", i, clause.Risk)
		}
		if !clause.Type.Valid() {
			return fmt.Errorf("keyClauses[%d].type %q is invalid", i, clause.Type)
		}
	}
	return nil
}

// DropInvalidSuggestions filters categories and resource recommendations the
// model produced outside their allowed ranges.
func (r *AnalysisResult) DropInvalidSuggestions() {
	categories := make([]CategoryScore, 0, len(r.Categories))
	for _, cat := range r.Categories {
		if strings.TrimSpace(cat.Name) == "" || cat.Confidence < 0 || cat.Confidence > 1 {
			continue
		}
		categories = append(categories, cat)
	}
	r.Categories = categories

	resources := make([]ResourceRecommendation, 0, len(r.ResourceRecommendations))
	for _, rec := range r.ResourceRecommendations {
		if !rec.Type.Valid() || rec.Title == "" || rec.Description == "" || rec.Reason == "" {
			continue
		}
		if rec.Priority < 1 || rec.Priority > 5 {
			continue
		}
		resources = append(resources, rec)
	}
	r.ResourceRecommendations = resources
}

// CategoryNames returns category names in model order.
func (r *AnalysisResult) CategoryNames() []string {
	names := make([]string, 0, len(r.Categories))
	for _, cat := range r.Categories {
		names = append(names, cat.Name)
	}
	return names
}
