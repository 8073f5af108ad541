package domain

import (
	"errors"
	"fmt"
	"strings"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	return RiskLevel(p).Valid()
}

type RecommendationCategory string

const (
	RecommendationNegotiation RecommendationCategory = "negotiation"
	RecommendationInsurance   RecommendationCategory = "insurance"
	RecommendationOperational RecommendationCategory = "operational"
	RecommendationLegal       RecommendationCategory = "legal"
)

func (c RecommendationCategory) Valid() bool {
	switch c {
	case RecommendationNegotiation, RecommendationInsurance, RecommendationOperational, RecommendationLegal:
		return true
	default:
		return false
	}
}

type Strength string

const (
	StrengthStrong   Strength = "strong"
	StrengthBalanced Strength = "balanced"
	StrengthWeak     Strength = "weak"
)

func (s Strength) Valid() bool {
	switch s {
	case StrengthStrong, StrengthBalanced, StrengthWeak:
		return true
	default:
		return false
	}
}

type Balance string

const (
	BalanceFavorableOperator Balance = "favorable_operator"
	BalanceEven              Balance = "balanced"
	BalanceFavorableACS      Balance = "favorable_acs"
)

func (b Balance) Valid() bool {
	switch b {
	case BalanceFavorableOperator, BalanceEven, BalanceFavorableACS:
		return true
	default:
		return false
	}
}

type KeyDifference struct {
	Category      string    `json:"category"`
	OperatorTerms string    `json:"operatorTerms"`
	ACSTerms      string    `json:"acsTerms"`
	Risk          RiskLevel `json:"risk"`
	Impact        string    `json:"impact"`
}

type ContractComparison struct {
	Alignment         RiskLevel       `json:"alignment"`
	OverallAssessment string          `json:"overallAssessment"`
	KeyDifferences    []KeyDifference `json:"keyDifferences"`
}

type CancellationRisk struct {
	Title                     string    `json:"title"`
	Description               string    `json:"description"`
	Severity                  RiskLevel `json:"severity"`
	OperatorContractReference string    `json:"operatorContractReference"`
	ACSBookingReference       string    `json:"acsBookingReference"`
	Recommendation            string    `json:"recommendation"`
}

type FinancialExposure struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	PotentialLoss string    `json:"potentialLoss"`
	Risk          RiskLevel `json:"risk"`
	Mitigation    string    `json:"mitigation"`
}

type OperationalRisk struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Impact         string    `json:"impact"`
	Likelihood     RiskLevel `json:"likelihood"`
	Recommendation string    `json:"recommendation"`
}

type ACSRiskAssessment struct {
	CancellationRisks []CancellationRisk  `json:"cancellationRisks"`
	FinancialExposure []FinancialExposure `json:"financialExposure"`
	OperationalRisks  []OperationalRisk   `json:"operationalRisks"`
}

type ComparisonRecommendation struct {
	Priority    Priority               `json:"priority"`
	Category    RecommendationCategory `json:"category"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	ActionItems []string               `json:"actionItems"`
}

type ContractStrength struct {
	OperatorContract Strength `json:"operatorContract"`
	ACSBooking       Strength `json:"acsBooking"`
	Overall          Balance  `json:"overall"`
}

// ComparisonResult is the operator contract versus ACS booking form analysis.
type ComparisonResult struct {
	Summary           string                     `json:"summary"`
	Comparison        ContractComparison         `json:"comparison"`
	ACSRiskAssessment ACSRiskAssessment          `json:"acsRiskAssessment"`
	Recommendations   []ComparisonRecommendation `json:"recommendations"`
	ContractStrength  ContractStrength           `json:"contractStrength"`
}

var ComparisonRequiredKeys = []string{
	"summary",
	"comparison",
	"acsRiskAssessment",
	"recommendations",
	"contractStrength",
}

func (r *ComparisonResult) Validate() error {
	if r == nil {
		return errors.New("comparison result is nil")
	}
	if strings.TrimSpace(r.Summary) == "" {
		return errors.New("summary is empty")
	}
	if !r.Comparison.Alignment.Valid() {
		return fmt.Errorf("comparison.alignment %q is invalid", r.Comparison.Alignment)
	}
	for i, diff := range r.Comparison.KeyDifferences {
		if !diff.Risk.Valid() {
			return fmt.Errorf("comparison.keyDifferences[%d].risk %q is invalid", i, diff.Risk)
		}
	}
	for i, risk := range r.ACSRiskAssessment.CancellationRisks {
		if !risk.Severity.Valid() {
			return fmt.Errorf("acsRiskAssessment.cancellationRisks[%d].severity %q is invalid", i, risk.Severity)
		}
	}
	for i, exposure := range r.ACSRiskAssessment.FinancialExposure {
		if !exposure.Risk.Valid() {
			return fmt.Errorf("acsRiskAssessment.financialExposure[%d].risk %q is invalid", i, exposure.Risk)
		}
	}
	for i, risk := range r.ACSRiskAssessment.OperationalRisks {
		if !risk.Likelihood.Valid() {
			return fmt.Errorf("acsRiskAssessment.operationalRisks[%d].likelihood %q is invalid", i, risk.Likelihood)
		}
	}
	for i, rec := range r.Recommendations {
		if !rec.Priority.Valid() {
			return fmt.Errorf("recommendations[%d].priority %q is invalid", i, rec.Priority)
		}
		if !rec.Category.Valid() {
			return fmt.Errorf("recommendations[%d].category %q is invalid", i, rec.Category)
		}
	}
	if !r.ContractStrength.OperatorContract.Valid() {
		return fmt.Errorf("contractStrength.operatorContract %q is invalid", r.ContractStrength.OperatorContract)
	}
	if !r.ContractStrength.ACSBooking.Valid() {
		return fmt.Errorf("contractStrength.acsBooking %q is invalid", r.ContractStrength.ACSBooking)
	}
	if !r.ContractStrength.Overall.Valid() {
		return fmt.Errorf("contractStrength.overall %q is invalid", r.ContractStrength.Overall)
	}
	return nil
}
