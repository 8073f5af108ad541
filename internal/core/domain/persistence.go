package domain

import "time"

// LearningSampleChars bounds the contract text kept alongside a learning pattern.
const LearningSampleChars = 2000

// PersistedAnalysis is the durable, insert-only record of a single-contract analysis.
type PersistedAnalysis struct {
	ID              string      `json:"id"`
	FileName        string      `json:"file_name"`
	FileSize        int64       `json:"file_size"`
	FileType        string      `json:"file_type"`
	FilePath        string      `json:"file_path,omitempty"`
	Summary         string      `json:"summary"`
	KeyClauses      []KeyClause `json:"key_clauses"`
	Recommendations []string    `json:"recommendations"`
	OverallRisk     RiskLevel   `json:"overall_risk"`
	CreatedAt       time.Time   `json:"created_at"`
}

type ClauseDigest struct {
	Title string    `json:"title"`
	Risk  RiskLevel `json:"risk"`
}

type LearningPattern struct {
	ID                 string         `json:"id"`
	ContractTextSample string         `json:"contract_text_sample"`
	Categories         []string       `json:"categories"`
	RiskPatterns       map[string]any `json:"risk_patterns"`
	CommonClauses      []ClauseDigest `json:"common_clauses"`
	AnalysisConfidence float64        `json:"analysis_confidence"`
	CreatedAt          time.Time      `json:"created_at"`
}

// AnalysisRecord is everything the recorder needs once a result is final.
type AnalysisRecord struct {
	Document UploadedDocument
	Text     string
	Result   AnalysisResult
}

// AnalysisCompletedEvent is published after an analysis has been stored.
type AnalysisCompletedEvent struct {
	AnalysisID  string    `json:"analysis_id"`
	FileName    string    `json:"file_name"`
	FileType    string    `json:"file_type"`
	OverallRisk RiskLevel `json:"overall_risk"`
	Categories  []string  `json:"categories"`
	CreatedAt   time.Time `json:"created_at"`
}
