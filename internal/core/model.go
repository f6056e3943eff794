package core

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel is the coarse risk classification assigned by the model
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// IsValid reports whether the value is one of the three allowed levels
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// AnalysisResult represents the structured verdict for one analyzed email.
// All six fields are required; a payload missing any of them is rejected
// during parsing, never defaulted.
type AnalysisResult struct {
	IsPhishing           bool      `json:"isPhishing"`
	RiskLevel            RiskLevel `json:"riskLevel"`
	SuspiciousIndicators []string  `json:"suspiciousIndicators"`
	Recommendation       string    `json:"recommendation"`
	Summary              string    `json:"summary"`
	TechnicalDetails     string    `json:"technicalDetails"`
}

// Display scores shown next to the verdict. Fixed per-verdict values, not a
// computed metric.
const (
	phishingDisplayScore   = 24
	legitimateDisplayScore = 98
)

// DisplayScore returns the 0-100 safety score shown in the UI for this verdict
func (r *AnalysisResult) DisplayScore() int {
	if r.IsPhishing {
		return phishingDisplayScore
	}
	return legitimateDisplayScore
}

// HistoryItem is one past analysis kept in the session history. Items are
// immutable once recorded.
type HistoryItem struct {
	ID           string         `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	EmailPreview string         `json:"emailPreview"`
	Result       AnalysisResult `json:"result"`
}

// NewHistoryItem builds a history item for a completed analysis
func NewHistoryItem(emailPreview string, result AnalysisResult) HistoryItem {
	return HistoryItem{
		ID:           uuid.New().String(),
		Timestamp:    time.Now(),
		EmailPreview: emailPreview,
		Result:       result,
	}
}

// CacheEntry stores a previously computed analysis keyed by a hash of the
// submitted email text
type CacheEntry struct {
	Key       string
	Result    AnalysisResult
	CachedAt  time.Time
	ExpiresAt time.Time
}
