package core

import (
	"encoding/json"
	"strings"
)

// rawAnalysis mirrors AnalysisResult with pointer fields so that an absent
// field is distinguishable from a zero value
type rawAnalysis struct {
	IsPhishing           *bool     `json:"isPhishing"`
	RiskLevel            *string   `json:"riskLevel"`
	SuspiciousIndicators *[]string `json:"suspiciousIndicators"`
	Recommendation       *string   `json:"recommendation"`
	Summary              *string   `json:"summary"`
	TechnicalDetails     *string   `json:"technicalDetails"`
}

// ParseAnalysisResult parses and validates a raw model payload. The model is
// untrusted input even though it was asked for JSON: every required field must
// be present and correctly typed, and the risk level must be one of the three
// allowed values. Any violation yields a ContractViolationError.
func ParseAnalysisResult(payload string) (*AnalysisResult, error) {
	text := extractJSON(payload)
	if text == "" {
		return nil, &ContractViolationError{Reason: "no JSON object in response"}
	}

	var raw rawAnalysis
	decoder := json.NewDecoder(strings.NewReader(text))
	if err := decoder.Decode(&raw); err != nil {
		return nil, &ContractViolationError{Reason: "response is not valid JSON", Err: err}
	}

	switch {
	case raw.IsPhishing == nil:
		return nil, &ContractViolationError{Reason: "missing required field isPhishing"}
	case raw.RiskLevel == nil:
		return nil, &ContractViolationError{Reason: "missing required field riskLevel"}
	case raw.SuspiciousIndicators == nil:
		return nil, &ContractViolationError{Reason: "missing required field suspiciousIndicators"}
	case raw.Recommendation == nil:
		return nil, &ContractViolationError{Reason: "missing required field recommendation"}
	case raw.Summary == nil:
		return nil, &ContractViolationError{Reason: "missing required field summary"}
	case raw.TechnicalDetails == nil:
		return nil, &ContractViolationError{Reason: "missing required field technicalDetails"}
	}

	level := RiskLevel(*raw.RiskLevel)
	if !level.IsValid() {
		return nil, &ContractViolationError{Reason: "riskLevel must be Low, Medium or High, got " + *raw.RiskLevel}
	}

	return &AnalysisResult{
		IsPhishing:           *raw.IsPhishing,
		RiskLevel:            level,
		SuspiciousIndicators: *raw.SuspiciousIndicators,
		Recommendation:       *raw.Recommendation,
		Summary:              *raw.Summary,
		TechnicalDetails:     *raw.TechnicalDetails,
	}, nil
}

// extractJSON returns the outermost {...} span of the text. Models sometimes
// wrap the object in prose or code fences despite instructions.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}
