package httpserver

import (
	"time"

	"github.com/mikey/llm-phishing-analyzer/internal/core"
)

// analyzeRequest is the body of POST /api/analyze
type analyzeRequest struct {
	EmailText string `json:"emailText"`
}

// resultPayload wraps an AnalysisResult with its derived display score.
// The score is a fixed per-verdict constant, not a computed metric.
type resultPayload struct {
	core.AnalysisResult
	DisplayScore int `json:"displayScore"`
}

func newResultPayload(r core.AnalysisResult) *resultPayload {
	return &resultPayload{AnalysisResult: r, DisplayScore: r.DisplayScore()}
}

// historyItemPayload is one entry of the history list
type historyItemPayload struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	EmailPreview string    `json:"emailPreview"`
	RiskLevel    string    `json:"riskLevel"`
	IsPhishing   bool      `json:"isPhishing"`
}

func newHistoryItemPayload(item core.HistoryItem) historyItemPayload {
	return historyItemPayload{
		ID:           item.ID,
		Timestamp:    item.Timestamp,
		EmailPreview: item.EmailPreview,
		RiskLevel:    string(item.Result.RiskLevel),
		IsPhishing:   item.Result.IsPhishing,
	}
}

// statePayload is the full session snapshot returned by GET /api/state and
// by the mutating endpoints
type statePayload struct {
	InputText string               `json:"inputText"`
	Analyzing bool                 `json:"analyzing"`
	Result    *resultPayload       `json:"result"`
	Error     string               `json:"error,omitempty"`
	History   []historyItemPayload `json:"history"`
}

func newStatePayload(state core.SessionState) statePayload {
	payload := statePayload{
		InputText: state.InputText,
		Analyzing: state.Analyzing,
		Error:     state.ErrorMessage,
		History:   make([]historyItemPayload, 0, len(state.History)),
	}
	if state.Result != nil {
		payload.Result = newResultPayload(*state.Result)
	}
	for _, item := range state.History {
		payload.History = append(payload.History, newHistoryItemPayload(item))
	}
	return payload
}

// selectResponse is returned when a history item is restored
type selectResponse struct {
	Item  core.HistoryItem `json:"item"`
	State statePayload     `json:"state"`
}

// errorResponse is the uniform error body
type errorResponse struct {
	Error string `json:"error"`
}
