package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/llm-phishing-analyzer/internal/utils"
)

// SessionState is a point-in-time snapshot of the analyzer session. Exactly
// one of {no result, showing a result} holds, an error and a result are
// mutually exclusive, and Analyzing is true only while a call is in flight.
type SessionState struct {
	InputText    string
	Analyzing    bool
	Result       *AnalysisResult
	ErrorMessage string
	History      []HistoryItem
}

// AnalyzerService orchestrates phishing analyses and owns the session state.
// Only one analysis may be in flight at a time; concurrent submissions are
// rejected rather than queued. There is no cancellation once a call is issued.
type AnalyzerService struct {
	llmClient     LLMClient
	cache         CacheRepository
	history       *HistoryStore
	logger        *zap.Logger
	cachePolicy   CachePolicy
	textProcessor *utils.TextProcessor

	mu            sync.Mutex
	analyzing     bool
	inputText     string
	currentResult *AnalysisResult
	lastError     string
}

// NewAnalyzerService creates a new analyzer service
func NewAnalyzerService(
	llmClient LLMClient,
	cache CacheRepository,
	history *HistoryStore,
	logger *zap.Logger,
	cachePolicy CachePolicy,
	textProcessor *utils.TextProcessor,
) *AnalyzerService {
	return &AnalyzerService{
		llmClient:     llmClient,
		cache:         cache,
		history:       history,
		logger:        logger,
		cachePolicy:   cachePolicy,
		textProcessor: textProcessor,
	}
}

// Analyze runs one analysis of the given email text. On success the result
// becomes the current result and a history item is recorded; on any failure
// the session shows the generic error message and history is untouched.
func (s *AnalyzerService) Analyze(ctx context.Context, emailText string) (*AnalysisResult, error) {
	trimmed := strings.TrimSpace(emailText)
	if trimmed == "" {
		return nil, ErrEmptyEmail
	}

	// Single-flight guard. A submission while analyzing is rejected; nothing
	// is queued. The guard also clears the previous result and error before
	// the call starts.
	s.mu.Lock()
	if s.analyzing {
		s.mu.Unlock()
		return nil, ErrAnalysisInFlight
	}
	s.analyzing = true
	s.inputText = emailText
	s.currentResult = nil
	s.lastError = ""
	s.mu.Unlock()

	start := time.Now()
	result, err := s.analyzeOnce(ctx, trimmed)

	// Leave the analyzing state on every path.
	s.mu.Lock()
	s.analyzing = false
	if err != nil {
		s.lastError = UserFacingErrorMessage
		s.mu.Unlock()
		s.logFailure(err, time.Since(start))
		return nil, err
	}
	s.currentResult = result
	s.mu.Unlock()

	s.history.Record(NewHistoryItem(s.textProcessor.Preview(emailText), *result))

	s.logger.Info("Email analyzed",
		zap.Bool("is_phishing", result.IsPhishing),
		zap.String("risk_level", string(result.RiskLevel)),
		zap.Int("indicators", len(result.SuspiciousIndicators)),
		zap.Duration("duration", time.Since(start)))

	return result, nil
}

// analyzeOnce resolves a verdict from the cache or the LLM
func (s *AnalyzerService) analyzeOnce(ctx context.Context, trimmed string) (*AnalysisResult, error) {
	key := contentKey(trimmed)

	if s.cachePolicy.Enabled {
		if entry, err := s.cache.Get(ctx, key); err == nil {
			s.logger.Debug("Cache hit for email content", zap.String("key", key))
			result := entry.Result
			return &result, nil
		}
	}

	result, err := s.llmClient.AnalyzeEmail(ctx, trimmed)
	if err != nil {
		return nil, err
	}

	if s.cachePolicy.Enabled {
		entry := &CacheEntry{
			Key:       key,
			Result:    *result,
			CachedAt:  time.Now(),
			ExpiresAt: time.Now().Add(s.cachePolicy.TTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update analysis cache", zap.Error(err))
		}
	}

	return result, nil
}

func (s *AnalyzerService) logFailure(err error, elapsed time.Duration) {
	var transport *TransportError
	var contract *ContractViolationError
	switch {
	case errors.As(err, &transport):
		s.logger.Error("Analysis transport failure",
			zap.String("provider", transport.Provider),
			zap.Duration("duration", elapsed),
			zap.Error(err))
	case errors.As(err, &contract):
		s.logger.Error("Analysis contract violation",
			zap.String("reason", contract.Reason),
			zap.Duration("duration", elapsed),
			zap.Error(err))
	default:
		s.logger.Error("Analysis failed", zap.Duration("duration", elapsed), zap.Error(err))
	}
}

// SelectHistory restores a past analysis as the current view without issuing
// a new external call. Only the stored preview is restorable as input text,
// not the full original email.
func (s *AnalyzerService) SelectHistory(id string) (HistoryItem, error) {
	item, err := s.history.Select(id)
	if err != nil {
		return HistoryItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	result := item.Result
	s.currentResult = &result
	s.inputText = item.EmailPreview
	s.lastError = ""

	return item, nil
}

// ClearAll resets input text, current result and error. History is untouched.
func (s *AnalyzerService) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputText = ""
	s.currentResult = nil
	s.lastError = ""
}

// State returns a snapshot of the session, including a copy of the history
func (s *AnalyzerService) State() SessionState {
	s.mu.Lock()
	state := SessionState{
		InputText:    s.inputText,
		Analyzing:    s.analyzing,
		ErrorMessage: s.lastError,
	}
	if s.currentResult != nil {
		result := *s.currentResult
		state.Result = &result
	}
	s.mu.Unlock()

	state.History = s.history.Items()
	return state
}

// History returns a copy of the recorded analyses, newest first
func (s *AnalyzerService) History() []HistoryItem {
	return s.history.Items()
}

// contentKey derives the cache key for a trimmed email text
func contentKey(trimmed string) string {
	sum := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(sum[:])
}
