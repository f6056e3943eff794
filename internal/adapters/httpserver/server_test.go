package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/llm-phishing-analyzer/internal/adapters/httpserver"
	"github.com/mikey/llm-phishing-analyzer/internal/core"
	"github.com/mikey/llm-phishing-analyzer/internal/utils"
)

// fakeLLM is a scripted LLM client
type fakeLLM struct {
	mu      sync.Mutex
	result  *core.AnalysisResult
	err     error
	calls   int
	blockCh chan struct{}
}

func (f *fakeLLM) AnalyzeEmail(ctx context.Context, emailText string) (*core.AnalysisResult, error) {
	f.mu.Lock()
	f.calls++
	block := f.blockCh
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	result := *f.result
	return &result, nil
}

// nopCache satisfies CacheRepository for tests that never enable caching
type nopCache struct{}

func (nopCache) Get(ctx context.Context, key string) (*core.CacheEntry, error) {
	return nil, errors.New("not found")
}
func (nopCache) Set(ctx context.Context, entry *core.CacheEntry) error { return nil }
func (nopCache) Delete(ctx context.Context, key string) error          { return nil }
func (nopCache) Cleanup(ctx context.Context) error                     { return nil }

func phishingResult() *core.AnalysisResult {
	return &core.AnalysisResult{
		IsPhishing:           true,
		RiskLevel:            core.RiskHigh,
		SuspiciousIndicators: []string{"urgent language", "shortened link"},
		Recommendation:       "Do not click.",
		Summary:              "Likely phishing.",
		TechnicalDetails:     "...",
	}
}

func newTestServer(t *testing.T, llm core.LLMClient) *httpserver.Server {
	t.Helper()

	logger := zap.NewNop()
	service := core.NewAnalyzerService(
		llm,
		nopCache{},
		core.NewHistoryStore(),
		logger,
		core.CachePolicy{},
		utils.NewTextProcessor(logger),
	)
	return httpserver.NewServer(service, logger, "127.0.0.1:0")
}

func doJSON(t *testing.T, s http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON response: %v (body: %s)", err, rec.Body.String())
	}
}

func TestAnalyze_Success(t *testing.T) {
	s := newTestServer(t, &fakeLLM{result: phishingResult()})

	rec := doJSON(t, s, "POST", "/api/analyze", `{"emailText":"Dear user, verify your account now: http://bit.ly/xyz"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var body struct {
		IsPhishing   bool     `json:"isPhishing"`
		RiskLevel    string   `json:"riskLevel"`
		Indicators   []string `json:"suspiciousIndicators"`
		DisplayScore int      `json:"displayScore"`
	}
	decodeJSON(t, rec, &body)
	if !body.IsPhishing || body.RiskLevel != "High" {
		t.Errorf("unexpected verdict: %+v", body)
	}
	if body.DisplayScore != 24 {
		t.Errorf("expected display score 24 for phishing, got %d", body.DisplayScore)
	}
	if len(body.Indicators) != 2 {
		t.Errorf("expected 2 indicators, got %v", body.Indicators)
	}
}

func TestAnalyze_EmptyInput(t *testing.T) {
	llm := &fakeLLM{result: phishingResult()}
	s := newTestServer(t, llm)

	rec := doJSON(t, s, "POST", "/api/analyze", `{"emailText":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if llm.calls != 0 {
		t.Errorf("expected no LLM calls, got %d", llm.calls)
	}
}

func TestAnalyze_InvalidBody(t *testing.T) {
	s := newTestServer(t, &fakeLLM{result: phishingResult()})

	rec := doJSON(t, s, "POST", "/api/analyze", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAnalyze_FailureIsGeneric(t *testing.T) {
	llm := &fakeLLM{err: &core.ContractViolationError{Reason: "missing required field summary"}}
	s := newTestServer(t, llm)

	rec := doJSON(t, s, "POST", "/api/analyze", `{"emailText":"some email"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	var body struct {
		Error string `json:"error"`
	}
	decodeJSON(t, rec, &body)
	if body.Error != core.UserFacingErrorMessage {
		t.Errorf("expected generic message, got %q", body.Error)
	}
	// Internal detail must not leak to the user.
	if strings.Contains(body.Error, "summary") {
		t.Errorf("error message leaks internals: %q", body.Error)
	}
}

func TestAnalyze_ConcurrentSubmissionRejected(t *testing.T) {
	block := make(chan struct{})
	llm := &fakeLLM{result: phishingResult(), blockCh: block}
	s := newTestServer(t, llm)

	firstDone := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		firstDone <- doJSON(t, s, "POST", "/api/analyze", `{"emailText":"first"}`)
	}()

	// Wait for the first request to enter the analyzing state.
	deadline := time.After(2 * time.Second)
	for {
		rec := doJSON(t, s, "GET", "/api/state", "")
		var state struct {
			Analyzing bool `json:"analyzing"`
		}
		decodeJSON(t, rec, &state)
		if state.Analyzing {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first analysis never entered the analyzing state")
		case <-time.After(time.Millisecond):
		}
	}

	rec := doJSON(t, s, "POST", "/api/analyze", `{"emailText":"second"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 while analyzing, got %d", rec.Code)
	}

	close(block)
	if rec := <-firstDone; rec.Code != http.StatusOK {
		t.Fatalf("first analysis failed with %d", rec.Code)
	}
}

func TestStateAndHistoryAfterAnalyze(t *testing.T) {
	s := newTestServer(t, &fakeLLM{result: phishingResult()})

	doJSON(t, s, "POST", "/api/analyze", `{"emailText":"suspicious email"}`)

	rec := doJSON(t, s, "GET", "/api/state", "")
	var state struct {
		InputText string `json:"inputText"`
		Analyzing bool   `json:"analyzing"`
		Result    *struct {
			DisplayScore int `json:"displayScore"`
		} `json:"result"`
		History []struct {
			ID           string `json:"id"`
			EmailPreview string `json:"emailPreview"`
			RiskLevel    string `json:"riskLevel"`
		} `json:"history"`
	}
	decodeJSON(t, rec, &state)

	if state.Analyzing {
		t.Error("analyzing flag still set")
	}
	if state.Result == nil || state.Result.DisplayScore != 24 {
		t.Errorf("unexpected result in state: %+v", state.Result)
	}
	if len(state.History) != 1 || state.History[0].EmailPreview != "suspicious email" {
		t.Errorf("unexpected history: %+v", state.History)
	}
	if state.History[0].RiskLevel != "High" {
		t.Errorf("expected High risk in history entry, got %q", state.History[0].RiskLevel)
	}
}

func TestSelectHistory(t *testing.T) {
	s := newTestServer(t, &fakeLLM{result: phishingResult()})

	doJSON(t, s, "POST", "/api/analyze", `{"emailText":"the original email"}`)

	rec := doJSON(t, s, "GET", "/api/history", "")
	var history []struct {
		ID string `json:"id"`
	}
	decodeJSON(t, rec, &history)
	if len(history) != 1 {
		t.Fatalf("expected 1 history item, got %d", len(history))
	}

	doJSON(t, s, "POST", "/api/clear", "")

	rec = doJSON(t, s, "POST", "/api/history/"+history[0].ID+"/select", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var body struct {
		Item struct {
			EmailPreview string `json:"emailPreview"`
		} `json:"item"`
		State struct {
			InputText string `json:"inputText"`
			Result    *struct {
				IsPhishing bool `json:"isPhishing"`
			} `json:"result"`
		} `json:"state"`
	}
	decodeJSON(t, rec, &body)
	if body.State.Result == nil || !body.State.Result.IsPhishing {
		t.Error("selection did not restore the result")
	}
	if body.State.InputText != body.Item.EmailPreview {
		t.Error("selection did not restore the preview as input text")
	}
}

func TestSelectHistory_UnknownID(t *testing.T) {
	s := newTestServer(t, &fakeLLM{result: phishingResult()})

	rec := doJSON(t, s, "POST", "/api/history/no-such-id/select", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestClear_PreservesHistory(t *testing.T) {
	s := newTestServer(t, &fakeLLM{result: phishingResult()})

	doJSON(t, s, "POST", "/api/analyze", `{"emailText":"some email"}`)

	rec := doJSON(t, s, "POST", "/api/clear", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var state struct {
		InputText string      `json:"inputText"`
		Result    interface{} `json:"result"`
		History   []struct{}  `json:"history"`
	}
	decodeJSON(t, rec, &state)
	if state.InputText != "" || state.Result != nil {
		t.Errorf("clear left residue: %+v", state)
	}
	if len(state.History) != 1 {
		t.Errorf("clear must preserve history, got %d items", len(state.History))
	}
}

func TestIndexPageServed(t *testing.T) {
	s := newTestServer(t, &fakeLLM{result: phishingResult()})

	rec := doJSON(t, s, "GET", "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected HTML content type, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "Phishing Email Analyzer") {
		t.Error("index page missing expected content")
	}
}

func TestCORSHeaderPresent(t *testing.T) {
	s := newTestServer(t, &fakeLLM{result: phishingResult()})

	rec := doJSON(t, s, "GET", "/healthz", "")
	if origin := rec.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("expected CORS origin *, got %q", origin)
	}
}
