package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/leozw/domain-intel/internal/config"
	"github.com/leozw/domain-intel/internal/core"
	"github.com/leozw/domain-intel/internal/storage/memory"
)

type fakeAnalyzer struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
	err   map[string]error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, domain string) (*core.DomainAnalysis, error) {
	f.mu.Lock()
	f.calls = append(f.calls, domain)
	f.mu.Unlock()

	if err := f.err[domain]; err != nil {
		return nil, err
	}
	a := &core.DomainAnalysis{
		Domain:    domain,
		Timestamp: time.Now().UTC(),
		Success:   !f.fail[domain],
	}
	if !a.Success {
		a.Error = "All WHOIS methods failed for " + domain
	}
	return a, nil
}

func (f *fakeAnalyzer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type HandlerSuite struct {
	suite.Suite
	router   *gin.Engine
	analyzer *fakeAnalyzer
	cache    *memory.Cache[*core.DomainAnalysis]
}

func TestHandlerSuite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.analyzer = &fakeAnalyzer{fail: map[string]bool{}, err: map[string]error{}}
	s.cache = memory.New[*core.DomainAnalysis](memory.Options{TTL: 6 * time.Hour, MaxKeys: 1000})

	h := NewHandler(s.analyzer, s.cache, config.BulkConfig{MaxDomains: 10, PacingDelay: time.Millisecond}, nil, zap.NewNop())

	s.router = gin.New()
	s.router.GET("/health", h.Health)
	s.router.POST("/api/analyze", h.AnalyzeDomain)
	s.router.POST("/api/bulk-analyze", h.BulkAnalyze)
}

func (s *HandlerSuite) post(path, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var out map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func (s *HandlerSuite) TestAnalyze_MissingDomain() {
	for _, body := range []string{`{}`, `{"domain": ""}`, `{"domain": "https://"}`, `not json`, `{"domain": 42}`} {
		rec, out := s.post("/api/analyze", body)

		s.Equal(http.StatusBadRequest, rec.Code, body)
		s.Equal("Domain is required", out["error"])
	}
	s.Equal(0, s.analyzer.callCount())
}

func (s *HandlerSuite) TestAnalyze_CachesSuccess() {
	rec, out := s.post("/api/analyze", `{"domain": "https://www.Example.com/path"}`)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("example.com", out["domain"])
	s.NotContains(out, "fromCache")

	first := out

	rec, out = s.post("/api/analyze", `{"domain": "example.com"}`)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(true, out["fromCache"])
	delete(out, "fromCache")
	s.Equal(first, out, "cached payload matches the first response apart from the flag")
	s.Equal(1, s.analyzer.callCount(), "second request is served from the cache")

	cached, ok := s.cache.Get("analysis:example.com")
	s.Require().True(ok)
	s.False(cached.FromCache, "the stored value never carries the flag")
}

func (s *HandlerSuite) TestAnalyze_FailureNotCached() {
	s.analyzer.fail["broken.example"] = true

	_, out := s.post("/api/analyze", `{"domain": "broken.example"}`)
	s.Equal(false, out["success"])

	_, _ = s.post("/api/analyze", `{"domain": "broken.example"}`)
	s.Equal(2, s.analyzer.callCount())
	s.Equal(0, s.cache.Len())
}

func (s *HandlerSuite) TestAnalyze_AnalyzerError() {
	s.analyzer.err["example.com"] = errors.New("invalid domain")

	rec, out := s.post("/api/analyze", `{"domain": "Example.com"}`)

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal("invalid domain", out["error"])
	s.Equal("Example.com", out["domain"])
}

func (s *HandlerSuite) TestBulk_Validation() {
	for _, body := range []string{`{}`, `{"domains": "example.com"}`, `not json`} {
		rec, out := s.post("/api/bulk-analyze", body)
		s.Equal(http.StatusBadRequest, rec.Code, body)
		s.Equal("Domains array is required", out["error"])
	}

	domains := make([]string, 11)
	for i := range domains {
		domains[i] = "d" + string(rune('a'+i)) + ".com"
	}
	payload, _ := json.Marshal(gin.H{"domains": domains})

	rec, out := s.post("/api/bulk-analyze", string(payload))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Maximum 10 domains per request", out["error"])
	s.Equal(0, s.analyzer.callCount(), "no lookups before validation passes")
}

func (s *HandlerSuite) TestBulk_MixedResults() {
	s.analyzer.err["bad.example"] = errors.New("invalid domain")
	_, _ = s.post("/api/analyze", `{"domain": "cached.example"}`)

	rec, out := s.post("/api/bulk-analyze", `{"domains": ["cached.example", "www.fresh.example", "bad.example", "", 7]}`)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(float64(5), out["total"])

	results := out["results"].([]any)
	s.Require().Len(results, 5)

	first := results[0].(map[string]any)
	s.Equal("cached.example", first["domain"])
	s.Equal(true, first["success"])

	second := results[1].(map[string]any)
	s.Equal("fresh.example", second["domain"])

	third := results[2].(map[string]any)
	s.Equal("bad.example", third["domain"])
	s.Equal(false, third["success"])
	s.Equal("invalid domain", third["error"])
	s.Contains(third, "timestamp")

	s.Equal("Domain is required", results[3].(map[string]any)["error"])
	s.Equal(false, results[4].(map[string]any)["success"])

	s.Equal(3, s.analyzer.callCount(), "cached.example is served from the cache")
}

func (s *HandlerSuite) TestBulk_Empty() {
	rec, out := s.post("/api/bulk-analyze", `{"domains": []}`)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(float64(0), out["total"])
	s.Equal([]any{}, out["results"])
}

func (s *HandlerSuite) TestHealth() {
	_ = s.cache.Set("analysis:example.com", &core.DomainAnalysis{Domain: "example.com"})

	req := httptest.NewRequest(http.MethodGet, "/health", bytes.NewReader(nil))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var out map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("OK", out["status"])
	s.Contains(out, "uptime")
	s.Contains(out, "timestamp")
	s.Equal(map[string]any{"keys": float64(1)}, out["cache"])
}

func TestPause(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if pause(ctx, time.Hour) {
		t.Fatal("pause must stop when the context is done")
	}
	if !pause(context.Background(), time.Millisecond) {
		t.Fatal("pause must complete when the delay elapses")
	}
}
