package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t2dm-treatment-advisor/internal/cache"
	"github.com/t2dm-treatment-advisor/internal/domain"
	"github.com/t2dm-treatment-advisor/internal/engine"
	"github.com/t2dm-treatment-advisor/internal/feedback"
)

type testConfigManager struct {
	config *domain.Config
}

func (m *testConfigManager) GetConfig() *domain.Config                 { return m.config }
func (m *testConfigManager) GetServerConfig() *domain.ServerConfig     { return &m.config.Server }
func (m *testConfigManager) GetDatabaseConfig() *domain.DatabaseConfig { return &m.config.Database }
func (m *testConfigManager) GetCacheConfig() *domain.CacheConfig       { return &m.config.Cache }
func (m *testConfigManager) Reload() error                             { return nil }
func (m *testConfigManager) Validate() error                           { return nil }
func (m *testConfigManager) GetDatabaseConnectionString() string       { return "" }
func (m *testConfigManager) IsProduction() bool                        { return false }
func (m *testConfigManager) IsDevelopment() bool                       { return true }

func newTestConfigManager() *testConfigManager {
	return &testConfigManager{
		config: &domain.Config{
			Server: domain.ServerConfig{
				Host:         "127.0.0.1",
				Port:         8080,
				ReadTimeout:  5 * time.Second,
				WriteTimeout: 5 * time.Second,
			},
			Logging: domain.LoggingConfig{Level: "error", Format: "text"},
		},
	}
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	logger := newTestLogger()
	return NewServer(newTestConfigManager(), engine.NewEngine(logger), opts, logger)
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, Options{})

	w := doJSON(t, srv, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestRecommend_EmptyPatientIsFallbackOnly(t *testing.T) {
	srv := newTestServer(t, Options{})

	w := doJSON(t, srv, http.MethodPost, "/api/v1/recommend", map[string]interface{}{
		"patient": map[string]interface{}{},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp domain.RecommendationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.FallbackOnly)
	require.Len(t, resp.Explanations, 1)
	assert.Equal(t, engine.FallbackRuleID, resp.Explanations[0].RuleID)
	assert.NotEmpty(t, resp.RecordHash)
	assert.False(t, resp.Cached)
}

func TestRecommend_SevereHyperglycemia(t *testing.T) {
	srv := newTestServer(t, Options{})

	w := doJSON(t, srv, http.MethodPost, "/api/v1/recommend", map[string]interface{}{
		"patient": map[string]interface{}{"diq010": 1, "lbxgh": "11.0"},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp domain.RecommendationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.FallbackOnly)
	require.NotEmpty(t, resp.Explanations)
	assert.Equal(t, "R_INSULIN_SEVERE", resp.Explanations[0].RuleID)
}

func TestRecommend_NHANESSource(t *testing.T) {
	srv := newTestServer(t, Options{})

	w := doJSON(t, srv, http.MethodPost, "/api/v1/recommend", map[string]interface{}{
		"patient": map[string]interface{}{
			"DIQ010__questionnaire": 1,
			"LBXGH__response":       11.0,
		},
		"source": "nhanes",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp domain.RecommendationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Explanations)
	assert.Equal(t, "R_INSULIN_SEVERE", resp.Explanations[0].RuleID)
}

func TestRecommend_NHANESSource_UnsuffixedKeysAreDropped(t *testing.T) {
	srv := newTestServer(t, Options{})

	// The dictionary maps full export field names only; bare NHANES codes
	// are not recognized and the record evaluates as all-unknown.
	w := doJSON(t, srv, http.MethodPost, "/api/v1/recommend", map[string]interface{}{
		"patient": map[string]interface{}{"DIQ010": 1, "LBXGH": 11.0},
		"source":  "nhanes",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp domain.RecommendationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.FallbackOnly)
	require.Len(t, resp.Explanations, 1)
	assert.Equal(t, engine.FallbackRuleID, resp.Explanations[0].RuleID)
}

func TestRecommend_InvalidBody(t *testing.T) {
	srv := newTestServer(t, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), domain.ErrInvalidInput)
}

func TestRecommend_SecondRequestIsCached(t *testing.T) {
	logger := newTestLogger()
	evalCache, err := cache.New(domain.CacheConfig{MaxItems: 16}, logger)
	require.NoError(t, err)

	srv := newTestServer(t, Options{Cache: evalCache})

	body := map[string]interface{}{
		"patient": map[string]interface{}{"diq010": 1, "bmi": 32},
	}

	first := doJSON(t, srv, http.MethodPost, "/api/v1/recommend", body)
	require.Equal(t, http.StatusOK, first.Code)

	second := doJSON(t, srv, http.MethodPost, "/api/v1/recommend", body)
	require.Equal(t, http.StatusOK, second.Code)

	var resp1, resp2 domain.RecommendationResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &resp1))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp2))

	assert.False(t, resp1.Cached)
	assert.True(t, resp2.Cached)
	assert.Equal(t, resp1.RecordHash, resp2.RecordHash)
	assert.Equal(t, resp1.Recommendations, resp2.Recommendations)
}

func TestListRules(t *testing.T) {
	srv := newTestServer(t, Options{})

	w := doJSON(t, srv, http.MethodGet, "/api/v1/rules", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Rules    []domain.Rule `json:"rules"`
		Fallback domain.Rule   `json:"fallback"`
		Count    int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 13, resp.Count)
	assert.Equal(t, engine.FallbackRuleID, resp.Fallback.ID)
	for _, r := range resp.Rules {
		assert.NotEqual(t, engine.FallbackRuleID, r.ID)
	}
}

func TestFeedback_NotConfigured(t *testing.T) {
	srv := newTestServer(t, Options{})

	w := doJSON(t, srv, http.MethodPost, "/api/v1/feedback", map[string]interface{}{
		"record_hash": "abc", "rule_id": "R_HF_SGLT2",
	})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestFeedback_SubmitAndList(t *testing.T) {
	store, err := feedback.NewSQLiteStore(filepath.Join(t.TempDir(), "feedback.db"))
	require.NoError(t, err)
	defer store.Close()

	srv := newTestServer(t, Options{Feedback: store})

	w := doJSON(t, srv, http.MethodPost, "/api/v1/feedback", map[string]interface{}{
		"record_hash":    "a3f9c2",
		"rule_id":        "R_HF_SGLT2",
		"recommendation": "Recommend SGLT2 inhibitor",
		"agreed":         true,
		"notes":          "Started dapagliflozin",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/api/v1/feedback?limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Feedback []*feedback.Feedback `json:"feedback"`
		Total    int64                `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Feedback, 1)
	assert.Equal(t, "R_HF_SGLT2", resp.Feedback[0].RuleID)
}

func TestFeedback_MissingRequiredFields(t *testing.T) {
	store, err := feedback.NewSQLiteStore(filepath.Join(t.TempDir(), "feedback.db"))
	require.NoError(t, err)
	defer store.Close()

	srv := newTestServer(t, Options{Feedback: store})

	w := doJSON(t, srv, http.MethodPost, "/api/v1/feedback", map[string]interface{}{
		"record_hash": "a3f9c2",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), domain.ErrValidation)
}
