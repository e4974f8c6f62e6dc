package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockaura/internal/api/handlers"
	"github.com/wonny/stockaura/internal/contracts"
	"github.com/wonny/stockaura/internal/metrics"
	"github.com/wonny/stockaura/internal/ruleset"
	"github.com/wonny/stockaura/internal/service"
	"github.com/wonny/stockaura/internal/verdict"
	"github.com/wonny/stockaura/pkg/config"
	"github.com/wonny/stockaura/pkg/logger"
)

func newTestRouter(t *testing.T, limiter Limiter) http.Handler {
	t.Helper()

	log := logger.Nop()
	svc := service.New(config.EngineConfig{
		DefaultTransactionCost: 0.001,
		DefaultAccountSize:     10000,
		VerdictCacheTTL:        time.Minute,
	}, service.Deps{Engine: verdict.NewEngine(ruleset.Extended()), Logger: log})

	return NewRouter(RouterDeps{
		Verdict: handlers.NewVerdictHandler(svc, log, 50),
		Logger:  log,
		Metrics: metrics.Nop(),
		Limiter: limiter,
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t, nil), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHealth_Degraded(t *testing.T) {
	router := NewRouter(RouterDeps{
		Verdict: handlers.NewVerdictHandler(service.New(config.EngineConfig{}, service.Deps{}), logger.Nop(), 0),
		Logger:  logger.Nop(),
		Health: func(*http.Request) map[string]string {
			return map[string]string{"redis": "disabled", "database": "connection refused"}
		},
	})

	rec := do(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
}

func TestAnalyze_ScenarioA(t *testing.T) {
	body := `{
		"snapshot": {
			"predictability_score": 4,
			"regime_stability": 0.8,
			"momentum_corr": 0.3,
			"final_signal": "BUY_UPTREND",
			"expected_edge_pct": 5,
			"estimated_slippage_pct": 0.05
		},
		"transaction_cost": 0.001
	}`
	rec := do(t, newTestRouter(t, nil), http.MethodPost, "/api/analyze", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var vm contracts.VerdictViewModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vm))
	assert.Equal(t, contracts.TierTradeable, vm.Signal.Tier)
	assert.True(t, vm.Friction.EdgeCoversCosts)
	assert.Empty(t, vm.FailureReasons)
	assert.False(t, vm.Position.Executable)
	assert.Equal(t, "extended_v2", vm.RuleSet)
}

func TestAnalyze_Validation(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"cost too high", `{"snapshot":{},"transaction_cost":0.5}`, "transaction_cost"},
		{"negative account", `{"snapshot":{},"account_size":-1}`, "account_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/analyze", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"field":"`+tt.field+`"`)
		})
	}

	rec := do(t, router, http.MethodPost, "/api/analyze", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/analyze", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSnapshotLifecycle(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := do(t, router, http.MethodGet, "/api/analyze/AAPL", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPut, "/api/snapshots/aapl",
		`{"final_signal":"DO_NOT_TRADE","predictability_score":1,"regime_stability":0.3,"momentum_corr":0.02}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"ticker":"AAPL"`)

	rec = do(t, router, http.MethodGet, "/api/snapshots/AAPL", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/analyze/AAPL?cost=0.002", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var vm contracts.VerdictViewModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vm))
	assert.Equal(t, contracts.TierDoNotTrade, vm.Signal.Tier)
	assert.Len(t, vm.FailureReasons, 3)
	assert.Equal(t, 0.002, vm.Params.TransactionCost)

	rec = do(t, router, http.MethodGet, "/api/analyze/AAPL?cost=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPut, "/api/snapshots/AAPL", `{"ticker":"MSFT"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/snapshots/AAPL", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, router, http.MethodDelete, "/api/snapshots/AAPL", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSignals(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := do(t, router, http.MethodGet, "/api/signals?tier=speculative", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count   int                      `json:"count"`
		Signals []contracts.CatalogEntry `json:"signals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 6, body.Count)
	assert.Equal(t, contracts.TierSpeculative, body.Signals[0].Tier)

	rec = do(t, router, http.MethodGet, "/api/signals?tier=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRankings(t *testing.T) {
	router := newTestRouter(t, nil)

	do(t, router, http.MethodPut, "/api/snapshots/AAA", `{"final_signal":"BUY_UPTREND","predictability_score":4}`)
	do(t, router, http.MethodPut, "/api/snapshots/BBB", `{"final_signal":"DO_NOT_TRADE","predictability_score":1}`)

	rec := do(t, router, http.MethodGet, "/api/rankings?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Rankings []contracts.RankedSnapshot `json:"rankings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Rankings, 1)
	assert.Equal(t, "AAA", body.Rankings[0].Ticker)

	rec = do(t, router, http.MethodGet, "/api/rankings?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRankBatch(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := do(t, router, http.MethodPost, "/api/rankings", `{"snapshots":[
		{"ticker":"X","final_signal":"WAIT_PULLBACK","predictability_score":3},
		{"ticker":"Y","final_signal":"BUY_PULLBACK","predictability_score":3}
	]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"count":2`)

	rec = do(t, router, http.MethodPost, "/api/rankings", `{"snapshots":[]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"snapshots"`)
}

func TestRateLimit(t *testing.T) {
	router := newTestRouter(t, NewLocalLimiter(2, time.Minute))

	for i := 0; i < 2; i++ {
		rec := do(t, router, http.MethodGet, "/api/signals", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := do(t, router, http.MethodGet, "/api/signals", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// health and metrics are not rate limited
	rec = do(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, assert.AnError
}

func TestRateLimit_FailsOpen(t *testing.T) {
	rec := do(t, newTestRouter(t, failingLimiter{}), http.MethodGet, "/api/signals", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)
	do(t, router, http.MethodPost, "/api/analyze", `{"snapshot":{"final_signal":"MOON_SHOT"}}`)

	rec := do(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.Contains(rec.Body.Bytes(), []byte(`route="/api/analyze"`)))
}
