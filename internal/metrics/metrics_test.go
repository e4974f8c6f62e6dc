package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, r *Recorder) string {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestRecorder_Counts(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.RecordEvaluation("TRADEABLE", "extended_v2", 0.0001)
	r.RecordEvaluation("TRADEABLE", "extended_v2", 0.0002)
	r.RecordUnknownSignal("MOON_SHOT")
	r.RecordCache("verdict", true)
	r.RecordCache("verdict", false)
	r.RecordJobRun("ranking_refresh", false)
	r.SetRankedSnapshots(7)

	body := scrape(t, r)
	assert.Contains(t, body, `stockaura_evaluations_total{rule_set="extended_v2",tier="TRADEABLE"} 2`)
	assert.Contains(t, body, `stockaura_unknown_signals_total{signal="MOON_SHOT"} 1`)
	assert.Contains(t, body, `stockaura_cache_lookups_total{cache="verdict",result="hit"} 1`)
	assert.Contains(t, body, `stockaura_job_runs_total{job="ranking_refresh",status="failed"} 1`)
	assert.Contains(t, body, `stockaura_ranked_snapshots 7`)
	assert.Contains(t, body, `stockaura_evaluation_duration_seconds_count 2`)
}

func TestRecorder_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = Nop()
		_ = Nop()
	})
}

func TestRecorder_Handler(t *testing.T) {
	r := Nop()
	r.RecordHTTP("/api/analyze", http.MethodPost, "200", 0.01)

	assert.Contains(t, scrape(t, r), `stockaura_http_requests_total{method="POST",route="/api/analyze",status="200"} 1`)
}
