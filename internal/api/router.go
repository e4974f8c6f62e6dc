package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/stockaura/internal/api/handlers"
	"github.com/wonny/stockaura/internal/metrics"
	"github.com/wonny/stockaura/pkg/logger"
)

// RouterDeps are the collaborators of NewRouter; Limiter and Metrics may be nil
type RouterDeps struct {
	Verdict *handlers.VerdictHandler
	Stream  *handlers.StreamHandler // nil: no /api/stream
	Logger  *logger.Logger
	Metrics *metrics.Recorder
	Limiter Limiter
	// Health reports dependency status; nil means always healthy
	Health func(r *http.Request) map[string]string
	// HideMetrics skips mounting /metrics (instruments still record)
	HideMetrics bool
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(deps RouterDeps) http.Handler {
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop()
	}

	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheckHandler(deps.Health)).Methods("GET")
	if !deps.HideMetrics {
		r.Handle("/metrics", deps.Metrics.Handler()).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()
	if deps.Limiter != nil {
		api.Use(rateLimitMiddleware(deps.Limiter, deps.Logger))
	}

	h := deps.Verdict
	api.HandleFunc("/analyze", h.Analyze).Methods("POST")
	api.HandleFunc("/analyze/{ticker}", h.AnalyzeTicker).Methods("GET")

	api.HandleFunc("/snapshots/{ticker}", h.PutSnapshot).Methods("PUT")
	api.HandleFunc("/snapshots/{ticker}", h.GetSnapshot).Methods("GET")
	api.HandleFunc("/snapshots/{ticker}", h.DeleteSnapshot).Methods("DELETE")

	api.HandleFunc("/signals", h.ListSignals).Methods("GET")

	api.HandleFunc("/rankings", h.GetRankings).Methods("GET")
	api.HandleFunc("/rankings", h.RankBatch).Methods("POST")

	if deps.Stream != nil {
		api.HandleFunc("/stream", deps.Stream.Stream).Methods("GET")
	}

	r.Use(loggingMiddleware(deps.Logger, deps.Metrics))
	r.Use(recoveryMiddleware(deps.Logger))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(check func(r *http.Request) map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]interface{}{
			"status":  "ok",
			"service": "stockaura",
		}
		status := http.StatusOK

		if check != nil {
			deps := check(r)
			for _, v := range deps {
				if v != "ok" && v != "disabled" {
					body["status"] = "degraded"
					status = http.StatusServiceUnavailable
				}
			}
			body["dependencies"] = deps
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
