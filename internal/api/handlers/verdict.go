package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wonny/stockaura/internal/contracts"
	"github.com/wonny/stockaura/internal/service"
	"github.com/wonny/stockaura/internal/store"
	"github.com/wonny/stockaura/pkg/logger"
)

// VerdictHandler serves evaluation, snapshot and ranking endpoints
// ⭐ SSOT: 판정 API 핸들러는 이 구조체에서만
type VerdictHandler struct {
	svc    *service.Service
	logger *logger.Logger

	defaultRankLimit int
}

// NewVerdictHandler creates a new verdict handler
func NewVerdictHandler(svc *service.Service, log *logger.Logger, defaultRankLimit int) *VerdictHandler {
	if defaultRankLimit <= 0 {
		defaultRankLimit = 50
	}
	return &VerdictHandler{svc: svc, logger: log, defaultRankLimit: defaultRankLimit}
}

// ParamsRequest carries the optional caller parameters of one evaluation
type ParamsRequest struct {
	TransactionCost *float64 `json:"transaction_cost" validate:"omitempty,gte=0,lt=0.1"`
	AccountSize     *float64 `json:"account_size" validate:"omitempty,gt=0"`
}

// AnalyzeRequest evaluates an inline snapshot
type AnalyzeRequest struct {
	Snapshot        contracts.SignalSnapshot `json:"snapshot"`
	TransactionCost *float64                 `json:"transaction_cost" validate:"omitempty,gte=0,lt=0.1"`
	AccountSize     *float64                 `json:"account_size" validate:"omitempty,gt=0"`
}

// RankRequest ranks an inline batch of snapshots
type RankRequest struct {
	Snapshots       []contracts.SignalSnapshot `json:"snapshots" validate:"required,min=1,max=1000"`
	Limit           int                        `json:"limit" default:"20" validate:"gte=1,lte=1000"`
	TransactionCost *float64                   `json:"transaction_cost" validate:"omitempty,gte=0,lt=0.1"`
	AccountSize     *float64                   `json:"account_size" validate:"omitempty,gt=0"`
}

// Analyze evaluates the snapshot in the request body
// POST /api/analyze
func (h *VerdictHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	vm := h.svc.Evaluate(&req.Snapshot, h.svc.Params(req.TransactionCost, req.AccountSize))
	respondJSON(w, http.StatusOK, vm)
}

// AnalyzeTicker evaluates the stored snapshot of a ticker
// GET /api/analyze/{ticker}?cost=0.001&account=10000
func (h *VerdictHandler) AnalyzeTicker(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]

	params, ok := h.queryParams(w, r)
	if !ok {
		return
	}

	vm, err := h.svc.EvaluateTicker(r.Context(), ticker, params)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "no snapshot for "+store.NormalizeTicker(ticker))
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("Failed to evaluate ticker")
		respondError(w, http.StatusInternalServerError, "failed to evaluate ticker")
		return
	}

	respondJSON(w, http.StatusOK, vm)
}

// PutSnapshot stores the latest snapshot for a ticker
// PUT /api/snapshots/{ticker}
func (h *VerdictHandler) PutSnapshot(w http.ResponseWriter, r *http.Request) {
	ticker := store.NormalizeTicker(mux.Vars(r)["ticker"])

	var snap contracts.SignalSnapshot
	if !decodeRequest(w, r, &snap) {
		return
	}
	if snap.Ticker != "" && store.NormalizeTicker(snap.Ticker) != ticker {
		respondError(w, http.StatusBadRequest, "body ticker does not match path")
		return
	}
	snap.Ticker = ticker

	if err := h.svc.PutSnapshot(r.Context(), &snap); err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("Failed to store snapshot")
		respondError(w, http.StatusInternalServerError, "failed to store snapshot")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":       ticker,
		"final_signal": snap.FinalSignal,
		"stored":       true,
	})
}

// GetSnapshot returns the stored snapshot of a ticker
// GET /api/snapshots/{ticker}
func (h *VerdictHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]

	snap, err := h.svc.Snapshot(r.Context(), ticker)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "no snapshot for "+store.NormalizeTicker(ticker))
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("Failed to load snapshot")
		respondError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

// DeleteSnapshot removes the stored snapshot of a ticker
// DELETE /api/snapshots/{ticker}
func (h *VerdictHandler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]

	err := h.svc.DeleteSnapshot(r.Context(), ticker)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "no snapshot for "+store.NormalizeTicker(ticker))
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("Failed to delete snapshot")
		respondError(w, http.StatusInternalServerError, "failed to delete snapshot")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSignals returns the signal catalog
// GET /api/signals?tier=WAIT
func (h *VerdictHandler) ListSignals(w http.ResponseWriter, r *http.Request) {
	tier := contracts.VerdictTier(strings.ToUpper(r.URL.Query().Get("tier")))
	if tier != "" && !tier.Valid() {
		respondError(w, http.StatusBadRequest, "unknown tier "+string(tier))
		return
	}

	entries := h.svc.Signals(tier)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rule_set": h.svc.RuleSetID(),
		"count":    len(entries),
		"signals":  entries,
	})
}

// GetRankings ranks every stored snapshot
// GET /api/rankings?limit=20
func (h *VerdictHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", h.defaultRankLimit)
	if err != nil || limit < 1 || limit > 1000 {
		respondError(w, http.StatusBadRequest, "limit must be an integer between 1 and 1000")
		return
	}

	rows, err := h.svc.Rankings(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute rankings")
		respondError(w, http.StatusInternalServerError, "failed to compute rankings")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rule_set": h.svc.RuleSetID(),
		"count":    len(rows),
		"rankings": rows,
	})
}

// RankBatch ranks the snapshots in the request body without storing them
// POST /api/rankings
func (h *VerdictHandler) RankBatch(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	rows := h.svc.Rank(req.Snapshots, h.svc.Params(req.TransactionCost, req.AccountSize), req.Limit)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rule_set": h.svc.RuleSetID(),
		"count":    len(rows),
		"rankings": rows,
	})
}

func (h *VerdictHandler) queryParams(w http.ResponseWriter, r *http.Request) (contracts.EvaluationParams, bool) {
	cost, err := queryFloat(r, "cost")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return contracts.EvaluationParams{}, false
	}
	account, err := queryFloat(r, "account")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return contracts.EvaluationParams{}, false
	}

	req := ParamsRequest{TransactionCost: cost, AccountSize: account}
	if !checkStruct(w, &req) {
		return contracts.EvaluationParams{}, false
	}
	return h.svc.Params(cost, account), true
}
