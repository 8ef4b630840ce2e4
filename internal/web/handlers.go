package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/solwatch/memetrader/internal/domain"
)

const defaultHistoryLimit = 50

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var invalid *domain.InvalidInputError
	var insufficient *domain.InsufficientDataError
	var provider *domain.ProviderError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &invalid):
		status = http.StatusBadRequest
	case errors.As(err, &insufficient):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &provider):
		status = http.StatusBadGateway
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) handleListLevels(w http.ResponseWriter, r *http.Request) {
	asset := r.PathValue("asset")
	s.writeJSON(w, http.StatusOK, s.scheduler.Levels(asset))
}

type addLevelRequest struct {
	AssetID      string  `json:"asset_id"`
	Side         string  `json:"side"`
	TriggerPrice float64 `json:"trigger_price"`
	Amount       float64 `json:"amount"`
}

func (s *Server) handleAddLevel(w http.ResponseWriter, r *http.Request) {
	var req addLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	level := &domain.AutoLevel{
		AssetID:      req.AssetID,
		Side:         domain.Side(req.Side),
		TriggerPrice: req.TriggerPrice,
		Amount:       req.Amount,
	}
	if err := s.scheduler.AddLevel(r.Context(), level); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, level)
}

func (s *Server) handleCancelLevel(w http.ResponseWriter, r *http.Request) {
	asset := r.PathValue("asset")
	id := r.PathValue("id")

	status, err := s.scheduler.CancelLevel(r.Context(), asset, id)
	if err != nil {
		var invalid *domain.InvalidInputError
		code := http.StatusConflict
		if errors.As(err, &invalid) {
			code = http.StatusNotFound
		}
		s.writeJSON(w, code, map[string]any{
			"error":  err.Error(),
			"status": status,
		})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"status": status})
}

func (s *Server) handleTradeHistory(w http.ResponseWriter, r *http.Request) {
	asset := r.PathValue("asset")
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	trades, err := s.ledger.History(r.Context(), asset, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, trades)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	asset := r.PathValue("asset")

	if report, ok := s.snapshots.Latest(asset); ok {
		s.writeJSON(w, http.StatusOK, report)
		return
	}

	// Not in the periodic cache, score on demand.
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		for _, a := range s.assets {
			if a.ID == asset {
				ticker = a.Ticker
				break
			}
		}
	}
	report, err := s.analysis.Analyze(r.Context(), asset, ticker)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleTargetStatus(w http.ResponseWriter, r *http.Request) {
	asset := r.PathValue("asset")
	watch, ok := s.targets.Status(asset)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "no target watch for asset"})
		return
	}
	s.writeJSON(w, http.StatusOK, watch)
}

type armTargetRequest struct {
	AssetID     string  `json:"asset_id"`
	TargetPrice float64 `json:"target_price"`
	StopPrice   float64 `json:"stop_price"`
	Amount      float64 `json:"amount"`
}

func (s *Server) handleArmTarget(w http.ResponseWriter, r *http.Request) {
	var req armTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if err := s.targets.Arm(req.AssetID, req.TargetPrice, req.StopPrice, req.Amount); err != nil {
		s.writeError(w, err)
		return
	}
	watch, _ := s.targets.Status(req.AssetID)
	s.writeJSON(w, http.StatusCreated, watch)
}

func (s *Server) handleCancelTarget(w http.ResponseWriter, r *http.Request) {
	asset := r.PathValue("asset")
	if !s.targets.Cancel(asset) {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "no active target watch for asset"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
