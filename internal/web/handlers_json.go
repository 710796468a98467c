package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vitos/trade_journal/internal/domain"
	"go.uber.org/zap"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// writeError maps domain errors onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, msg string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrTradeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrMalformedInput),
		errors.Is(err, domain.ErrMalformedAmount),
		errors.Is(err, domain.ErrUnknownPositionType):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTrade):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNoTradeInEdit):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		s.logger.Error(msg, zap.Error(err))
	} else {
		s.logger.Debug(msg, zap.Int("status", status), zap.Error(err))
	}
	http.Error(w, msg+": "+err.Error(), status)
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := s.repo.ListTrades(r.Context())
	if err != nil {
		s.writeError(w, "Failed to list trades", err)
		return
	}
	s.writeJSON(w, http.StatusOK, newTradeViews(trades, s.now()))
}

func (s *Server) handleGetTrade(w http.ResponseWriter, r *http.Request) {
	trade, err := s.repo.GetTrade(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, "Failed to get trade", err)
		return
	}
	s.writeJSON(w, http.StatusOK, newTradeView(trade, s.now()))
}

func (s *Server) handleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	if err := s.session.DeleteTrade(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, "Failed to delete trade", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAllTrades(w http.ResponseWriter, r *http.Request) {
	if err := s.session.DeleteAllTrades(r.Context()); err != nil {
		s.writeError(w, "Failed to delete trades", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	info, err := s.dashboard.Current(r.Context())
	if err != nil {
		s.writeError(w, "Failed to compute dashboard", err)
		return
	}
	s.writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	trades, err := s.repo.ListTrades(r.Context())
	if err != nil {
		s.writeError(w, "Store unavailable", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"trades":  len(trades),
		"editing": s.session.Current() != nil,
	})
}
