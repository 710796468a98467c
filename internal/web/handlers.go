package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vitos/trade_journal/internal/domain"
	"github.com/vitos/trade_journal/internal/usecase"
	"go.uber.org/zap"
)

// Edit session handlers. Every successful call answers with the trade in edit
// (null when the slot is empty).

func (s *Server) writeEdit(w http.ResponseWriter, status int) {
	s.writeJSON(w, status, newTradeView(s.session.Current(), s.now()))
}

func (s *Server) handleGetEdit(w http.ResponseWriter, r *http.Request) {
	s.writeEdit(w, http.StatusOK)
}

func (s *Server) handleNewTrade(w http.ResponseWriter, r *http.Request) {
	t := s.session.NewTrade()
	s.logger.Info("New trade in edit", zap.String("id", t.ID))
	s.writeEdit(w, http.StatusCreated)
}

func (s *Server) handleLoadTrade(w http.ResponseWriter, r *http.Request) {
	trade, err := s.repo.GetTrade(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, "Failed to load trade", err)
		return
	}
	s.session.Load(trade)
	s.writeEdit(w, http.StatusOK)
}

// handleApplyIntents accepts a single intent or a JSON array of them. Intents
// are applied in order; the first malformed one stops the batch.
func (s *Server) handleApplyIntents(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.writeError(w, "Invalid request body", fmt.Errorf("%w: %w", domain.ErrMalformedInput, err))
		return
	}

	var intents []usecase.Intent
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &intents); err != nil {
			s.writeError(w, "Invalid intents", fmt.Errorf("%w: %w", domain.ErrMalformedInput, err))
			return
		}
	} else {
		var in usecase.Intent
		if err := json.Unmarshal(raw, &in); err != nil {
			s.writeError(w, "Invalid intent", fmt.Errorf("%w: %w", domain.ErrMalformedInput, err))
			return
		}
		intents = append(intents, in)
	}

	if s.session.Current() == nil {
		s.writeError(w, "Nothing to edit", domain.ErrNoTradeInEdit)
		return
	}
	for _, in := range intents {
		if err := s.session.Apply(in); err != nil {
			s.writeError(w, "Rejected intent", err)
			return
		}
	}
	s.writeEdit(w, http.StatusOK)
}

func (s *Server) handleSaveEdit(w http.ResponseWriter, r *http.Request) {
	saved, err := s.session.Save(r.Context())
	if err != nil {
		s.writeError(w, "Failed to save trade", err)
		return
	}
	s.writeJSON(w, http.StatusOK, newTradeView(saved, s.now()))
}

func (s *Server) handleAbandonEdit(w http.ResponseWriter, r *http.Request) {
	s.session.Abandon()
	w.WriteHeader(http.StatusNoContent)
}
