package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"blackjack-trainer/internal/game"
	"blackjack-trainer/internal/session"
	"blackjack-trainer/internal/store"
)

type createSessionRequest struct {
	Rules          *game.RuleSet `json:"rules,omitempty"`
	CountingSystem string        `json:"counting_system"`
	BankrollCents  int64         `json:"bankroll_cents,omitempty"`
	Seed           *int64        `json:"seed,omitempty"`
}

type commandResponse struct {
	Events   []game.Event     `json:"events"`
	Snapshot session.Snapshot `json:"snapshot"`
}

func (a *app) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	rules, err := a.cfg.Game.Rules()
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Rules != nil {
		rules = *req.Rules
	}
	bankroll := a.cfg.Game.StartingBankrollCents
	if req.BankrollCents > 0 {
		bankroll = req.BankrollCents
	}
	if req.CountingSystem == "" {
		req.CountingSystem = "hilo"
	}

	s, err := a.sessions.Create(rules, req.CountingSystem, bankroll, req.Seed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": s.ID,
		"snapshot":   s.Snapshot(),
	})
}

func (a *app) session(w http.ResponseWriter, r *http.Request) *session.Session {
	s, err := a.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return nil
	}
	return s
}

func (a *app) respond(w http.ResponseWriter, s *session.Session, events []game.Event, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	a.events.Broadcast(s.ID, events)
	writeJSON(w, http.StatusOK, commandResponse{Events: events, Snapshot: s.Snapshot()})
}

type betRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

func (a *app) handleBet(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)
	if s == nil {
		return
	}
	var req betRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	events, err := s.PlaceBet(req.AmountCents)
	a.respond(w, s, events, err)
}

type insuranceRequest struct {
	Take bool `json:"take"`
}

func (a *app) handleInsurance(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)
	if s == nil {
		return
	}
	var req insuranceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	events, err := s.Insurance(req.Take)
	a.respond(w, s, events, err)
}

// command routes the bodyless player commands through one handler.
func (a *app) command(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := a.session(w, r)
		if s == nil {
			return
		}
		var (
			events []game.Event
			err    error
		)
		switch name {
		case "hit":
			events, err = s.Hit()
		case "stand":
			events, err = s.Stand()
		case "double":
			events, err = s.Double()
		case "split":
			events, err = s.Split()
		case "surrender":
			events, err = s.Surrender()
		case "new_round":
			events, err = s.NewRound()
		case "reset_game":
			events, err = s.ResetGame()
		}
		a.respond(w, s, events, err)
	}
}

func (a *app) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)
	if s == nil {
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (a *app) handleActions(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)
	if s == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"actions": s.AvailableActions()})
}

func (a *app) handleHint(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)
	if s == nil {
		return
	}
	if s.Engine().State() == game.OfferingInsurance {
		take, err := s.InsuranceAdvised()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"insurance": take, "true_count": s.TrueCount()})
		return
	}
	hint, err := s.Hint()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hint)
}

func (a *app) handleDealerOdds(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)
	if s == nil {
		return
	}
	dist, err := s.DealerOutlook()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dist)
}

func (a *app) handleEV(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)
	if s == nil {
		return
	}
	evs, err := s.EV()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, evs)
}

// handleEndSession removes the session, persisting its summary when a
// store is configured.
func (a *app) handleEndSession(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)
	if s == nil {
		return
	}
	if a.db != nil {
		agg := s.Stats()
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		err := a.db.SaveSessionSummary(ctx, store.SessionSummary{
			ID:          s.ID,
			HandsPlayed: agg.HandsPlayed,
			Wins:        agg.Wins,
			Losses:      agg.Losses,
			Pushes:      agg.Pushes,
			Blackjacks:  agg.Blackjacks,
			NetCents:    agg.NetResult,
		})
		if err != nil {
			log.Error().Err(err).Str("session_id", s.ID).Msg("save session summary failed")
		}
	}
	a.sessions.Delete(s.ID)
	writeJSON(w, http.StatusOK, map[string]any{"stats": s.Stats()})
}
