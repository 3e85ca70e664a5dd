package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"blackjack-trainer/internal/training"
)

type countingDrillRequest struct {
	NumCards int    `json:"num_cards"`
	System   string `json:"system"`
	Seed     *int64 `json:"seed,omitempty"`
}

func (a *app) handleCountingDrill(w http.ResponseWriter, r *http.Request) {
	var req countingDrillRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.System == "" {
		req.System = "hilo"
	}
	drill, err := a.drills.Counting(req.NumCards, req.System, req.Seed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, drill)
}

type verifyCountRequest struct {
	DrillID   string  `json:"drill_id"`
	UserCount float64 `json:"user_count"`
	ElapsedMS *int64  `json:"elapsed_ms,omitempty"`
	Player    string  `json:"player,omitempty"`
}

func (a *app) handleVerifyCount(w http.ResponseWriter, r *http.Request) {
	var req verifyCountRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := a.drills.Verify(req.DrillID, req.UserCount, req.ElapsedMS)
	if err != nil {
		writeError(w, err)
		return
	}

	if result.Score > 0 && req.Player != "" {
		entry := training.ScoreEntry{
			Player:    req.Player,
			DrillKind: "speed",
			Score:     int64(result.Score),
			At:        time.Now(),
		}
		a.scores.Submit(entry)
		if a.db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()
			if _, err := a.db.InsertHighScore(ctx, entry.Player, entry.DrillKind, entry.Score); err != nil {
				log.Error().Err(err).Msg("persist high score failed")
			}
		}
	}

	writeJSON(w, http.StatusOK, result)
}

type strategyDrillRequest struct {
	Seed *int64 `json:"seed,omitempty"`
}

func (a *app) handleStrategyDrill(w http.ResponseWriter, r *http.Request) {
	var req strategyDrillRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	rules, err := a.cfg.Game.Rules()
	if err != nil {
		writeError(w, err)
		return
	}
	drill, err := a.drills.Strategy(rules, req.Seed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, drill)
}

type deviationDrillRequest struct {
	TrueCountMin float64 `json:"true_count_min"`
	TrueCountMax float64 `json:"true_count_max"`
	Seed         *int64  `json:"seed,omitempty"`
}

func (a *app) handleDeviationDrill(w http.ResponseWriter, r *http.Request) {
	var req deviationDrillRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.TrueCountMin == 0 && req.TrueCountMax == 0 {
		req.TrueCountMin, req.TrueCountMax = -3, 6
	}
	rules, err := a.cfg.Game.Rules()
	if err != nil {
		writeError(w, err)
		return
	}
	drill, err := a.drills.Deviation(rules, req.TrueCountMin, req.TrueCountMax, req.Seed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, drill)
}

func (a *app) handleHighScores(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"scores": a.scores.Top()})
}
