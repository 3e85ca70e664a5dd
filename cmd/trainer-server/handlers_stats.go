package main

import (
	"net/http"
	"strconv"

	"blackjack-trainer/internal/game"
	"blackjack-trainer/internal/stats"
)

func (a *app) handleHouseEdge(w http.ResponseWriter, r *http.Request) {
	var rules game.RuleSet
	if err := decodeBody(r, &rules); err != nil {
		writeError(w, err)
		return
	}
	if err := rules.Validate(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"house_edge": stats.HouseEdge(rules),
	})
}

func queryFloat(r *http.Request, name string, def float64) float64 {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func queryInt(r *http.Request, name string, def int64) int64 {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func (a *app) handleKelly(w http.ResponseWriter, r *http.Request) {
	edge := queryFloat(r, "edge", 0)
	bankroll := float64(queryInt(r, "bankroll_cents", 0))
	fraction := queryFloat(r, "fraction", stats.DefaultKellyFraction)

	bet := stats.Kelly(edge, bankroll, fraction)
	writeJSON(w, http.StatusOK, map[string]any{
		"bet_cents":    int64(bet),
		"edge":         edge,
		"fraction":     fraction,
		"risk_of_ruin": stats.RiskOfRuin(edge, bankroll/max64(1, int64(bet))),
	})
}

func (a *app) handleBetSpread(w http.ResponseWriter, r *http.Request) {
	tc := queryFloat(r, "true_count", 0)
	base := queryInt(r, "base_bet_cents", 1000)
	spread := int(queryInt(r, "max_spread", 8))
	threshold := queryFloat(r, "threshold", 1)

	writeJSON(w, http.StatusOK, map[string]any{
		"bet_cents": stats.BetSpread(tc, base, spread, threshold),
	})
}

func max64(a, b int64) float64 {
	if a > b {
		return float64(a)
	}
	return float64(b)
}
