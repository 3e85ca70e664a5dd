package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"blackjack-trainer/internal/game"
	"blackjack-trainer/internal/session"
	"blackjack-trainer/internal/training"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// writeError maps the engine error taxonomy onto HTTP: validation and
// configuration problems are the caller's fault, invariant violations are
// ours.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Kind: "not_found"})
	case errors.Is(err, training.ErrDrillProtocol):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Kind: "drill_protocol"})
	case errors.Is(err, game.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "validation"})
	case errors.Is(err, game.ErrConfiguration):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "configuration"})
	case errors.Is(err, game.ErrShoeExhausted):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Kind: "shoe_exhausted"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Kind: "internal"})
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return game.ErrValidation
	}
	return nil
}
