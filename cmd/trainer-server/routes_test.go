package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coder/quartz"

	"blackjack-trainer/internal/config"
	"blackjack-trainer/internal/session"
	"blackjack-trainer/internal/training"
	"blackjack-trainer/internal/ws"
)

func testApp(t *testing.T) *app {
	t.Helper()
	cfg, err := config.LoadApp()
	if err != nil {
		t.Fatalf("LoadApp: %v", err)
	}
	return &app{
		cfg:      cfg,
		sessions: session.NewManager(),
		drills:   training.NewDrills(quartz.NewMock(t)),
		scores:   training.NewHighScores(10),
		events:   ws.NewServer(),
	}
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	} else {
		buf.WriteString("{}")
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode %q: %v", rec.Body.String(), err)
		}
	}
	return rec, out
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	r := newRouter(testApp(t))

	rec, body := doJSON(t, r, http.MethodPost, "/api/sessions", map[string]any{
		"counting_system": "hilo",
		"seed":            12345,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	id, _ := body["session_id"].(string)
	if id == "" {
		t.Fatal("no session id returned")
	}

	rec, body = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/sessions/%s/bet", id), map[string]any{
		"amount_cents": 1000,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("bet: %d %s", rec.Code, rec.Body.String())
	}
	if _, ok := body["events"]; !ok {
		t.Fatal("bet response missing events")
	}

	rec, _ = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/sessions/%s", id), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("snapshot: %d", rec.Code)
	}
	rec, _ = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/sessions/%s/actions", id), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("actions: %d", rec.Code)
	}
}

func TestValidationMapsToBadRequest(t *testing.T) {
	r := newRouter(testApp(t))

	rec, body := doJSON(t, r, http.MethodPost, "/api/sessions", map[string]any{
		"counting_system": "hilo",
		"seed":            777,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d", rec.Code)
	}
	id := body["session_id"].(string)

	// Standing before any deal is a validation error, state unchanged.
	rec, body = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/sessions/%s/stand", id), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("stand out of turn: %d %s", rec.Code, rec.Body.String())
	}
	if body["kind"] != "validation" {
		t.Fatalf("kind = %v, want validation", body["kind"])
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	r := newRouter(testApp(t))
	rec, _ := doJSON(t, r, http.MethodGet, "/api/sessions/NOPE", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", rec.Code)
	}
}

func TestUnknownCountingSystemRejected(t *testing.T) {
	r := newRouter(testApp(t))
	rec, _ := doJSON(t, r, http.MethodPost, "/api/sessions", map[string]any{
		"counting_system": "zen",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
}

func TestTrainingRoutes(t *testing.T) {
	r := newRouter(testApp(t))

	rec, body := doJSON(t, r, http.MethodPost, "/api/training/counting", map[string]any{
		"num_cards": 10,
		"system":    "hilo",
		"seed":      42,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("counting drill: %d %s", rec.Code, rec.Body.String())
	}
	drillID := body["id"].(string)
	expected := body["expected_count"].(float64)

	rec, body = doJSON(t, r, http.MethodPost, "/api/training/verify", map[string]any{
		"drill_id":   drillID,
		"user_count": expected,
		"elapsed_ms": 4000,
		"player":     "tester",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify: %d %s", rec.Code, rec.Body.String())
	}
	if body["correct"] != true {
		t.Fatalf("verify judged exact answer wrong: %v", body)
	}

	rec, body = doJSON(t, r, http.MethodGet, "/api/training/high-scores", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("high scores: %d", rec.Code)
	}
	scores := body["scores"].([]any)
	if len(scores) != 1 {
		t.Fatalf("board size = %d, want 1", len(scores))
	}

	// Replaying the drill id is a protocol error.
	rec, _ = doJSON(t, r, http.MethodPost, "/api/training/verify", map[string]any{
		"drill_id":   drillID,
		"user_count": expected,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("replayed drill: %d, want 404", rec.Code)
	}
}

func TestStatsRoutes(t *testing.T) {
	r := newRouter(testApp(t))

	rec, body := doJSON(t, r, http.MethodGet, "/api/stats/kelly?edge=0.01&bankroll_cents=1000000&fraction=0.5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("kelly: %d", rec.Code)
	}
	if body["bet_cents"].(float64) != 3780 {
		t.Fatalf("kelly bet = %v, want 3780 cents", body["bet_cents"])
	}

	rec, body = doJSON(t, r, http.MethodGet, "/api/stats/bet-spread?true_count=3&base_bet_cents=1000&max_spread=8", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("bet spread: %d", rec.Code)
	}
	if body["bet_cents"].(float64) != 3000 {
		t.Fatalf("spread bet = %v, want 3000", body["bet_cents"])
	}
}
