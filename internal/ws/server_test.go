package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"blackjack-trainer/internal/game"
)

func TestBroadcastReachesObserver(t *testing.T) {
	s := NewServer()
	ts := httptest.NewServer(http.HandlerFunc(s.HandleWS))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "?session=abc"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Registration races the broadcast; give the server a beat.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		n := len(s.watchers["abc"])
		s.mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	events := []game.Event{{Kind: game.EventRoundEnded, Amount: 1500}}
	s.Broadcast("abc", events)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var batch eventBatch
	if err := json.Unmarshal(msg, &batch); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if batch.SessionID != "abc" || len(batch.Events) != 1 || batch.Events[0].Amount != 1500 {
		t.Fatalf("unexpected batch: %+v", batch)
	}
}

func TestBroadcastIgnoresOtherSessions(t *testing.T) {
	s := NewServer()
	ts := httptest.NewServer(http.HandlerFunc(s.HandleWS))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "?session=mine"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	s.Broadcast("theirs", []game.Event{{Kind: game.EventRoundEnded}})

	_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("received a batch for another session")
	}
}

func TestMissingSessionParamRejected(t *testing.T) {
	s := NewServer()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	s.HandleWS(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
}
