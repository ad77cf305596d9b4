package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/gesture"
)

func TestEventSocketHandler_Broadcast(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	h := NewEventSocketHandler()
	srv := httptest.NewServer(h)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()

	// Wait for the server to register the client.
	deadline := time.Now().Add(time.Second)
	for {
		h.mu.RLock()
		n := len(h.clients)
		h.mu.RUnlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("client was never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	h.Publish(gesture.Event{
		Fingers: 5,
		Action:  gesture.ActionPlay,
		Time:    time.Now(),
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message error = %v", err)
	}

	var ev struct {
		Fingers int    `json:"fingers"`
		Action  string `json:"action"`
	}
	if err := json.Unmarshal(msg, &ev); err != nil {
		t.Fatalf("invalid event JSON: %v", err)
	}
	if ev.Fingers != 5 || ev.Action != "play" {
		t.Errorf("event = %+v", ev)
	}
}

func TestEventSocketHandler_ClientCleanup(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	h := NewEventSocketHandler()
	srv := httptest.NewServer(h)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	conn.Close()

	deadline := time.Now().Add(time.Second)
	for {
		h.mu.RLock()
		n := len(h.clients)
		h.mu.RUnlock()
		if n == 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("client was never removed after close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
