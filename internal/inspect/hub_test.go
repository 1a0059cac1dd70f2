package inspect

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"schmoovin/motiongraph/logging"
	"schmoovin/motiongraph/logging/motion"
	"schmoovin/motiongraph/logging/sinks"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	t.Cleanup(func() {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
		if resp != nil {
			resp.Body.Close()
		}
	})
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubSendsHelloAndBroadcasts(t *testing.T) {
	hub := NewHub(HubConfig{
		Logger: log.New(io.Discard, "", 0),
		Info:   map[string]any{"template": "demo-character"},
	})
	srv := httptest.NewServer(http.HandlerFunc(hub.Handle))
	t.Cleanup(srv.Close)

	conn := dial(t, srv)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read hello: %v", err)
	}
	var hello helloMessage
	if err := json.Unmarshal(payload, &hello); err != nil {
		t.Fatalf("failed to decode hello: %v", err)
	}
	if hello.Type != "hello" || hello.ID == "" || hello.Info["template"] != "demo-character" {
		t.Fatalf("unexpected hello %+v", hello)
	}

	waitFor(t, func() bool { return hub.Subscribers() == 1 })

	sink := sinks.NewBroadcast(hub)
	err = sink.Write(logging.Event{
		Type:     motion.EventBlockerUnderflow,
		Tick:     3,
		Severity: logging.SeverityError,
		Category: logging.CategoryParameters,
		Payload:  motion.BlockerUnderflowPayload{Parameter: "sprint", Kind: "switch"},
	})
	if err != nil {
		t.Fatalf("broadcast write: %v", err)
	}

	_, payload, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read event: %v", err)
	}
	var event struct {
		Type     string `json:"type"`
		Tick     uint64 `json:"tick"`
		Severity string `json:"severity"`
		Payload  struct {
			Parameter string `json:"parameter"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if event.Type != string(motion.EventBlockerUnderflow) || event.Tick != 3 || event.Severity != "error" || event.Payload.Parameter != "sprint" {
		t.Fatalf("unexpected event %+v", event)
	}
	if hub.Sent() != 1 {
		t.Fatalf("expected one delivered message, got %d", hub.Sent())
	}
}

func TestHubDropsClosedSubscribers(t *testing.T) {
	hub := NewHub(HubConfig{Logger: log.New(io.Discard, "", 0)})
	srv := httptest.NewServer(http.HandlerFunc(hub.Handle))
	t.Cleanup(srv.Close)

	conn := dial(t, srv)
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("failed to read hello: %v", err)
	}
	waitFor(t, func() bool { return hub.Subscribers() == 1 })

	conn.Close()
	waitFor(t, func() bool { return hub.Subscribers() == 0 })
}

func TestHubCloseDisconnectsEveryone(t *testing.T) {
	hub := NewHub(HubConfig{Logger: log.New(io.Discard, "", 0)})
	srv := httptest.NewServer(http.HandlerFunc(hub.Handle))
	t.Cleanup(srv.Close)

	for i := 0; i < 2; i++ {
		conn := dial(t, srv)
		if _, _, err := conn.ReadMessage(); err != nil {
			t.Fatalf("failed to read hello: %v", err)
		}
	}
	waitFor(t, func() bool { return hub.Subscribers() == 2 })
	hub.Close()
	if hub.Subscribers() != 0 {
		t.Fatalf("expected no subscribers after close, got %d", hub.Subscribers())
	}
}
