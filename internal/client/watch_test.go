package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWatchURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://board.local:8080", "ws://board.local:8080/api/v1/ws"},
		{"https://papan.example.com", "wss://papan.example.com/api/v1/ws"},
	}
	for _, tt := range tests {
		if got := NewWithURL(tt.base).WatchURL(); got != tt.want {
			t.Errorf("WatchURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestNextChangeSkipsHello(t *testing.T) {
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/ws" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteJSON(Change{Type: "hello", Version: 1, DisplayID: "d1"})
		_ = conn.WriteJSON(Change{Type: "settings", Version: 2})
		_, _, _ = conn.ReadMessage()
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch, err := NewWithURL(ts.URL).NextChange(ctx)
	if err != nil {
		t.Fatalf("NextChange() error = %v", err)
	}
	if ch.Type != "settings" || ch.Version != 2 {
		t.Errorf("NextChange() = %+v, want settings v2", ch)
	}
}

func TestNextChangeCancelled(t *testing.T) {
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteJSON(Change{Type: "hello", Version: 1})
		_, _, _ = conn.ReadMessage()
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	if _, err := NewWithURL(ts.URL).NextChange(ctx); err != context.Canceled {
		t.Errorf("NextChange() error = %v, want context.Canceled", err)
	}
}

func TestNextChangeUpgradeRefused(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := NewWithURL(ts.URL).NextChange(context.Background())
	if !IsNotFound(err) {
		t.Errorf("NextChange() error = %v, want not found", err)
	}
}
