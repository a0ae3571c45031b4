package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/muurk/papan/internal/settings"
)

func dialDisplay(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	var msg Message
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return msg
}

func waitForDisplays(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Count() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Count() = %d, want %d", h.Count(), n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubHello(t *testing.T) {
	s, _ := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dialDisplay(t, ts)
	hello := readMessage(t, conn)

	if hello.Type != MsgHello {
		t.Errorf("Type = %q, want %q", hello.Type, MsgHello)
	}
	if hello.DisplayID == "" {
		t.Error("hello should carry a display ID")
	}
	if hello.Version != s.Store().Version() {
		t.Errorf("Version = %d, want %d", hello.Version, s.Store().Version())
	}
	waitForDisplays(t, s.Hub(), 1)
}

func TestHubHelloCarriesEveryVersion(t *testing.T) {
	s, _ := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	// Change announcements and stream only; the settings version stays put.
	if err := s.Board().Delete(1); err != nil {
		t.Fatal(err)
	}
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/v1/stream", strings.NewReader(`{"url":"https://example.com/x.m3u8"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	hello := readMessage(t, dialDisplay(t, ts))

	want := map[string]uint64{
		MsgSettings:      s.Store().Version(),
		MsgAnnouncements: s.Board().Version(),
		MsgStream:        2,
	}
	for kind, v := range want {
		got, ok := hello.Versions[kind]
		if !ok {
			t.Errorf("hello has no %s version", kind)
			continue
		}
		if got != v {
			t.Errorf("Versions[%s] = %d, want %d", kind, got, v)
		}
	}
	if hello.Versions[MsgAnnouncements] < 2 {
		t.Errorf("announcements version %d should reflect the delete", hello.Versions[MsgAnnouncements])
	}
}

func TestHubBroadcastsChanges(t *testing.T) {
	s, _ := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dialDisplay(t, ts)
	readMessage(t, conn)
	waitForDisplays(t, s.Hub(), 1)

	cfg := settings.Default()
	cfg.FooterText = "baru"
	s.Store().Replace(cfg)

	msg := readMessage(t, conn)
	if msg.Type != MsgSettings || msg.Version != 2 {
		t.Errorf("got %+v, want settings v2", msg)
	}

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/v1/stream", strings.NewReader(`{"url":"https://example.com/x.m3u8"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	msg = readMessage(t, conn)
	if msg.Type != MsgStream {
		t.Errorf("Type = %q, want %q", msg.Type, MsgStream)
	}

	if err := s.Board().Delete(1); err != nil {
		t.Fatal(err)
	}
	msg = readMessage(t, conn)
	if msg.Type != MsgAnnouncements {
		t.Errorf("Type = %q, want %q", msg.Type, MsgAnnouncements)
	}
}

func TestHubCloseDisconnectsDisplays(t *testing.T) {
	s, _ := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dialDisplay(t, ts)
	readMessage(t, conn)
	waitForDisplays(t, s.Hub(), 1)

	s.Hub().Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("ReadMessage() error = %v, want going-away close", err)
	}
	if s.Hub().Count() != 0 {
		t.Errorf("Count() = %d after Close", s.Hub().Count())
	}

	// Displays arriving after Close are turned away.
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	late, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return
	}
	defer late.Close()
	late.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := late.ReadMessage(); err == nil {
		t.Error("late display should not receive messages")
	}
}

func TestBroadcastWithoutDisplays(t *testing.T) {
	h := NewHub(nil)
	h.Broadcast(Message{Type: MsgSettings, Version: 3})
	if h.Count() != 0 {
		t.Errorf("Count() = %d, want 0", h.Count())
	}
}
