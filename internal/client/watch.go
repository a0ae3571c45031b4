package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/muurk/papan/internal/version"
)

// Change is one notification pushed on the display channel.
type Change struct {
	Type      string `json:"type"`
	Version   uint64 `json:"version"`
	DisplayID string `json:"displayId,omitempty"`
}

const changeHello = "hello"

// WatchURL returns the display channel endpoint for BaseURL.
func (c *Client) WatchURL() string {
	u := c.BaseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + apiPrefix + "/ws"
}

// NextChange joins the display channel and blocks until the server pushes
// a change. The greeting is skipped. The connection is closed on return.
func (c *Client) NextChange(ctx context.Context) (Change, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: c.HTTPClient.Timeout,
	}
	header := http.Header{"User-Agent": {version.UserAgent()}}

	conn, resp, err := dialer.DialContext(ctx, c.WatchURL(), header)
	if err != nil {
		if resp != nil {
			return Change{}, newHTTPError(resp.StatusCode, errorBody{})
		}
		return Change{}, classifyNetworkError("failed to join change feed", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		var ch Change
		if err := conn.ReadJSON(&ch); err != nil {
			if ctx.Err() != nil {
				return Change{}, ctx.Err()
			}
			return Change{}, classifyNetworkError("change feed closed", err)
		}
		if ch.Type != changeHello {
			return ch, nil
		}
	}
}
