package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/papan/internal/client"
	"github.com/muurk/papan/internal/logging"
)

// watchRetryDelay is the pause before reloading after the change feed
// dropped.
const watchRetryDelay = 3 * time.Second

// watchChanges waits for the next change pushed by the server. A dropped
// feed also reports a change after watchRetryDelay so the preview reloads
// whatever it missed. It returns nil once ctx ends.
func watchChanges(ctx context.Context, c *client.Client) tea.Cmd {
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		ch, err := c.NextChange(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			return remoteChangeMsg{client: c, kind: ch.Type}
		}

		logging.Debug("Change feed dropped",
			zap.String("server", c.BaseURL),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(watchRetryDelay):
			return remoteChangeMsg{client: c, kind: "reconnect"}
		}
	}
}
