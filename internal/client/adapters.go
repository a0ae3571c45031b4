package client

import (
	"os"

	"github.com/muurk/papan/internal/announcement"
	"github.com/muurk/papan/internal/panel"
	"github.com/muurk/papan/internal/settings"
)

var (
	_ panel.Committer      = (*Client)(nil)
	_ announcement.Mutator = (*Client)(nil)
)

// Commit lets a settings panel save straight to the server.
func (c *Client) Commit(cfg settings.Config) error {
	_, err := c.ReplaceSettings(cfg)
	return err
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &APIError{Type: ErrTypeValidation, Message: "cannot read " + path, Err: err}
	}
	return data, nil
}
