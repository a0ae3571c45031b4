package panel

import (
	"errors"
	"fmt"

	"github.com/muurk/papan/internal/settings"
)

var (
	// ErrClosed is returned by mutations while the panel is closed.
	ErrClosed = errors.New("settings panel is closed")
	// ErrUnknownField is returned for a key not in Fields.
	ErrUnknownField = errors.New("unknown settings field")
)

// ValueError reports form input that cannot be stored in a field.
type ValueError struct {
	Key    string
	Value  string
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %s", e.Value, e.Key, e.Reason)
}

// Committer receives a saved draft. Local stores and the HTTP client both
// satisfy it.
type Committer interface {
	Commit(cfg settings.Config) error
}

// CommitFunc adapts a function to Committer.
type CommitFunc func(cfg settings.Config) error

// Commit implements Committer.
func (f CommitFunc) Commit(cfg settings.Config) error { return f(cfg) }

// Local commits straight into a settings store.
func Local(store *settings.Store) Committer {
	return CommitFunc(func(cfg settings.Config) error {
		store.Replace(cfg)
		return nil
	})
}

// Panel is the Settings Panel state machine: closed, or open on a tab with
// a working copy (draft) of the record.
type Panel struct {
	open  bool
	tab   Tab
	base  settings.Config
	draft settings.Config
}

// New returns a closed panel.
func New() *Panel { return &Panel{tab: TabGeneral} }

// Open starts editing a copy of current on the named tab. Opening an
// already open panel discards the previous draft.
func (p *Panel) Open(current settings.Config, tab string) {
	p.open = true
	p.tab = ParseTab(tab)
	p.base = current.Clone()
	p.draft = current.Clone()
}

// IsOpen reports whether the panel is open.
func (p *Panel) IsOpen() bool { return p.open }

// Tab returns the active tab.
func (p *Panel) Tab() Tab { return p.tab }

// SelectTab switches tabs. The draft is kept.
func (p *Panel) SelectTab(name string) error {
	if !p.open {
		return ErrClosed
	}
	p.tab = ParseTab(name)
	return nil
}

// NextTab moves to the following tab, wrapping around.
func (p *Panel) NextTab(delta int) error {
	if !p.open {
		return ErrClosed
	}
	for i, t := range Tabs {
		if t == p.tab {
			n := len(Tabs)
			p.tab = Tabs[((i+delta)%n+n)%n]
			return nil
		}
	}
	p.tab = TabGeneral
	return nil
}

// Draft returns a copy of the working record.
func (p *Panel) Draft() settings.Config { return p.draft.Clone() }

// Value returns the form representation of a draft field.
func (p *Panel) Value(key string) (string, error) {
	f, ok := Lookup(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	return f.Format(p.draft), nil
}

// Set parses form input into the draft field named key.
func (p *Panel) Set(key, value string) error {
	if !p.open {
		return ErrClosed
	}
	f, ok := Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	return f.apply(&p.draft, value)
}

// SetItems replaces the running text lines in the draft. Lines are kept as
// typed; Save sanitises them.
func (p *Panel) SetItems(items []string) error {
	if !p.open {
		return ErrClosed
	}
	p.draft.RunningTextItems = append([]string(nil), items...)
	return nil
}

// Changed lists the keys whose draft value differs from the record the
// panel was opened with.
func (p *Panel) Changed() []string {
	var out []string
	for _, f := range Fields {
		if f.Format(p.draft) != f.Format(p.base) {
			out = append(out, f.Key)
		}
	}
	return out
}

// Cancel closes the panel and discards the draft.
func (p *Panel) Cancel() {
	p.open = false
	p.draft = settings.Config{}
	p.base = settings.Config{}
}

// Save sanitises the running text lines, hands the draft to c and closes
// the panel. The panel stays open when c fails so the draft is not lost.
func (p *Panel) Save(c Committer) error {
	if !p.open {
		return ErrClosed
	}
	p.draft.RunningTextItems = settings.SanitizeItems(p.draft.RunningTextItems)
	if err := c.Commit(p.draft.Clone()); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	p.Cancel()
	return nil
}
