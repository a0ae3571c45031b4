package announcement

import (
	"errors"
	"testing"

	"github.com/muurk/papan/internal/storage"
)

func newEditor(t *testing.T, enabled bool) (*Editor, *Board) {
	t.Helper()
	b := Load(storage.NewMemoryBackend())
	return NewEditor(b, enabled), b
}

func TestEditorAdd(t *testing.T) {
	e, b := newEditor(t, true)

	if err := e.BeginAdd(); err != nil {
		t.Fatalf("BeginAdd() error = %v", err)
	}
	if e.Form.Day != "SENIN" || e.Form.Time != "08:00 WIB" || e.Form.Status != StatusUpcoming {
		t.Errorf("blank form = %+v", e.Form)
	}

	e.SetField("title", "Senam Pagi")
	e.SetField("location", "Lapangan")

	saved, err := e.Commit()
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if saved.ID != 3 {
		t.Errorf("saved ID = %d, want 3", saved.ID)
	}
	if e.Mode() != ModeView {
		t.Error("form should close after commit")
	}
	if got, _ := b.Get(3); got.Title != "Senam Pagi" {
		t.Errorf("board has %+v", got)
	}
}

func TestEditorEditKeepsID(t *testing.T) {
	e, b := newEditor(t, true)
	orig, _ := b.Get(2)

	if err := e.BeginEdit(orig); err != nil {
		t.Fatal(err)
	}
	e.SetField("status", "ongoing")
	if _, err := e.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	got, _ := b.Get(2)
	if got.Status != StatusOngoing || got.Title != orig.Title {
		t.Errorf("updated = %+v", got)
	}
}

func TestEditorCommitValidates(t *testing.T) {
	e, _ := newEditor(t, true)
	e.BeginAdd()

	_, err := e.Commit()
	if !IsValidationError(err) {
		t.Errorf("Commit() with blank title error = %v, want validation error", err)
	}
	if e.Mode() != ModeAdd {
		t.Error("form should stay open after a failed commit")
	}
}

func TestEditorDisabled(t *testing.T) {
	e, _ := newEditor(t, false)

	if err := e.BeginAdd(); !errors.Is(err, ErrEditingDisabled) {
		t.Errorf("BeginAdd() error = %v", err)
	}
	if err := e.BeginEdit(Announcement{ID: 1}); !errors.Is(err, ErrEditingDisabled) {
		t.Errorf("BeginEdit() error = %v", err)
	}
	if err := e.Delete(1); !errors.Is(err, ErrEditingDisabled) {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestEditorDisableAbandonsForm(t *testing.T) {
	e, _ := newEditor(t, true)
	e.BeginAdd()
	e.SetEnabled(false)

	if e.Mode() != ModeView {
		t.Error("disabling should close the form")
	}
}

func TestEditorDeleteClearsReferences(t *testing.T) {
	e, b := newEditor(t, true)
	a, _ := b.Get(1)

	e.Select(1)
	e.BeginEdit(a)

	if err := e.Delete(1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := e.Selected(); ok {
		t.Error("selection should be cleared")
	}
	if e.Mode() != ModeView {
		t.Error("edit of the deleted item should be closed")
	}
	if _, err := b.Get(1); !errors.Is(err, ErrNotFound) {
		t.Error("announcement still on the board")
	}
}

func TestEditorCommitWithoutForm(t *testing.T) {
	e, _ := newEditor(t, true)
	if _, err := e.Commit(); !errors.Is(err, ErrNoForm) {
		t.Errorf("Commit() error = %v, want ErrNoForm", err)
	}
	if err := e.SetField("title", "x"); !errors.Is(err, ErrNoForm) {
		t.Errorf("SetField() error = %v, want ErrNoForm", err)
	}
}
