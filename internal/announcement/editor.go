package announcement

import (
	"errors"
	"fmt"
)

// ErrEditingDisabled is returned by Editor mutations when the record has
// announcement editing turned off.
var ErrEditingDisabled = errors.New("announcement editing is disabled")

// ErrNoForm is returned by Commit when no add or edit is in progress.
var ErrNoForm = errors.New("no announcement form is open")

// Mutator applies committed edits. *Board implements it directly; the API
// client provides one backed by the server.
type Mutator interface {
	CreateAnnouncement(a Announcement) (Announcement, error)
	UpdateAnnouncement(a Announcement) error
	DeleteAnnouncement(id int) error
}

// CreateAnnouncement implements Mutator.
func (b *Board) CreateAnnouncement(a Announcement) (Announcement, error) {
	return b.Create(a), nil
}

// UpdateAnnouncement implements Mutator.
func (b *Board) UpdateAnnouncement(a Announcement) error { return b.Update(a) }

// DeleteAnnouncement implements Mutator.
func (b *Board) DeleteAnnouncement(id int) error { return b.Delete(id) }

// Mode of the editor form.
type Mode int

const (
	ModeView Mode = iota
	ModeAdd
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeAdd:
		return "Tambah Agenda Baru"
	case ModeEdit:
		return "Edit Agenda"
	default:
		return "view"
	}
}

// Editor is the inline add/edit/delete state of one board view.
type Editor struct {
	target  Mutator
	enabled bool

	selected  int
	hasSelect bool
	mode      Mode
	editingID int

	// Form is the draft being added or edited.
	Form Announcement
}

// NewEditor creates an editor that commits through target.
func NewEditor(target Mutator, enabled bool) *Editor {
	return &Editor{target: target, enabled: enabled}
}

// SetEnabled follows the record's editing switch. Disabling abandons any
// open form.
func (e *Editor) SetEnabled(enabled bool) {
	e.enabled = enabled
	if !enabled {
		e.CancelEdit()
	}
}

// Enabled reports whether mutations are allowed.
func (e *Editor) Enabled() bool { return e.enabled }

// Mode returns the current form mode.
func (e *Editor) Mode() Mode { return e.mode }

// EditingID returns the ID being edited in ModeEdit.
func (e *Editor) EditingID() int { return e.editingID }

// Select highlights an announcement.
func (e *Editor) Select(id int) {
	e.selected = id
	e.hasSelect = true
}

// Selected returns the highlighted ID, if any.
func (e *Editor) Selected() (int, bool) { return e.selected, e.hasSelect }

// BeginAdd opens a blank form.
func (e *Editor) BeginAdd() error {
	if !e.enabled {
		return ErrEditingDisabled
	}
	e.mode = ModeAdd
	e.editingID = 0
	e.Form = Blank()
	return nil
}

// BeginEdit opens a form pre-filled from a. A missing status reads as
// upcoming.
func (e *Editor) BeginEdit(a Announcement) error {
	if !e.enabled {
		return ErrEditingDisabled
	}
	e.mode = ModeEdit
	e.editingID = a.ID
	e.Form = a
	if e.Form.Status == "" {
		e.Form.Status = StatusUpcoming
	}
	return nil
}

// SetField updates one form field by name.
func (e *Editor) SetField(name, value string) error {
	if e.mode == ModeView {
		return ErrNoForm
	}
	switch name {
	case "day":
		e.Form.Day = value
	case "time":
		e.Form.Time = value
	case "title":
		e.Form.Title = value
	case "location":
		e.Form.Location = value
	case "notes":
		e.Form.Notes = value
	case "status":
		e.Form.Status = Status(value)
	default:
		return fmt.Errorf("unknown announcement field %q", name)
	}
	return nil
}

// Commit validates the form and creates or updates through the target. The
// form closes on success.
func (e *Editor) Commit() (Announcement, error) {
	if !e.enabled {
		return Announcement{}, ErrEditingDisabled
	}
	if e.mode == ModeView {
		return Announcement{}, ErrNoForm
	}
	if err := Validate(e.Form); err != nil {
		return Announcement{}, err
	}

	var (
		saved Announcement
		err   error
	)
	switch e.mode {
	case ModeAdd:
		saved, err = e.target.CreateAnnouncement(e.Form)
	case ModeEdit:
		saved = e.Form
		saved.ID = e.editingID
		err = e.target.UpdateAnnouncement(saved)
	}
	if err != nil {
		return Announcement{}, err
	}

	e.CancelEdit()
	return saved, nil
}

// CancelEdit closes the form without saving.
func (e *Editor) CancelEdit() {
	e.mode = ModeView
	e.editingID = 0
	e.Form = Announcement{}
}

// Delete removes an announcement and clears any selection or edit that
// referenced it.
func (e *Editor) Delete(id int) error {
	if !e.enabled {
		return ErrEditingDisabled
	}
	if err := e.target.DeleteAnnouncement(id); err != nil {
		return err
	}
	if e.hasSelect && e.selected == id {
		e.hasSelect = false
		e.selected = 0
	}
	if e.mode == ModeEdit && e.editingID == id {
		e.CancelEdit()
	}
	return nil
}
