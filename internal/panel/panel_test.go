package panel

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muurk/papan/internal/settings"
	"github.com/muurk/papan/internal/storage"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestParseTab(t *testing.T) {
	tests := []struct {
		in   string
		want Tab
	}{
		{"header", TabHeader},
		{" RunningText ", TabRunningText},
		{"stream", TabStream},
		{"photos", TabGeneral},
		{"", TabGeneral},
	}
	for _, tt := range tests {
		if got := ParseTab(tt.in); got != tt.want {
			t.Errorf("ParseTab(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFieldsCoverRecord(t *testing.T) {
	seen := make(map[string]bool)
	for _, f := range Fields {
		if seen[f.Key] {
			t.Errorf("duplicate field %q", f.Key)
		}
		seen[f.Key] = true
	}
	for _, k := range settings.Keys() {
		if !seen[k] {
			t.Errorf("record key %q has no panel field", k)
		}
	}
	for _, tab := range Tabs {
		if len(FieldsFor(tab)) == 0 {
			t.Errorf("tab %q has no fields", tab)
		}
	}
}

func TestStateMachine(t *testing.T) {
	p := New()
	if p.IsOpen() {
		t.Fatal("new panel should be closed")
	}
	if err := p.Set("institutionName", "x"); !errors.Is(err, ErrClosed) {
		t.Errorf("Set() while closed error = %v, want ErrClosed", err)
	}
	if err := p.SelectTab("header"); !errors.Is(err, ErrClosed) {
		t.Errorf("SelectTab() while closed error = %v", err)
	}

	p.Open(settings.Default(), "background")
	if !p.IsOpen() || p.Tab() != TabBackground {
		t.Fatalf("Open() -> open=%v tab=%q", p.IsOpen(), p.Tab())
	}

	p.Set("institutionName", "SMK Harapan")
	p.SelectTab("stream")
	if p.Draft().InstitutionName != "SMK Harapan" {
		t.Error("switching tabs lost the draft")
	}

	p.NextTab(1)
	if p.Tab() != TabAnnouncement {
		t.Errorf("NextTab(1) = %q", p.Tab())
	}
	p.SelectTab("general")
	p.NextTab(-1)
	if p.Tab() != TabRunningText {
		t.Errorf("NextTab(-1) from general = %q", p.Tab())
	}
}

func TestCancelLeavesStoreUntouched(t *testing.T) {
	store := settings.Load(storage.NewMemoryBackend())
	p := New()
	p.Open(store.Current(), "general")
	p.Set("institutionName", "Draft")
	p.Cancel()

	if p.IsOpen() {
		t.Error("Cancel() should close the panel")
	}
	if store.Current().InstitutionName != "Nama Instansi" {
		t.Error("cancelled draft reached the store")
	}
}

func TestSaveSanitizesAndCommits(t *testing.T) {
	store := settings.Load(storage.NewMemoryBackend())
	p := New()
	p.Open(store.Current(), "runningtext")
	p.SetItems([]string{"  Selamat datang  ", "", "   "})

	if err := p.Save(Local(store)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if p.IsOpen() {
		t.Error("Save() should close the panel")
	}
	got := store.Current().RunningTextItems
	if len(got) != 1 || got[0] != "Selamat datang" {
		t.Errorf("stored items = %q", got)
	}

	p.Open(store.Current(), "")
	p.SetItems(nil)
	p.Save(Local(store))
	if got := store.Current().RunningTextItems; len(got) != 1 || got[0] != settings.PlaceholderText {
		t.Errorf("empty items should save the placeholder, got %q", got)
	}
}

func TestSaveFailureKeepsDraft(t *testing.T) {
	p := New()
	p.Open(settings.Default(), "")
	p.Set("footerText", "baru")

	err := p.Save(CommitFunc(func(settings.Config) error { return errors.New("offline") }))
	if err == nil {
		t.Fatal("Save() should report the commit error")
	}
	if !p.IsOpen() || p.Draft().FooterText != "baru" {
		t.Error("failed save should keep the panel open with its draft")
	}
}

func TestSetParsesKinds(t *testing.T) {
	p := New()
	p.Open(settings.Default(), "")

	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"showLogo", "ya", false},
		{"useBgImage", "true", false},
		{"useBgImage", "maybe", true},
		{"bgOpacity", "0.25", false},
		{"bgOpacity", "1.5", true},
		{"bgBlur", "abc", true},
		{"announcementScrollSpeed", "3", false},
		{"announcementScrollSpeed", "7", true},
		{"runningTextScrollSpeed", "150", false},
		{"runningTextScrollSpeed", "100", true},
		{"runningTextDirection", "right", false},
		{"runningTextDirection", "up", true},
		{"dateTimeFormat", "long", false},
		{"bgColor", "bg-red-700", false},
		{"noSuchField", "x", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := p.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Set() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	d := p.Draft()
	if !d.ShowLogo || !d.UseBgImage || d.BgOpacity != 0.25 || d.AnnouncementScrollSpeed != 3 ||
		d.RunningTextScrollSpeed != 150 || d.RunningTextDirection != "right" || d.BgColor != "bg-red-700" {
		t.Errorf("draft = %+v", d)
	}
	if err := p.Set("noSuchField", "x"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("unknown field error = %v", err)
	}
}

func TestValueAndChanged(t *testing.T) {
	p := New()
	p.Open(settings.Default(), "")

	if v, _ := p.Value("runningTextScrollSpeed"); v != "90" {
		t.Errorf("Value() = %q, want 90", v)
	}
	if v, _ := p.Value("enableRunningText"); v != "ya" {
		t.Errorf("Value() = %q, want ya", v)
	}
	if len(p.Changed()) != 0 {
		t.Errorf("fresh draft reports changes: %v", p.Changed())
	}

	p.Set("tvStreamingTitle", "Siaran Langsung")
	p.Set("runningTextItems", "a\nb")
	changed := strings.Join(p.Changed(), ",")
	if changed != "tvStreamingTitle,runningTextItems" {
		t.Errorf("Changed() = %s", changed)
	}
}

func TestImageDataURI(t *testing.T) {
	uri, err := ImageDataURI(bytes.NewReader(pngHeader))
	if err != nil {
		t.Fatalf("ImageDataURI() error = %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("uri = %q", uri)
	}

	if _, err := ImageDataURI(strings.NewReader("just text")); !errors.Is(err, ErrNotImage) {
		t.Errorf("text input error = %v, want ErrNotImage", err)
	}
}

func TestAttachImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	if err := os.WriteFile(path, pngHeader, 0600); err != nil {
		t.Fatal(err)
	}

	p := New()
	if err := p.AttachImage(ImageLogo, path); !errors.Is(err, ErrClosed) {
		t.Errorf("AttachImage() while closed error = %v", err)
	}

	p.Open(settings.Default(), "header")
	if err := p.AttachImage(ImageLogo, path); err != nil {
		t.Fatalf("AttachImage() error = %v", err)
	}
	d := p.Draft()
	if !d.ShowLogo || !strings.HasPrefix(d.LogoURL, "data:image/png") {
		t.Errorf("logo not attached: show=%v url=%.30q", d.ShowLogo, d.LogoURL)
	}

	if err := p.AttachImage(ImageBackground, filepath.Join(dir, "missing.png")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestParseImageTarget(t *testing.T) {
	if tg, err := ParseImageTarget("Background"); err != nil || tg.Key() != "bgImageUrl" {
		t.Errorf("ParseImageTarget(Background) = %q, %v", tg, err)
	}
	if _, err := ParseImageTarget("banner"); err == nil {
		t.Error("unknown target accepted")
	}
}
