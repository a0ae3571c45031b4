package layout

import (
	"testing"

	"github.com/muurk/papan/internal/settings"
)

func TestComposeBackground(t *testing.T) {
	tests := []struct {
		name      string
		useImage  bool
		imageURL  string
		wantImage bool
	}{
		{"image off", false, "data:image/png;base64,AAAA", false},
		{"image on but empty", true, "", false},
		{"image on", true, "data:image/png;base64,AAAA", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := settings.Default()
			cfg.UseBgImage = tt.useImage
			cfg.BgImageURL = tt.imageURL
			cfg.BgOpacity = 0.5
			cfg.BgBlur = 4

			p := Compose(cfg)
			if (p.Background.Image != nil) != tt.wantImage {
				t.Fatalf("Image = %+v, want present=%v", p.Background.Image, tt.wantImage)
			}
			if p.Background.Class != cfg.BgColor {
				t.Errorf("Class = %q", p.Background.Class)
			}
			if tt.wantImage {
				img := p.Background.Image
				if img.OverlayColor != "rgba(0, 0, 0, 0.5)" {
					t.Errorf("OverlayColor = %q", img.OverlayColor)
				}
				if img.OverlayFilter != "blur(4px)" {
					t.Errorf("OverlayFilter = %q", img.OverlayFilter)
				}
			}
		})
	}
}

func TestComposeLogo(t *testing.T) {
	cfg := settings.Default()
	cfg.LogoURL = "data:image/png;base64,AAAA"

	if Compose(cfg).Header.Logo != "" {
		t.Error("logo shown while showLogo is false")
	}

	cfg.ShowLogo = true
	if Compose(cfg).Header.Logo != cfg.LogoURL {
		t.Error("logo hidden while enabled and set")
	}

	cfg.LogoURL = ""
	if Compose(cfg).Header.Logo != "" {
		t.Error("empty logo URL rendered")
	}
}

func TestComposeTickerDisabled(t *testing.T) {
	cfg := settings.Default()
	cfg.EnableRunningText = false

	if Compose(cfg).Ticker != nil {
		t.Error("disabled running text should produce no ticker")
	}
}

func TestComposeTicker(t *testing.T) {
	cfg := settings.Default()
	cfg.RunningTextItems = []string{"  ", ""}
	cfg.RunningTextScrollSpeed = 150
	cfg.RunningTextDirection = "right"

	tk := Compose(cfg).Ticker
	if tk == nil {
		t.Fatal("Ticker is nil")
	}
	if len(tk.Shown) != 1 || tk.Shown[0] != settings.PlaceholderText {
		t.Errorf("Shown = %q, want placeholder", tk.Shown)
	}
	if tk.DelayMS != 150 || tk.Step != 5 || !tk.Reverse {
		t.Errorf("timing = %d ms / %d px reverse=%v", tk.DelayMS, tk.Step, tk.Reverse)
	}
}

func TestComposeBoardTiming(t *testing.T) {
	cfg := settings.Default()
	cfg.AnnouncementScrollSpeed = 4

	b := Compose(cfg).Board
	if b.ScrollDelayMS != 40 || b.ScrollStep != 4 {
		t.Errorf("board timing = %d ms / %d px", b.ScrollDelayMS, b.ScrollStep)
	}
}

func TestToggle(t *testing.T) {
	var tg Toggle
	if tg.Visible() {
		t.Error("panel should start hidden")
	}
	if !tg.Flip() || !tg.Visible() {
		t.Error("Flip() should show the panel")
	}
	if tg.Flip() {
		t.Error("second Flip() should hide the panel")
	}
	tg.Flip()
	tg.Hide()
	if tg.Visible() {
		t.Error("Hide() left the panel visible")
	}
}
