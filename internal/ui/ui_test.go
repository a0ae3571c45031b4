package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/muurk/papan/internal/announcement"
	"github.com/muurk/papan/internal/discovery"
	"github.com/muurk/papan/internal/settings"
	"github.com/muurk/papan/internal/widget"
)

func TestHeaderKeepsParamOrder(t *testing.T) {
	out := NewHeader("Settings", "papan-cfg show",
		Param{Key: "Server", Value: "http://board:8080"},
		Param{Key: "Tab", Value: "header"},
	).SetWidth(80).Render()

	for _, want := range []string{"SETTINGS", "papan-cfg show", "http://board:8080"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Server:") > strings.Index(out, "Tab:") {
		t.Error("params should render in the order given")
	}
	if !strings.Contains(out, "─") {
		t.Error("params should sit under a divider")
	}
}

func TestResultRender(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   []string
	}{
		{
			name:   "success",
			result: NewSuccessResult("Settings saved", Param{Key: "Version", Value: "4"}),
			want:   []string{"SUCCESS", "Settings saved", "Version:", "4"},
		},
		{
			name:   "failure",
			result: NewFailureResult("Save failed", errors.New("connection refused"), "Check the server"),
			want:   []string{"FAILED", "connection refused", "Troubleshooting:", "Check the server"},
		},
		{
			name:   "warning",
			result: NewWarningResult("Nothing changed").AddDetail("Stream", "default"),
			want:   []string{"WARNING", "Nothing changed", "Stream:"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.result.SetWidth(80).String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("result missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"RESET\n", true},
		{"  RESET  \n", true},
		{"reset\n", false},
		{"\n", false},
		{"", false},
		{"RESET", true},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got := ConfirmReset(strings.NewReader(tt.input), &out, "http://board:8080")
		if got != tt.want {
			t.Errorf("ConfirmReset(%q) = %t, want %t", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "RESET SETTINGS") {
			t.Errorf("prompt should show the warning box")
		}
	}
}

func TestRenderSettings(t *testing.T) {
	cfg := settings.Default()
	cfg.LogoURL = "data:image/png;base64,AAAA"

	all := RenderSettings(cfg, "")
	for _, want := range []string{"Umum", "Header", "Teks Berjalan", "Nama Instansi", "embedded image/png"} {
		if !strings.Contains(all, want) {
			t.Errorf("settings missing %q", want)
		}
	}
	if strings.Contains(all, "AAAA") {
		t.Error("embedded images should not be printed")
	}

	one := RenderSettings(cfg, "runningtext")
	if strings.Contains(one, "Nama Instansi") || !strings.Contains(one, "1. ") {
		t.Errorf("tab filter output:\n%s", one)
	}
}

func TestRenderAnnouncements(t *testing.T) {
	out := RenderAnnouncements(announcement.Defaults())
	for _, want := range []string{"JUMAT", "Rapat Koordinasi Bulanan", "Akan Datang", "@ Ruang Rapat Utama Lt. 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(RenderAnnouncements(nil), "No announcements") {
		t.Error("empty list should say so")
	}
}

func TestRenderBoards(t *testing.T) {
	out := RenderBoards([]*discovery.Board{{
		Instance: "Lobby",
		IP:       "192.168.1.20",
		Port:     8080,
		Metadata: map[string]string{"version": "1.2.0"},
	}})
	for _, want := range []string{"Lobby", "http://192.168.1.20:8080", "1.2.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("boards missing %q:\n%s", want, out)
		}
	}
}

func TestStreamParams(t *testing.T) {
	params := StreamParams(widget.Source{URL: "https://x/live.m3u8", KindName: "hls", Overridden: true})
	if params[2].Value != "session override" || params[1].Value != "hls" {
		t.Errorf("StreamParams() = %+v", params)
	}
	if StreamParams(widget.Source{})[0].Value != "(none)" {
		t.Error("empty URL should read (none)")
	}
}
