package server

import (
	"embed"
	"html/template"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/muurk/papan/internal/announcement"
	"github.com/muurk/papan/internal/layout"
	"github.com/muurk/papan/internal/logging"
	"github.com/muurk/papan/internal/widget"
)

//go:embed web
var webFS embed.FS

// boardData is what board.html renders.
type boardData struct {
	Page          layout.Page
	Announcements []announcement.Announcement
	Stream        widget.Source
	Clock         []string
	Date          string
	Time          string
	Client        clientConfig
}

// clientConfig is handed to board.js.
type clientConfig struct {
	SettingsVersion      uint64 `json:"settingsVersion"`
	AnnouncementsVersion uint64 `json:"announcementsVersion"`
	StreamVersion        uint64 `json:"streamVersion"`
	DateTimeFormat       string `json:"dateTimeFormat"`
	ClockIntervalMS      int    `json:"clockIntervalMs"`
	BoardDelayMS         int    `json:"boardDelayMs"`
	BoardStep            int    `json:"boardStep"`
	BoardDown            bool   `json:"boardDown"`
	TickerDelayMS        int    `json:"tickerDelayMs"`
	TickerStep           int    `json:"tickerStep"`
	TickerReverse        bool   `json:"tickerReverse"`
}

var templateFuncs = template.FuncMap{
	"safeURL":   safeURL,
	"cssValue":  cssValue,
	"bgImage":   bgImage,
	"isHLS":     func(s widget.Source) bool { return s.Kind == widget.KindHLS },
	"formatDay": func(s string) string { return strings.ToUpper(s) },
}

func boardTemplate() *template.Template {
	return template.Must(template.New("").Funcs(templateFuncs).ParseFS(webFS, "web/templates/*.html"))
}

// unsafeCSS are bytes that could end a declaration or open a function.
const unsafeCSS = `"'();{}<>\`

var dataImage = regexp.MustCompile(`^data:image/[a-z0-9.+-]+;base64,[A-Za-z0-9+/=]*$`)

// safeURL passes http(s) URLs and base64 inline images; anything else
// renders empty.
func safeURL(raw string) template.URL {
	switch {
	case strings.HasPrefix(raw, "https://"), strings.HasPrefix(raw, "http://"):
	case dataImage.MatchString(raw):
	default:
		return ""
	}
	return template.URL(raw)
}

// cssValue trusts a composed CSS value such as rgba(...) or blur(...) once
// it is known to hold no quoting or nesting.
func cssValue(v string) template.CSS {
	if strings.Count(v, "(") > 1 || strings.ContainsAny(v, `"';{}<>\`) {
		return ""
	}
	return template.CSS(v)
}

// bgImage returns a background-image declaration for the layer URL.
func bgImage(raw string) template.CSS {
	u := string(safeURL(raw))
	if u == "" {
		return ""
	}
	if !dataImage.MatchString(u) && strings.ContainsAny(u, unsafeCSS) {
		return ""
	}
	return template.CSS(`background-image: url("` + u + `");`)
}

func (s *Server) boardData(now time.Time) boardData {
	cfg := s.store.Current()
	page := layout.Compose(cfg)

	d := boardData{
		Page:          page,
		Announcements: s.board.List(),
		Stream:        s.stream.Source(),
		Clock:         widget.FormatDateTime(now, page.Header.DateTimeFormat),
		Date:          widget.FormatDate(now),
		Time:          widget.FormatClock(now),
		Client: clientConfig{
			SettingsVersion:      s.store.Version(),
			AnnouncementsVersion: s.board.Version(),
			StreamVersion:        s.streamVersion.Load(),
			DateTimeFormat:       page.Header.DateTimeFormat,
			ClockIntervalMS:      int(widget.ClockInterval.Milliseconds()),
			BoardDelayMS:         page.Board.ScrollDelayMS,
			BoardStep:            page.Board.ScrollStep,
			BoardDown:            page.Board.ScrollDirection == "down",
		},
	}
	if t := page.Ticker; t != nil {
		d.Client.TickerDelayMS = t.DelayMS
		d.Client.TickerStep = t.Step
		d.Client.TickerReverse = t.Reverse
	}
	return d
}

func (s *Server) handleBoard(c *gin.Context) {
	d := s.boardData(time.Now())
	logging.Debug("Rendering board", zap.Stringer("page", d.Page))
	c.HTML(http.StatusOK, "board.html", d)
}
