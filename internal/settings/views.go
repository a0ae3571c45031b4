package settings

// HeaderView is the slice of the record the header renders.
type HeaderView struct {
	InstitutionName string
	ShowLogo        bool
	LogoURL         string
	FontSize        string
	FontFamily      string
	FontWeight      string
	TextColor       string
	DateTimeFormat  string
}

// BackgroundView describes the page background.
type BackgroundView struct {
	Color    string
	UseImage bool
	ImageURL string
	Opacity  float64
	Blur     float64
}

// StreamView configures the TV streaming widget.
type StreamView struct {
	Title        string
	DefaultURL   string
	ShowControls bool
}

// BoardView configures the announcement widget.
type BoardView struct {
	Title           string
	ShowControls    bool
	FontSize        string
	ScrollSpeed     int
	ScrollDirection string
	BgColor         string
	TextColor       string
	BorderColor     string
	EnableEditing   bool
}

// RunningTextView configures the ticker row.
type RunningTextView struct {
	Enabled     bool
	Items       []string
	BgColor     string
	TextColor   string
	DateBgColor string
	TimeBgColor string
	ScrollSpeed int
	Direction   string
	FontSize    string
	FontFamily  string
}

// FooterView configures the footer line.
type FooterView struct {
	Text      string
	TextColor string
}

// Header returns the header slice. An empty header colour falls back to the
// general text colour.
func (c Config) Header() HeaderView {
	color := c.HeaderTextColor
	if color == "" {
		color = c.TextColor
	}
	return HeaderView{
		InstitutionName: c.InstitutionName,
		ShowLogo:        c.ShowLogo,
		LogoURL:         c.LogoURL,
		FontSize:        c.HeaderFontSize,
		FontFamily:      c.HeaderFontFamily,
		FontWeight:      c.HeaderFontWeight,
		TextColor:       color,
		DateTimeFormat:  c.DateTimeFormat,
	}
}

func (c Config) Background() BackgroundView {
	return BackgroundView{
		Color:    c.BgColor,
		UseImage: c.UseBgImage,
		ImageURL: c.BgImageURL,
		Opacity:  c.BgOpacity,
		Blur:     c.BgBlur,
	}
}

func (c Config) Stream() StreamView {
	return StreamView{
		Title:        c.TVStreamingTitle,
		DefaultURL:   c.DefaultStreamURL,
		ShowControls: c.ShowTVStreamingControls,
	}
}

func (c Config) Board() BoardView {
	return BoardView{
		Title:           c.AnnouncementTitle,
		ShowControls:    c.ShowAnnouncementControls,
		FontSize:        c.AnnouncementFontSize,
		ScrollSpeed:     c.AnnouncementScrollSpeed,
		ScrollDirection: c.AnnouncementScrollDirection,
		BgColor:         c.AnnouncementBgColor,
		TextColor:       c.AnnouncementTextColor,
		BorderColor:     c.AnnouncementBorderColor,
		EnableEditing:   c.EnableAnnouncementEditing,
	}
}

// RunningText returns the ticker slice with a private copy of the items.
func (c Config) RunningText() RunningTextView {
	return RunningTextView{
		Enabled:     c.EnableRunningText,
		Items:       append([]string(nil), c.RunningTextItems...),
		BgColor:     c.RunningTextBgColor,
		TextColor:   c.RunningTextColor,
		DateBgColor: c.RunningTextDateBgColor,
		TimeBgColor: c.RunningTextTimeBgColor,
		ScrollSpeed: c.RunningTextScrollSpeed,
		Direction:   c.RunningTextDirection,
		FontSize:    c.RunningTextFontSize,
		FontFamily:  c.RunningTextFontFamily,
	}
}

func (c Config) Footer() FooterView {
	return FooterView{Text: c.FooterText, TextColor: c.TextColor}
}
