package settings

import (
	"encoding/json"
	"reflect"
	"strings"
)

// PlaceholderText is shown by the running text when no usable item exists.
const PlaceholderText = "Teks berjalan belum diatur. Silakan tambahkan teks di pengaturan."

// Date/time formats for the header clock.
const (
	DateTimeDefault = "default"
	DateTimeShort   = "short"
	DateTimeLong    = "long"
)

// Config is the board's configuration record. It is always fully populated.
type Config struct {
	// Identity
	InstitutionName string `json:"institutionName"`
	FooterText      string `json:"footerText"`
	TextColor       string `json:"textColor"`

	// Logo
	ShowLogo bool   `json:"showLogo"`
	LogoURL  string `json:"logoUrl"`

	// Background
	BgColor    string  `json:"bgColor"`
	UseBgImage bool    `json:"useBgImage"`
	BgImageURL string  `json:"bgImageUrl"`
	BgOpacity  float64 `json:"bgOpacity"`
	BgBlur     float64 `json:"bgBlur"`

	// Header
	HeaderFontSize   string `json:"headerFontSize"`
	HeaderFontFamily string `json:"headerFontFamily"`
	HeaderFontWeight string `json:"headerFontWeight"`
	HeaderTextColor  string `json:"headerTextColor"`
	DateTimeFormat   string `json:"dateTimeFormat"`

	// TV stream
	TVStreamingTitle        string `json:"tvStreamingTitle"`
	DefaultStreamURL        string `json:"defaultStreamUrl"`
	ShowTVStreamingControls bool   `json:"showTVStreamingControls"`

	// Announcement board
	ShowAnnouncementControls    bool   `json:"showAnnouncementControls"`
	AnnouncementTitle           string `json:"announcementTitle"`
	AnnouncementFontSize        string `json:"announcementFontSize"`
	AnnouncementScrollSpeed     int    `json:"announcementScrollSpeed"`
	AnnouncementScrollDirection string `json:"announcementScrollDirection"`
	AnnouncementBgColor         string `json:"announcementBgColor"`
	AnnouncementTextColor       string `json:"announcementTextColor"`
	AnnouncementBorderColor     string `json:"announcementBorderColor"`
	EnableAnnouncementEditing   bool   `json:"enableAnnouncementEditing"`

	// Running text
	RunningTextBgColor     string   `json:"runningTextBgColor"`
	RunningTextColor       string   `json:"runningTextColor"`
	RunningTextDateBgColor string   `json:"runningTextDateBgColor"`
	RunningTextTimeBgColor string   `json:"runningTextTimeBgColor"`
	RunningTextScrollSpeed int      `json:"runningTextScrollSpeed"`
	RunningTextDirection   string   `json:"runningTextDirection"`
	RunningTextFontSize    string   `json:"runningTextFontSize"`
	RunningTextFontFamily  string   `json:"runningTextFontFamily"`
	EnableRunningText      bool     `json:"enableRunningText"`
	RunningTextItems       []string `json:"runningTextItems"`
}

// Default returns the record used on first start and after a reset.
func Default() Config {
	return Config{
		InstitutionName: "Nama Instansi",
		FooterText:      " 2023 Papan Informasi. Hak Cipta Dilindungi.",
		TextColor:       "text-white",

		ShowLogo: false,
		LogoURL:  "",

		BgColor:    "bg-gradient-to-br from-blue-400 to-purple-500",
		UseBgImage: false,
		BgImageURL: "",
		BgOpacity:  0.7,
		BgBlur:     0,

		HeaderFontSize:   "text-4xl",
		HeaderFontFamily: "Montserrat, sans-serif",
		HeaderFontWeight: "bold",
		HeaderTextColor:  "text-white",
		DateTimeFormat:   DateTimeDefault,

		TVStreamingTitle:        "TV Streaming",
		DefaultStreamURL:        "https://www.youtube.com/watch?v=7aiJ0WrNhaE",
		ShowTVStreamingControls: true,

		ShowAnnouncementControls:    true,
		AnnouncementTitle:           "Agenda Kegiatan",
		AnnouncementFontSize:        "text-sm",
		AnnouncementScrollSpeed:     2,
		AnnouncementScrollDirection: "up",
		AnnouncementBgColor:         "bg-white",
		AnnouncementTextColor:       "text-gray-800",
		AnnouncementBorderColor:     "border-green-500",
		EnableAnnouncementEditing:   true,

		RunningTextBgColor:     "#FFFFFF",
		RunningTextColor:       "#050000",
		RunningTextDateBgColor: "#49AD21",
		RunningTextTimeBgColor: "#FFFC36",
		RunningTextScrollSpeed: 90,
		RunningTextDirection:   "left",
		RunningTextFontSize:    "1.25rem",
		RunningTextFontFamily:  "Arial, sans-serif",
		EnableRunningText:      true,
		RunningTextItems: []string{
			"Imran Tolatoly |",
			"Teks berjalan atau running text adalah elemen desain web atau media lainnya di mana teks bergerak secara horizontal atau vertikal di layar. Teks ini sering kali digunakan untuk menampilkan informasi yang ingin ditonjolkan, seperti pengumuman, peringatan,",
			"[Semangat Pagi, dan Jangan lupa berdoa]    |",
		},
	}
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	out := c
	if c.RunningTextItems != nil {
		out.RunningTextItems = append([]string(nil), c.RunningTextItems...)
	}
	return out
}

// Equal reports whether two records hold the same values.
func (c Config) Equal(o Config) bool {
	return reflect.DeepEqual(c.normalized(), o.normalized())
}

func (c Config) normalized() Config {
	if c.RunningTextItems == nil {
		c.RunningTextItems = []string{}
	}
	return c
}

// Keys lists the JSON key of every field in declaration order.
func Keys() []string {
	return append([]string(nil), fieldKeys...)
}

var fieldKeys = func() []string {
	t := reflect.TypeOf(Config{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		keys = append(keys, name)
	}
	return keys
}()

// Decode parses a persisted or submitted record. ok is false when the data
// is not a JSON object or any field key is missing.
func Decode(data []byte) (cfg Config, ok bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return Config{}, false
	}
	if !complete(raw) {
		return Config{}, false
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, false
	}
	if cfg.RunningTextItems == nil {
		cfg.RunningTextItems = []string{}
	}
	return cfg, true
}

// Complete reports whether data is a JSON object carrying every field key.
// A present key with an empty string value counts as present.
func Complete(data []byte) bool {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return false
	}
	return complete(raw)
}

func complete(raw map[string]json.RawMessage) bool {
	for _, k := range fieldKeys {
		v, ok := raw[k]
		if !ok || string(v) == "null" {
			return false
		}
	}
	return true
}

// Missing returns the field keys absent from a JSON object.
func Missing(data []byte) []string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Keys()
	}
	var out []string
	for _, k := range fieldKeys {
		if v, ok := raw[k]; !ok || string(v) == "null" {
			out = append(out, k)
		}
	}
	return out
}

// SanitizeItems trims every running text line and drops empty ones. When
// nothing remains the placeholder is returned as the only item.
func SanitizeItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []string{PlaceholderText}
	}
	return out
}
