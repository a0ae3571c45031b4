package panel

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/muurk/papan/internal/settings"
)

// Tab groups the panel's fields.
type Tab string

const (
	TabGeneral      Tab = "general"
	TabHeader       Tab = "header"
	TabBackground   Tab = "background"
	TabStream       Tab = "stream"
	TabAnnouncement Tab = "announcement"
	TabRunningText  Tab = "runningtext"
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabGeneral, TabHeader, TabBackground, TabStream, TabAnnouncement, TabRunningText}

// ParseTab returns the named tab, or TabGeneral for an unknown name.
func ParseTab(name string) Tab {
	for _, t := range Tabs {
		if string(t) == strings.ToLower(strings.TrimSpace(name)) {
			return t
		}
	}
	return TabGeneral
}

// Label returns the tab title.
func (t Tab) Label() string {
	switch t {
	case TabHeader:
		return "Header"
	case TabBackground:
		return "Latar Belakang"
	case TabStream:
		return "TV Streaming"
	case TabAnnouncement:
		return "Agenda"
	case TabRunningText:
		return "Teks Berjalan"
	default:
		return "Umum"
	}
}

// Kind is how a field is edited and parsed.
type Kind int

const (
	KindText Kind = iota
	KindMultiline
	KindBool
	KindChoice
	KindInt
	KindFloat
	KindImage
	KindList
)

// Option is one entry of a choice field.
type Option struct {
	Value string
	Label string
}

// Field describes one editable key of the configuration record.
type Field struct {
	Key     string
	Label   string
	Tab     Tab
	Kind    Kind
	Options []Option
	// Strict choices reject values outside Options; others only suggest.
	Strict   bool
	Min, Max float64
}

var (
	bgOptions = []Option{
		{"bg-gradient-to-br from-blue-400 to-purple-500", "Blue to Purple"},
		{"bg-gradient-to-br from-green-400 to-blue-500", "Green to Blue"},
		{"bg-gradient-to-br from-pink-400 to-orange-500", "Pink to Orange"},
		{"bg-gradient-to-br from-yellow-400 to-red-500", "Yellow to Red"},
		{"bg-gradient-to-br from-teal-400 to-indigo-500", "Teal to Indigo"},
		{"bg-blue-500", "Solid Blue"},
		{"bg-purple-500", "Solid Purple"},
		{"bg-green-500", "Solid Green"},
		{"bg-pink-500", "Solid Pink"},
	}

	textColorOptions = []Option{
		{"text-white", "White"},
		{"text-gray-100", "Light Gray"},
		{"text-yellow-100", "Light Yellow"},
		{"text-blue-100", "Light Blue"},
		{"text-gray-900", "Black"},
	}

	headerSizeOptions = []Option{
		{"text-2xl", "Kecil"},
		{"text-3xl", "Sedang"},
		{"text-4xl", "Besar"},
		{"text-5xl", "Sangat Besar"},
		{"text-6xl", "Raksasa"},
	}

	fontOptions = []Option{
		{"Montserrat, sans-serif", "Montserrat"},
		{"Poppins, sans-serif", "Poppins"},
		{"Arial, sans-serif", "Arial"},
		{"Georgia, serif", "Georgia"},
		{"'Courier New', monospace", "Courier New"},
	}

	fontWeightOptions = []Option{
		{"normal", "Normal"},
		{"medium", "Medium"},
		{"semibold", "Semi Bold"},
		{"bold", "Bold"},
		{"extrabold", "Extra Bold"},
	}

	dateTimeOptions = []Option{
		{settings.DateTimeDefault, "Default"},
		{settings.DateTimeShort, "Pendek (DD/MM/YYYY)"},
		{settings.DateTimeLong, "Panjang (dengan WIB)"},
	}

	boardFontSizeOptions = []Option{
		{"text-xs", "Sangat Kecil"},
		{"text-sm", "Kecil"},
		{"text-base", "Normal"},
		{"text-lg", "Besar"},
	}

	boardSpeedOptions = []Option{
		{"1", "Lambat"},
		{"2", "Sedang"},
		{"3", "Cepat"},
		{"4", "Sangat Cepat"},
	}

	boardDirectionOptions = []Option{{"up", "Ke Atas"}, {"down", "Ke Bawah"}}

	boardBgOptions = []Option{
		{"bg-white", "White"},
		{"bg-gray-100", "Light Gray"},
		{"bg-blue-50", "Light Blue"},
		{"bg-yellow-50", "Light Yellow"},
	}

	boardTextOptions = []Option{
		{"text-gray-800", "Dark Gray"},
		{"text-gray-900", "Black"},
		{"text-blue-900", "Navy"},
	}

	boardBorderOptions = []Option{
		{"border-green-500", "Green"},
		{"border-blue-500", "Blue"},
		{"border-red-500", "Red"},
		{"border-yellow-500", "Yellow"},
	}

	tickerSpeedOptions = []Option{
		{"30", "Sangat Cepat"},
		{"60", "Cepat"},
		{"90", "Sedang"},
		{"120", "Lambat"},
		{"150", "Sangat Lambat"},
	}

	tickerDirectionOptions = []Option{{"left", "Ke Kiri"}, {"right", "Ke Kanan"}}
)

// Fields is the catalogue of every editable key, grouped by tab.
var Fields = []Field{
	{Key: "institutionName", Label: "Nama Instansi", Tab: TabGeneral, Kind: KindText},
	{Key: "footerText", Label: "Teks Footer", Tab: TabGeneral, Kind: KindMultiline},
	{Key: "textColor", Label: "Warna Teks", Tab: TabGeneral, Kind: KindChoice, Options: textColorOptions},
	{Key: "dateTimeFormat", Label: "Format Tanggal", Tab: TabGeneral, Kind: KindChoice, Options: dateTimeOptions, Strict: true},

	{Key: "headerFontSize", Label: "Ukuran Font", Tab: TabHeader, Kind: KindChoice, Options: headerSizeOptions},
	{Key: "headerFontFamily", Label: "Jenis Font", Tab: TabHeader, Kind: KindChoice, Options: fontOptions},
	{Key: "headerFontWeight", Label: "Ketebalan Font", Tab: TabHeader, Kind: KindChoice, Options: fontWeightOptions},
	{Key: "headerTextColor", Label: "Warna Teks Header", Tab: TabHeader, Kind: KindChoice, Options: textColorOptions},
	{Key: "showLogo", Label: "Tampilkan Logo", Tab: TabHeader, Kind: KindBool},
	{Key: "logoUrl", Label: "Logo", Tab: TabHeader, Kind: KindImage},

	{Key: "bgColor", Label: "Warna Latar Belakang", Tab: TabBackground, Kind: KindChoice, Options: bgOptions},
	{Key: "useBgImage", Label: "Gunakan Gambar", Tab: TabBackground, Kind: KindBool},
	{Key: "bgImageUrl", Label: "Gambar Latar", Tab: TabBackground, Kind: KindImage},
	{Key: "bgOpacity", Label: "Kegelapan Overlay", Tab: TabBackground, Kind: KindFloat, Min: 0, Max: 1},
	{Key: "bgBlur", Label: "Blur (px)", Tab: TabBackground, Kind: KindFloat, Min: 0, Max: 50},

	{Key: "tvStreamingTitle", Label: "Judul", Tab: TabStream, Kind: KindText},
	{Key: "defaultStreamUrl", Label: "URL Streaming", Tab: TabStream, Kind: KindText},
	{Key: "showTVStreamingControls", Label: "Tampilkan Kontrol", Tab: TabStream, Kind: KindBool},

	{Key: "announcementTitle", Label: "Judul", Tab: TabAnnouncement, Kind: KindText},
	{Key: "showAnnouncementControls", Label: "Tampilkan Kontrol", Tab: TabAnnouncement, Kind: KindBool},
	{Key: "enableAnnouncementEditing", Label: "Izinkan Edit", Tab: TabAnnouncement, Kind: KindBool},
	{Key: "announcementFontSize", Label: "Ukuran Font", Tab: TabAnnouncement, Kind: KindChoice, Options: boardFontSizeOptions},
	{Key: "announcementScrollSpeed", Label: "Kecepatan Gulir", Tab: TabAnnouncement, Kind: KindInt, Options: boardSpeedOptions, Strict: true},
	{Key: "announcementScrollDirection", Label: "Arah Gulir", Tab: TabAnnouncement, Kind: KindChoice, Options: boardDirectionOptions, Strict: true},
	{Key: "announcementBgColor", Label: "Warna Latar", Tab: TabAnnouncement, Kind: KindChoice, Options: boardBgOptions},
	{Key: "announcementTextColor", Label: "Warna Teks", Tab: TabAnnouncement, Kind: KindChoice, Options: boardTextOptions},
	{Key: "announcementBorderColor", Label: "Warna Bingkai", Tab: TabAnnouncement, Kind: KindChoice, Options: boardBorderOptions},

	{Key: "enableRunningText", Label: "Aktifkan", Tab: TabRunningText, Kind: KindBool},
	{Key: "runningTextItems", Label: "Teks (satu per baris)", Tab: TabRunningText, Kind: KindList},
	{Key: "runningTextScrollSpeed", Label: "Kecepatan", Tab: TabRunningText, Kind: KindInt, Options: tickerSpeedOptions, Strict: true},
	{Key: "runningTextDirection", Label: "Arah", Tab: TabRunningText, Kind: KindChoice, Options: tickerDirectionOptions, Strict: true},
	{Key: "runningTextBgColor", Label: "Warna Latar", Tab: TabRunningText, Kind: KindText},
	{Key: "runningTextColor", Label: "Warna Teks", Tab: TabRunningText, Kind: KindText},
	{Key: "runningTextDateBgColor", Label: "Latar Tanggal", Tab: TabRunningText, Kind: KindText},
	{Key: "runningTextTimeBgColor", Label: "Latar Jam", Tab: TabRunningText, Kind: KindText},
	{Key: "runningTextFontSize", Label: "Ukuran Font", Tab: TabRunningText, Kind: KindText},
	{Key: "runningTextFontFamily", Label: "Jenis Font", Tab: TabRunningText, Kind: KindChoice, Options: fontOptions},
}

// FieldsFor returns the fields of one tab in display order.
func FieldsFor(tab Tab) []Field {
	var out []Field
	for _, f := range Fields {
		if f.Tab == tab {
			out = append(out, f)
		}
	}
	return out
}

// Lookup finds a field by its record key.
func Lookup(key string) (Field, bool) {
	for _, f := range Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// OptionLabel returns the label of value, or value itself when it is not
// one of the options.
func (f Field) OptionLabel(value string) string {
	for _, o := range f.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// fieldIndex maps record keys to struct field indexes.
var fieldIndex = func() map[string]int {
	t := reflect.TypeOf(settings.Config{})
	idx := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		idx[name] = i
	}
	return idx
}()

// apply parses form input for f and stores it in cfg.
func (f Field) apply(cfg *settings.Config, input string) error {
	i, ok := fieldIndex[f.Key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, f.Key)
	}
	v := reflect.ValueOf(cfg).Elem().Field(i)

	if f.Strict && !f.allows(input) {
		return &ValueError{Key: f.Key, Value: input, Reason: "not one of the listed options"}
	}

	switch f.Kind {
	case KindBool:
		b, err := parseBool(input)
		if err != nil {
			return &ValueError{Key: f.Key, Value: input, Reason: "expected yes/no"}
		}
		v.SetBool(b)
	case KindInt:
		n, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil {
			return &ValueError{Key: f.Key, Value: input, Reason: "expected a whole number"}
		}
		v.SetInt(int64(n))
	case KindFloat:
		x, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
		if err != nil {
			return &ValueError{Key: f.Key, Value: input, Reason: "expected a number"}
		}
		if x < f.Min || x > f.Max {
			return &ValueError{Key: f.Key, Value: input, Reason: fmt.Sprintf("must be between %g and %g", f.Min, f.Max)}
		}
		v.SetFloat(x)
	case KindList:
		v.Set(reflect.ValueOf(strings.Split(input, "\n")))
	case KindChoice:
		v.SetString(strings.TrimSpace(input))
	default:
		v.SetString(input)
	}
	return nil
}

// Format returns the form representation of f's value in cfg.
func (f Field) Format(cfg settings.Config) string {
	i, ok := fieldIndex[f.Key]
	if !ok {
		return ""
	}
	v := reflect.ValueOf(cfg).Field(i)
	switch f.Kind {
	case KindBool:
		if v.Bool() {
			return "ya"
		}
		return "tidak"
	case KindInt:
		return strconv.FormatInt(v.Int(), 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case KindList:
		return strings.Join(v.Interface().([]string), "\n")
	default:
		return v.String()
	}
}

func (f Field) allows(value string) bool {
	for _, o := range f.Options {
		if o.Value == strings.TrimSpace(value) {
			return true
		}
	}
	return false
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ya", "y", "on", "aktif":
		return true, nil
	case "tidak", "n", "off", "nonaktif":
		return false, nil
	}
	return strconv.ParseBool(s)
}
