package announcement

import (
	"errors"
	"fmt"
	"strings"
)

// Status of a scheduled agenda item.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Statuses lists the known statuses in display order.
var Statuses = []Status{StatusUpcoming, StatusOngoing, StatusCompleted, StatusCancelled}

// Days lists the accepted day tokens, Monday first.
var Days = []string{"SENIN", "SELASA", "RABU", "KAMIS", "JUMAT", "SABTU", "MINGGU"}

// Label returns the Indonesian label. Unknown or empty statuses read as
// upcoming.
func (s Status) Label() string {
	switch s {
	case StatusOngoing:
		return "Sedang Berlangsung"
	case StatusCompleted:
		return "Selesai"
	case StatusCancelled:
		return "Dibatalkan"
	default:
		return "Akan Datang"
	}
}

// Color returns the badge colour name. Unknown or empty statuses are blue.
func (s Status) Color() string {
	switch s {
	case StatusOngoing:
		return "green"
	case StatusCompleted:
		return "gray"
	case StatusCancelled:
		return "red"
	default:
		return "blue"
	}
}

// Valid reports whether s is empty or one of the known statuses.
func (s Status) Valid() bool {
	if s == "" {
		return true
	}
	for _, k := range Statuses {
		if s == k {
			return true
		}
	}
	return false
}

// Announcement is one agenda item on the board.
type Announcement struct {
	ID       int    `json:"id"`
	Day      string `json:"day"`
	Time     string `json:"time"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
	Status   Status `json:"status,omitempty"`
}

// Blank returns the form defaults for a new announcement.
func Blank() Announcement {
	return Announcement{
		Day:    "SENIN",
		Time:   "08:00 WIB",
		Status: StatusUpcoming,
	}
}

// Defaults returns the seed list used when nothing is stored.
func Defaults() []Announcement {
	return []Announcement{
		{
			ID:       1,
			Day:      "JUMAT",
			Time:     "14.00 WIB s.d Selesai",
			Title:    "Buka Puasa Bersama, Santunan Yatim & Dhu'afa dan Pembagian Takjil Berbuka Puasa",
			Location: "Kantor Kementerian Agama Kota Tangerang Selatan",
			Notes:    "",
			Status:   StatusUpcoming,
		},
		{
			ID:       2,
			Day:      "SENIN",
			Time:     "09.00 WIB s.d 12.00 WIB",
			Title:    "Rapat Koordinasi Bulanan",
			Location: "Ruang Rapat Utama Lt. 3",
			Notes:    "Wajib dihadiri oleh seluruh kepala bagian",
			Status:   StatusUpcoming,
		},
	}
}

// ValidDay reports whether day is one of the seven day tokens.
func ValidDay(day string) bool {
	for _, d := range Days {
		if day == d {
			return true
		}
	}
	return false
}

// ValidationError describes the first invalid field of an announcement.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks a submitted announcement. The ID is not checked.
func Validate(a Announcement) error {
	if !ValidDay(a.Day) {
		return &ValidationError{
			Field:   "day",
			Message: fmt.Sprintf("%q is not one of %s", a.Day, strings.Join(Days, ", ")),
		}
	}
	if strings.TrimSpace(a.Title) == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}
	if !a.Status.Valid() {
		return &ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("%q is not a known status", a.Status),
		}
	}
	return nil
}

// IsValidationError reports whether err came from Validate.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
