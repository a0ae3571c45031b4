package widget

import (
	"fmt"
	"time"
)

// ClockInterval is how often the running text clock refreshes.
const ClockInterval = 200 * time.Millisecond

var (
	dayNames   = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}
	monthNames = [...]string{
		"Januari", "Februari", "Maret", "April", "Mei", "Juni",
		"Juli", "Agustus", "September", "Oktober", "November", "Desember",
	}
)

// DayName returns the Indonesian weekday name.
func DayName(t time.Time) string { return dayNames[t.Weekday()] }

// MonthName returns the Indonesian month name.
func MonthName(t time.Time) string { return monthNames[t.Month()-1] }

// FormatClock returns HH:MM:SS.
func FormatClock(t time.Time) string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// FormatDate returns "<Day>, <DD> <Month> <YYYY>", e.g. "Senin, 05 Mei 2025".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s, %02d %s %d", DayName(t), t.Day(), MonthName(t), t.Year())
}

// FormatDateTime returns the header clock lines for a date/time format.
// "short" gives DD/MM/YYYY and time; "long" adds the weekday and a WIB
// suffix; anything else gives weekday, long date and time.
func FormatDateTime(t time.Time, format string) []string {
	clock := FormatClock(t)
	switch format {
	case "short":
		return []string{
			fmt.Sprintf("%02d/%02d/%d", t.Day(), int(t.Month()), t.Year()),
			clock,
		}
	case "long":
		return []string{DayName(t), longDate(t), clock + " WIB"}
	default:
		return []string{DayName(t), longDate(t), clock}
	}
}

func longDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), MonthName(t), t.Year())
}
