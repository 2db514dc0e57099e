package appointment

import (
	"fmt"
	"time"
)

// OperatingHours is the bookable window of one day, as "HH:MM" strings.
// Lunch is optional.
type OperatingHours struct {
	Open       string
	Close      string
	LunchStart string
	LunchEnd   string
}

func (h *OperatingHours) HasLunch() bool {
	return h.LunchStart != "" && h.LunchEnd != ""
}

// ParseHM converts "HH:MM" into minutes after midnight.
func ParseHM(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", hm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func FormatHM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// IsPastDate reports whether date (YYYY-MM-DD) is before the calendar day of now.
func IsPastDate(date string, now time.Time) (bool, error) {
	d, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err != nil {
		return false, err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return d.Before(today), nil
}
