package utils

import (
	"time"
)

const DateLayout = "2006-01-02"

// StartOfDay truncates t to midnight UTC of its calendar date.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func MustParseDate(dateStr string) time.Time {
	t, _ := time.ParseInLocation(DateLayout, dateStr, time.UTC)
	return t
}

// PreviousWeek returns Monday..Sunday of the week before now.
func PreviousWeek(now time.Time) (time.Time, time.Time) {
	today := StartOfDay(now)
	offset := (int(today.Weekday()) + 6) % 7 // days since Monday
	thisMonday := today.AddDate(0, 0, -offset)
	return thisMonday.AddDate(0, 0, -7), thisMonday.AddDate(0, 0, -1)
}
