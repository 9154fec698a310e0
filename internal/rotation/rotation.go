// Package rotation holds the calendar arithmetic behind the 4-day rotation
// rule and the recent-entries summary.
//
// All day boundaries are UTC midnights. Timestamps keep full time-of-day
// precision everywhere else; only the comparisons below truncate to the day.
package rotation

import (
	"fmt"
	"strings"
	"time"

	"github.com/sakif/food-rotation/internal/model"
)

// WHY TWO CONSTANTS?
// They look related and are one apart, which makes it tempting to write
// SummaryLookbackDays as RotationDays-1. They answer different questions.
// RotationDays is a rest period: eaten on day D, a food is back on D+4.
// SummaryLookbackDays is a display window: the summary shows today and the
// three days before it. Changing the rest period must not silently change
// what the summary shows, and vice versa.
const (
	// RotationDays is how long a food rests after it was last eaten.
	RotationDays = 4

	// SummaryLookbackDays is how far back the recent-entries summary reaches
	// (today minus 3 days, so four calendar dates inclusive).
	SummaryLookbackDays = 3
)

// DateLayout is a calendar day. TimestampLayout is an entry date as stored
// and as sent to clients; see model.TimestampLayout for why it is fixed width.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = model.TimestampLayout
)

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders the UTC calendar date of t.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// FormatTimestamp renders t the way entry dates are stored: UTC, millisecond
// precision, "Z" suffix. Stored values sort lexicographically by time.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a stored entry date.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// RotationCutoff is the latest calendar day on which a food may have been
// eaten and still be available on today.
func RotationCutoff(today time.Time) time.Time {
	return Day(today).AddDate(0, 0, -RotationDays)
}

// SummaryStart is the first calendar day included in the summary window.
func SummaryStart(today time.Time) time.Time {
	return Day(today).AddDate(0, 0, -SummaryLookbackDays)
}

// IsAvailable reports whether a food last eaten at lastEaten may be eaten on
// today. A nil lastEaten means never eaten. The boundary is closed: exactly
// RotationDays elapsed counts as available.
func IsAvailable(lastEaten *time.Time, today time.Time) bool {
	if lastEaten == nil {
		return true
	}
	return !Day(*lastEaten).After(RotationCutoff(today))
}

// NextAvailable returns the calendar day a food becomes available again, or
// today if it was never eaten. The result may lie in the past.
func NextAvailable(lastEaten *time.Time, today time.Time) time.Time {
	if lastEaten == nil {
		return Day(today)
	}
	return Day(*lastEaten).AddDate(0, 0, RotationDays)
}

// DaysUntil counts whole days from today to next, rounding up. Anything not
// in the future is reported as 0.
func DaysUntil(next, today time.Time) int {
	diff := Day(next).Sub(Day(today))
	if diff <= 0 {
		return 0
	}
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// MarkRepeated flags every entry whose food name occurs more than once in
// entries. Only the given slice is considered, not the whole log. Order is
// preserved.
func MarkRepeated(entries []model.Entry) []model.SummaryEntry {
	counts := make(map[string]int, len(entries))
	for _, e := range entries {
		counts[e.FoodName]++
	}

	out := make([]model.SummaryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, model.SummaryEntry{
			Entry:    e,
			Repeated: counts[e.FoodName] > 1,
		})
	}
	return out
}

// ParseDateTime combines a calendar date (YYYY-MM-DD) and a wall-clock time
// (HH:MM or HH:MM:SS) into a UTC timestamp.
func ParseDateTime(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)

	layout := "2006-01-02T15:04"
	if strings.Count(clock, ":") == 2 {
		layout = "2006-01-02T15:04:05"
	}
	t, err := time.ParseInLocation(layout, date+"T"+clock, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q and time %q: %w", date, clock, err)
	}
	return t, nil
}

// ParseSince accepts either a calendar date or an RFC 3339 timestamp. A bare
// date means midnight UTC.
func ParseSince(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateLayout, s, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing since %q: %w", s, err)
	}
	return t.UTC(), nil
}
