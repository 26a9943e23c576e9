package stats

import (
	"fmt"
	"slices"
	"time"

	"complaint-dashboard/internal/intake"
)

// Month label locales.
const (
	LocaleEnglish    = "en"
	LocaleIndonesian = "id"
)

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// MonthWindow is the inclusive time range covered by a calendar month.
type MonthWindow struct {
	Start time.Time
	End   time.Time
}

// NewMonthWindow spans ym from its first instant to its last nanosecond in loc.
func NewMonthWindow(ym intake.YearMonth, loc *time.Location) MonthWindow {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, loc)
	nextMonth := time.Date(ym.Year, ym.Month+1, 1, 0, 0, 0, 0, loc)
	return MonthWindow{Start: start, End: nextMonth.Add(-time.Nanosecond)}
}

// Contains reports whether t falls inside the window, bounds included.
func (w MonthWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// MonthName returns the full month name in the given locale, English by default.
func MonthName(m time.Month, locale string) string {
	if locale == LocaleIndonesian && m >= time.January && m <= time.December {
		return indonesianMonths[m-1]
	}
	return m.String()
}

// MonthLabel pairs a YYYY-MM key with its display text.
type MonthLabel struct {
	Key   string
	Label string
}

// MonthLabels serializes as a JSON object keyed by month, keeping slice order.
type MonthLabels []MonthLabel

func (ml MonthLabels) MarshalJSON() ([]byte, error) {
	keys := make([]string, len(ml))
	labels := make(map[string]string, len(ml))
	for i, m := range ml {
		keys[i] = m.Key
		labels[m.Key] = m.Label
	}
	return marshalOrdered(keys, func(k string) (any, error) { return labels[k], nil })
}

// AvailableMonths lists the distinct months newest first, labelled "{Month} {YYYY}".
func AvailableMonths(months []intake.YearMonth, locale string) MonthLabels {
	distinct := dedupeMonths(months)
	slices.SortFunc(distinct, func(a, b intake.YearMonth) int {
		switch {
		case b.Before(a):
			return -1
		case a.Before(b):
			return 1
		}
		return 0
	})

	out := make(MonthLabels, 0, len(distinct))
	for _, ym := range distinct {
		out = append(out, MonthLabel{
			Key:   ym.Key(),
			Label: fmt.Sprintf("%s %04d", MonthName(ym.Month, locale), ym.Year),
		})
	}
	return out
}

// AvailableDates lists the distinct months as YYYY-MM, years descending and
// months ascending within a year.
func AvailableDates(months []intake.YearMonth) []string {
	distinct := dedupeMonths(months)
	slices.SortFunc(distinct, func(a, b intake.YearMonth) int {
		if a.Year != b.Year {
			return b.Year - a.Year
		}
		return int(a.Month) - int(b.Month)
	})

	out := make([]string, 0, len(distinct))
	for _, ym := range distinct {
		out = append(out, ym.Key())
	}
	return out
}

func dedupeMonths(months []intake.YearMonth) []intake.YearMonth {
	seen := make(map[intake.YearMonth]bool, len(months))
	out := make([]intake.YearMonth, 0, len(months))
	for _, ym := range months {
		if seen[ym] {
			continue
		}
		seen[ym] = true
		out = append(out, ym)
	}
	return out
}
