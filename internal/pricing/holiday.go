package pricing

import (
	"strconv"
	"strings"
	"time"

	"github.com/Jayesh2422/smartpark/internal/domain"
)

// DefaultHolidayMultiplier is applied when a holiday row carries a missing or
// unparsable multiplier.
const DefaultHolidayMultiplier = 1.5

type HolidayInfo struct {
	IsHoliday   bool    `json:"is_holiday"`
	HolidayName string  `json:"holiday_name,omitempty"`
	Multiplier  float64 `json:"multiplier"`
}

// DateKey normalizes a timestamp to its local calendar date.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ResolveHoliday looks up the first active holiday falling on the same local
// calendar date. Callers own the order of the holidays slice; on two holidays
// sharing a date the first one wins. A non-match resolves to multiplier 1.0.
func ResolveHoliday(date time.Time, holidays []domain.Holiday) HolidayInfo {
	key := DateKey(date)
	for _, h := range holidays {
		if !h.IsActive || DateKey(h.Date) != key {
			continue
		}
		m, err := strconv.ParseFloat(strings.TrimSpace(h.Multiplier), 64)
		if err != nil || m <= 0 {
			m = DefaultHolidayMultiplier
		}
		return HolidayInfo{IsHoliday: true, HolidayName: h.Name, Multiplier: m}
	}
	return HolidayInfo{Multiplier: 1.0}
}

// IsWeekendDay reports whether the date falls on Saturday or Sunday in its
// own location.
func IsWeekendDay(date time.Time) bool {
	day := date.Weekday()
	return day == time.Saturday || day == time.Sunday
}

// UpcomingHolidays returns the active holidays whose date falls within
// [today, today+days], compared at day granularity.
func UpcomingHolidays(holidays []domain.Holiday, today time.Time, days int) []domain.Holiday {
	start := truncateToDay(today)
	end := start.AddDate(0, 0, days)

	var upcoming []domain.Holiday
	for _, h := range holidays {
		if !h.IsActive {
			continue
		}
		d := truncateToDay(h.Date)
		if !d.Before(start) && !d.After(end) {
			upcoming = append(upcoming, h)
		}
	}
	return upcoming
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
