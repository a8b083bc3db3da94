package analytics

import (
	"time"

	"github.com/fleetware/fleet-mileage/internal/models"
)

// Range names a dashboard time window. Filtering is a pure pre-step over the
// record set; the aggregations themselves are range-agnostic.
type Range string

const (
	RangeAll       Range = "all"
	RangeToday     Range = "today"
	RangeThisWeek  Range = "this_week"
	RangeThisMonth Range = "this_month"
	RangeLast7     Range = "last_7_days"
	RangeLast30    Range = "last_30_days"
	RangeLast90    Range = "last_90_days"
)

// ParseRange maps a query value to a Range, defaulting to RangeAll.
func ParseRange(s string) Range {
	switch Range(s) {
	case RangeToday, RangeThisWeek, RangeThisMonth, RangeLast7, RangeLast30, RangeLast90:
		return Range(s)
	default:
		return RangeAll
	}
}

// Bounds returns the half-open window [from, to) for the range relative to
// now. ok is false for RangeAll, which applies no filtering.
func (r Range) Bounds(now time.Time) (from, to time.Time, ok bool) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch r {
	case RangeToday:
		return day, day.AddDate(0, 0, 1), true
	case RangeThisWeek:
		// Weeks start on Monday.
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7), true
	case RangeThisMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0), true
	case RangeLast7:
		return day.AddDate(0, 0, -6), day.AddDate(0, 0, 1), true
	case RangeLast30:
		return day.AddDate(0, 0, -29), day.AddDate(0, 0, 1), true
	case RangeLast90:
		return day.AddDate(0, 0, -89), day.AddDate(0, 0, 1), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// FilterTrips keeps the trips whose date falls inside the range.
func (r Range) FilterTrips(trips []models.TripRecord, now time.Time) []models.TripRecord {
	from, to, ok := r.Bounds(now)
	if !ok {
		return trips
	}
	out := make([]models.TripRecord, 0, len(trips))
	for _, t := range trips {
		if inWindow(t.Date, from, to) {
			out = append(out, t)
		}
	}
	return out
}

// FilterExpenses keeps the expenses whose date falls inside the range.
func (r Range) FilterExpenses(expenses []models.ExpenseRecord, now time.Time) []models.ExpenseRecord {
	from, to, ok := r.Bounds(now)
	if !ok {
		return expenses
	}
	out := make([]models.ExpenseRecord, 0, len(expenses))
	for _, e := range expenses {
		if inWindow(e.Date, from, to) {
			out = append(out, e)
		}
	}
	return out
}

func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
