package stats

import (
	"strings"
	"time"

	"tradejournal/internal/domain"
)

// Range names a relative date window for statistics.
type Range string

const (
	RangeAllTime    Range = "all_time"
	RangeLast7Days  Range = "last_7_days"
	RangeLast30Days Range = "last_30_days"
	RangeLast90Days Range = "last_90_days"
	RangeYTD        Range = "ytd"
	RangeLastYear   Range = "last_year"
)

// ParseRange maps a query value to a Range, defaulting to all_time.
func ParseRange(s string) Range {
	switch Range(s) {
	case RangeLast7Days, RangeLast30Days, RangeLast90Days, RangeYTD, RangeLastYear:
		return Range(s)
	default:
		return RangeAllTime
	}
}

// Ranges lists every supported range value.
func Ranges() []Range {
	return []Range{RangeAllTime, RangeLast7Days, RangeLast30Days, RangeLast90Days, RangeYTD, RangeLastYear}
}

// Filter selects the subset of a user's trades a snapshot is computed over.
type Filter struct {
	Range Range
	Tag   string // Optional journal/strategy tag, matched case-insensitively
}

// bounds returns the inclusive window for the range relative to today.
// A nil start means unbounded; end is nil for every range except last_year.
func (r Range) bounds(today time.Time) (start, end *time.Time) {
	switch r {
	case RangeLast7Days:
		s := today.AddDate(0, 0, -7)
		return &s, nil
	case RangeLast30Days:
		s := today.AddDate(0, 0, -30)
		return &s, nil
	case RangeLast90Days:
		s := today.AddDate(0, 0, -90)
		return &s, nil
	case RangeYTD:
		s := time.Date(today.Year(), 1, 1, 0, 0, 0, 0, today.Location())
		return &s, nil
	case RangeLastYear:
		s := time.Date(today.Year()-1, 1, 1, 0, 0, 0, 0, today.Location())
		e := time.Date(today.Year()-1, 12, 31, 0, 0, 0, 0, today.Location())
		return &s, &e
	default:
		return nil, nil
	}
}

// Apply filters trades by the window and tag. Closed trades qualify by their
// exit date, open trades by their first-entry date; trades missing the
// qualifying date fall outside any bounded window.
func (f Filter) Apply(trades []*domain.Trade, today time.Time) []*domain.Trade {
	start, end := f.Range.bounds(today)
	out := make([]*domain.Trade, 0, len(trades))
	for _, t := range trades {
		if f.Tag != "" && !strings.EqualFold(strings.TrimSpace(t.Journal), f.Tag) {
			continue
		}
		if start != nil {
			var qualifying *time.Time
			if t.Status == domain.StatusClosed {
				qualifying = t.LastExitDate
			} else {
				qualifying = t.FirstEntryDate
			}
			if qualifying == nil || qualifying.Before(*start) {
				continue
			}
			if end != nil && qualifying.After(*end) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
