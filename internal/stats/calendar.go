package stats

import (
	"time"

	"tradejournal/internal/domain"
	"tradejournal/internal/pnl"
	"tradejournal/internal/utils"
)

// PLSummary holds closed-trade P&L sums over standard calendar windows.
type PLSummary struct {
	ThisMonth   float64 `json:"this_month"`
	Last3Months float64 `json:"last_3_months"`
	Quarter     float64 `json:"quarter"`
	Year        float64 `json:"year"`
}

// Summarize computes the calendar P&L summary over closed trades; a trade
// qualifies for a window when its exit date is on or after the window start.
func Summarize(trades []*domain.Trade, today time.Time) PLSummary {
	startMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	start3M := today.AddDate(0, 0, -90)
	quarterMonth := time.Month((int(today.Month())-1)/3*3 + 1)
	startQuarter := time.Date(today.Year(), quarterMonth, 1, 0, 0, 0, 0, today.Location())
	startYear := time.Date(today.Year(), 1, 1, 0, 0, 0, 0, today.Location())

	sumFrom := func(start time.Time) float64 {
		var total float64
		for _, t := range trades {
			if t.Status != domain.StatusClosed || t.LastExitDate == nil {
				continue
			}
			if t.LastExitDate.Before(start) {
				continue
			}
			total += pnl.RealizedPnL(t)
		}
		return utils.Round2(total)
	}

	return PLSummary{
		ThisMonth:   sumFrom(startMonth),
		Last3Months: sumFrom(start3M),
		Quarter:     sumFrom(startQuarter),
		Year:        sumFrom(startYear),
	}
}

// CalendarEvent is one closed trade rendered for a calendar view.
type CalendarEvent struct {
	Symbol  string    `json:"symbol"`
	PnL     float64   `json:"pnl"`
	Date    time.Time `json:"date"`
	Journal string    `json:"journal,omitempty"`
}

// Events lists one event per closed trade with an exit date.
func Events(trades []*domain.Trade) []CalendarEvent {
	events := make([]CalendarEvent, 0, len(trades))
	for _, t := range trades {
		if t.Status != domain.StatusClosed || t.LastExitDate == nil {
			continue
		}
		events = append(events, CalendarEvent{
			Symbol:  t.Symbol,
			PnL:     utils.Round2(pnl.RealizedPnL(t)),
			Date:    *t.LastExitDate,
			Journal: t.Journal,
		})
	}
	return events
}
