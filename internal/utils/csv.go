package utils

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"tradejournal/internal/domain"
	"tradejournal/internal/pnl"
)

const csvDateLayout = "2006-01-02"

// WriteTradeHistoryCSV writes the closed trades of a user's trade set as CSV.
// The P&L column is the full-ledger figure, the definition the history and
// export views use for closed trades.
func WriteTradeHistoryCSV(w io.Writer, trades []*domain.Trade) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{"symbol", "bought_qty", "sold_qty", "avg_entry_price", "avg_exit_price", "pnl", "first_entry_date", "last_exit_date", "holding_days", "journal"})

	for _, t := range trades {
		if t.Status != domain.StatusClosed {
			continue
		}
		writer.Write([]string{
			t.Symbol,
			strconv.FormatInt(t.BoughtQty(), 10),
			strconv.FormatInt(t.SoldQty(), 10),
			strconv.FormatFloat(Round2(pnl.AverageEntryPrice(t)), 'f', -1, 64),
			strconv.FormatFloat(Round2(pnl.AverageExitPrice(t)), 'f', -1, 64),
			strconv.FormatFloat(Round2(pnl.RealizedPnL(t)), 'f', -1, 64),
			formatDate(t.FirstEntryDate),
			formatDate(t.LastExitDate),
			strconv.Itoa(pnl.HoldingDays(t)),
			t.Journal,
		})
	}
	return writer.Error()
}

func formatDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(csvDateLayout)
}
