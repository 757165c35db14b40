// Package pnl derives realized profit and loss figures from a trade's ledger.
// All functions are pure reads of the in-memory ledger state.
package pnl

import (
	"github.com/shopspring/decimal"

	"tradejournal/internal/domain"
)

// investedAmount is the exact sum of quantity*price over all entries.
func investedAmount(t *domain.Trade) decimal.Decimal {
	total := decimal.Zero
	for _, e := range t.Entries {
		total = total.Add(decimal.NewFromFloat(e.Price).Mul(decimal.NewFromInt(e.Quantity)))
	}
	return total
}

// exitedAmount is the exact sum of quantity*price over all exits.
func exitedAmount(t *domain.Trade) decimal.Decimal {
	total := decimal.Zero
	for _, x := range t.Exits {
		total = total.Add(decimal.NewFromFloat(x.Price).Mul(decimal.NewFromInt(x.Quantity)))
	}
	return total
}

// TotalInvested returns the total amount spent on entries.
func TotalInvested(t *domain.Trade) float64 {
	return investedAmount(t).InexactFloat64()
}

// TotalExited returns the total amount received from exits.
func TotalExited(t *domain.Trade) float64 {
	return exitedAmount(t).InexactFloat64()
}

// AverageEntryPrice returns the quantity-weighted average buy price, or 0
// when the trade has no entries.
func AverageEntryPrice(t *domain.Trade) float64 {
	qty := t.BoughtQty()
	if qty == 0 {
		return 0
	}
	return investedAmount(t).Div(decimal.NewFromInt(qty)).InexactFloat64()
}

// AverageExitPrice returns the quantity-weighted average sell price, or 0
// when the trade has no exits.
func AverageExitPrice(t *domain.Trade) float64 {
	qty := t.SoldQty()
	if qty == 0 {
		return 0
	}
	return exitedAmount(t).Div(decimal.NewFromInt(qty)).InexactFloat64()
}

// RealizedPnL is the full-ledger P&L: total exited amount minus total
// invested amount, over every event recorded to date. This is the canonical
// figure for Closed trades, statistics and export.
func RealizedPnL(t *domain.Trade) float64 {
	return exitedAmount(t).Sub(investedAmount(t)).InexactFloat64()
}

// ExitedPnL is the realized profit on the quantity sold so far, computed by
// the weighted-average-cost method: sum of exit.qty * (exit.price - average
// entry price). For a partially exited trade this prices only the shares
// actually sold, unlike RealizedPnL which subtracts the whole invested
// amount. The two coincide once a trade is fully closed.
func ExitedPnL(t *domain.Trade) float64 {
	if len(t.Exits) == 0 {
		return 0
	}
	avgEntry := decimal.NewFromFloat(AverageEntryPrice(t))
	total := decimal.Zero
	for _, x := range t.Exits {
		diff := decimal.NewFromFloat(x.Price).Sub(avgEntry)
		total = total.Add(diff.Mul(decimal.NewFromInt(x.Quantity)))
	}
	return total.InexactFloat64()
}

// HoldingDays is the number of calendar days between the first entry and the
// last exit, or 0 if either date is missing.
func HoldingDays(t *domain.Trade) int {
	if t.FirstEntryDate == nil || t.LastExitDate == nil {
		return 0
	}
	return int(t.LastExitDate.Sub(*t.FirstEntryDate).Hours() / 24)
}

// IsWin reports whether the trade's full-ledger P&L is positive. Only Closed
// trades are classified for statistics purposes.
func IsWin(t *domain.Trade) bool {
	return RealizedPnL(t) > 0
}
