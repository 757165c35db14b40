package pnl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tradejournal/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTrade(entries []*domain.Entry, exits []*domain.Exit) *domain.Trade {
	t := &domain.Trade{ID: 1, UserID: 1, Symbol: "RELIANCE", Status: domain.StatusOpen}
	t.Entries = entries
	t.Exits = exits
	t.Recompute()
	return t
}

func TestFullyMatchedTrade(t *testing.T) {
	tr := newTrade(
		[]*domain.Entry{{ID: 1, Quantity: 10, Price: 100, Date: day(2025, 1, 6)}},
		[]*domain.Exit{{ID: 1, Quantity: 10, Price: 120, Date: day(2025, 1, 20)}},
	)

	assert.Equal(t, domain.StatusClosed, tr.Status)
	assert.Equal(t, 200.0, RealizedPnL(tr))
	assert.Equal(t, 100.0, AverageEntryPrice(tr))
	assert.Equal(t, 120.0, AverageExitPrice(tr))
	assert.Equal(t, 14, HoldingDays(tr))
	assert.True(t, IsWin(tr))
}

func TestPartialExit(t *testing.T) {
	tr := newTrade(
		[]*domain.Entry{{ID: 1, Quantity: 10, Price: 100, Date: day(2025, 2, 3)}},
		[]*domain.Exit{{ID: 1, Quantity: 4, Price: 110, Date: day(2025, 2, 10)}},
	)

	assert.Equal(t, domain.StatusOpen, tr.Status)
	assert.Equal(t, int64(6), tr.RemainingQty())
	// Weighted-average-cost profit on the exited quantity: 4 * (110 - 100).
	assert.Equal(t, 40.0, ExitedPnL(tr))
	// Full-ledger subtraction is a different number while the trade is open.
	assert.Equal(t, -560.0, RealizedPnL(tr))
	// Holding days needs both dates; the trade is still open.
	assert.Equal(t, 0, HoldingDays(tr))
}

func TestFormulasCoincideWhenClosed(t *testing.T) {
	tr := newTrade(
		[]*domain.Entry{
			{ID: 1, Quantity: 6, Price: 95.5, Date: day(2025, 3, 3)},
			{ID: 2, Quantity: 4, Price: 102.25, Date: day(2025, 3, 5)},
		},
		[]*domain.Exit{
			{ID: 1, Quantity: 5, Price: 110, Date: day(2025, 3, 12)},
			{ID: 2, Quantity: 5, Price: 104.4, Date: day(2025, 3, 19)},
		},
	)

	assert.Equal(t, domain.StatusClosed, tr.Status)
	assert.InDelta(t, RealizedPnL(tr), ExitedPnL(tr), 1e-9)
}

func TestEmptyLedgerYieldsZeros(t *testing.T) {
	tr := newTrade(nil, nil)

	assert.Equal(t, 0.0, AverageEntryPrice(tr))
	assert.Equal(t, 0.0, AverageExitPrice(tr))
	assert.Equal(t, 0.0, RealizedPnL(tr))
	assert.Equal(t, 0.0, ExitedPnL(tr))
	assert.Equal(t, 0, HoldingDays(tr))
	assert.False(t, IsWin(tr))
}

func TestRealizedPnLIsPure(t *testing.T) {
	tr := newTrade(
		[]*domain.Entry{{ID: 1, Quantity: 7, Price: 33.33, Date: day(2025, 4, 1)}},
		[]*domain.Exit{{ID: 1, Quantity: 7, Price: 35.1, Date: day(2025, 4, 9)}},
	)

	first := RealizedPnL(tr)
	second := RealizedPnL(tr)
	assert.Equal(t, first, second)
}

func TestDeleteAndReAddEntryRestoresAverage(t *testing.T) {
	tr := newTrade(
		[]*domain.Entry{
			{ID: 1, Quantity: 10, Price: 100, Date: day(2025, 5, 5)},
			{ID: 2, Quantity: 5, Price: 90, Date: day(2025, 5, 6)},
		},
		nil,
	)
	before := AverageEntryPrice(tr)

	tr.RemoveEntry(2)
	tr.Recompute()
	assert.NotEqual(t, before, AverageEntryPrice(tr))

	tr.Entries = append(tr.Entries, &domain.Entry{ID: 3, Quantity: 5, Price: 90, Date: day(2025, 5, 6)})
	tr.Recompute()
	assert.Equal(t, before, AverageEntryPrice(tr))
}

func TestExactDecimalSums(t *testing.T) {
	// 0.1 + 0.2 style inputs must not drift.
	tr := newTrade(
		[]*domain.Entry{
			{ID: 1, Quantity: 1, Price: 0.1, Date: day(2025, 6, 2)},
			{ID: 2, Quantity: 1, Price: 0.2, Date: day(2025, 6, 2)},
		},
		[]*domain.Exit{{ID: 1, Quantity: 2, Price: 0.2, Date: day(2025, 6, 3)}},
	)

	assert.Equal(t, 0.1, RealizedPnL(tr))
	assert.Equal(t, 0.15, AverageEntryPrice(tr))
}
