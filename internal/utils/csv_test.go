package utils

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/internal/domain"
)

func TestWriteTradeHistoryCSV(t *testing.T) {
	d1 := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)

	closed := &domain.Trade{ID: 1, UserID: 1, Symbol: "TCS", Journal: "Breakout"}
	closed.Entries = []*domain.Entry{{ID: 1, Quantity: 10, Price: 100, Date: d1}}
	closed.Exits = []*domain.Exit{{ID: 1, Quantity: 10, Price: 120, Date: d2}}
	closed.Recompute()

	open := &domain.Trade{ID: 2, UserID: 1, Symbol: "INFY"}
	open.Entries = []*domain.Entry{{ID: 2, Quantity: 5, Price: 50, Date: d1}}
	open.Recompute()

	var buf bytes.Buffer
	require.NoError(t, WriteTradeHistoryCSV(&buf, []*domain.Trade{closed, open}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	// Header plus the closed trade only.
	require.Len(t, rows, 2)
	assert.Equal(t, "symbol", rows[0][0])
	assert.Equal(t, []string{"TCS", "10", "10", "100", "120", "200", "2025-01-06", "2025-01-20", "14", "Breakout"}, rows[1])
}
