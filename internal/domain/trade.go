package domain

import (
	"sort"
	"time"
)

// Trade represents one round-trip (or in-progress) position in one instrument,
// owned by a single user. It holds the ordered ledger of buy and sell events
// from which status, dates and P&L are derived.
type Trade struct {
	ID             int64       // Unique identifier (usually from DB)
	UserID         int64       // Owning user
	Symbol         string      // Instrument symbol, normalized to uppercase
	Status         TradeStatus // Derived: Closed iff bought == sold and bought > 0
	Journal        string      // Free-text journal / strategy tag
	CreatedAt      time.Time   // Timestamp when the trade record was created
	FirstEntryDate *time.Time  // Earliest entry date (nil until first entry recorded)
	LastExitDate   *time.Time  // Latest exit date (nil while the trade is open)

	Entries []*Entry // Buy events, ordered by date then insertion order
	Exits   []*Exit  // Sell events, ordered by date then insertion order
}

// Entry is a recorded buy event against a trade.
type Entry struct {
	ID       int64
	TradeID  int64
	Quantity int64     // Positive number of units bought
	Price    float64   // Positive price per unit
	Date     time.Time // Calendar date of the buy
	Note     string
}

// Exit is a recorded sell event against a trade.
type Exit struct {
	ID       int64
	TradeID  int64
	Quantity int64
	Price    float64
	Date     time.Time
	Note     string
}

// BoughtQty returns the total quantity bought across all entries.
func (t *Trade) BoughtQty() int64 {
	var total int64
	for _, e := range t.Entries {
		total += e.Quantity
	}
	return total
}

// SoldQty returns the total quantity sold across all exits.
func (t *Trade) SoldQty() int64 {
	var total int64
	for _, x := range t.Exits {
		total += x.Quantity
	}
	return total
}

// RemainingQty returns the quantity still held.
func (t *Trade) RemainingQty() int64 {
	return t.BoughtQty() - t.SoldQty()
}

// IsClosed reports whether the trade satisfies the closed invariant.
func (t *Trade) IsClosed() bool {
	bought := t.BoughtQty()
	return bought > 0 && bought == t.SoldQty()
}

// Recompute re-derives status, first-entry date and last-exit date from the
// ledger. It must be called after every mutation of entries or exits; a
// mutation that breaks the closed invariant reopens the trade.
func (t *Trade) Recompute() {
	t.sortLedger()

	if t.IsClosed() {
		t.Status = StatusClosed
	} else {
		t.Status = StatusOpen
	}

	t.FirstEntryDate = nil
	for _, e := range t.Entries {
		if t.FirstEntryDate == nil || e.Date.Before(*t.FirstEntryDate) {
			d := e.Date
			t.FirstEntryDate = &d
		}
	}

	t.LastExitDate = nil
	if t.Status == StatusClosed {
		for _, x := range t.Exits {
			if t.LastExitDate == nil || x.Date.After(*t.LastExitDate) {
				d := x.Date
				t.LastExitDate = &d
			}
		}
	}
}

// sortLedger orders entries and exits by event date, breaking ties by
// insertion order (id).
func (t *Trade) sortLedger() {
	sort.SliceStable(t.Entries, func(i, j int) bool {
		if !t.Entries[i].Date.Equal(t.Entries[j].Date) {
			return t.Entries[i].Date.Before(t.Entries[j].Date)
		}
		return t.Entries[i].ID < t.Entries[j].ID
	})
	sort.SliceStable(t.Exits, func(i, j int) bool {
		if !t.Exits[i].Date.Equal(t.Exits[j].Date) {
			return t.Exits[i].Date.Before(t.Exits[j].Date)
		}
		return t.Exits[i].ID < t.Exits[j].ID
	})
}

// FindEntry returns the entry with the given id, or nil.
func (t *Trade) FindEntry(id int64) *Entry {
	for _, e := range t.Entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// FindExit returns the exit with the given id, or nil.
func (t *Trade) FindExit(id int64) *Exit {
	for _, x := range t.Exits {
		if x.ID == id {
			return x
		}
	}
	return nil
}

// RemoveEntry deletes the entry with the given id from the in-memory ledger.
func (t *Trade) RemoveEntry(id int64) {
	for i, e := range t.Entries {
		if e.ID == id {
			t.Entries = append(t.Entries[:i], t.Entries[i+1:]...)
			return
		}
	}
}

// RemoveExit deletes the exit with the given id from the in-memory ledger.
func (t *Trade) RemoveExit(id int64) {
	for i, x := range t.Exits {
		if x.ID == id {
			t.Exits = append(t.Exits[:i], t.Exits[i+1:]...)
			return
		}
	}
}
