// Package stats folds a user's trade set into portfolio-level statistics.
// Computation is a pure read over a snapshot of trades; callers cache the
// result and invalidate it when the ledger changes.
package stats

import (
	"sort"
	"time"

	"tradejournal/internal/domain"
	"tradejournal/internal/pnl"
	"tradejournal/internal/utils"
)

// EquityPoint is one step of the cumulative P&L curve.
type EquityPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// StockStat is a per-symbol rollup over closed trades.
type StockStat struct {
	Symbol string  `json:"symbol"`
	Count  int     `json:"count"`
	PnL    float64 `json:"pnl"`
}

// Bucket is P&L summed over one day, week or month.
type Bucket struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	PnL   float64   `json:"pnl"`
}

// Snapshot holds every derived portfolio metric for one (user, filter) pair.
type Snapshot struct {
	RealizedPnL  float64 `json:"realized_pnl"`
	OpenTrades   int     `json:"open_trades"`
	ClosedTrades int     `json:"closed_trades"`

	WinRate      float64 `json:"win_rate"`
	Expectancy   float64 `json:"expectancy"`
	ProfitFactor float64 `json:"profit_factor"`

	AvgWinHoldDays  float64 `json:"avg_win_hold_days"`
	AvgLossHoldDays float64 `json:"avg_loss_hold_days"`
	AvgWin          float64 `json:"avg_win"`
	AvgLoss         float64 `json:"avg_loss"`

	WinStreak  int `json:"win_streak"`
	LossStreak int `json:"loss_streak"`

	AvgDailyVolume  float64 `json:"avg_daily_volume"`
	AvgPositionSize float64 `json:"avg_position_size"`

	MaxDrawdown float64       `json:"max_drawdown"`
	EquityCurve []EquityPoint `json:"equity_curve"`

	MostTraded     []StockStat `json:"most_traded"`
	MostProfitable []StockStat `json:"most_profitable"`

	DailyPnL   []Bucket `json:"daily_pnl"`   // last 10 trading days with closed P&L
	WeeklyPnL  []Bucket `json:"weekly_pnl"`  // last 10 ISO weeks (Monday start)
	MonthlyPnL []Bucket `json:"monthly_pnl"` // last 12 calendar months

	ComputedAt time.Time `json:"computed_at"`
}

const (
	dailyBuckets   = 10
	weeklyBuckets  = 10
	monthlyBuckets = 12
)

// Compute derives a snapshot from the given trades after applying the filter.
// Trades must carry their full ledgers; iteration order is the caller's
// natural (insertion) order, which fixes streak counting. stockLimit caps the
// per-symbol rollup lists.
func Compute(trades []*domain.Trade, f Filter, today time.Time, stockLimit int) *Snapshot {
	trades = f.Apply(trades, today)

	snap := &Snapshot{ComputedAt: time.Now()}

	var closed, wins, losses []*domain.Trade
	for _, t := range trades {
		if t.Status == domain.StatusClosed {
			closed = append(closed, t)
			if pnl.IsWin(t) {
				wins = append(wins, t)
			} else {
				losses = append(losses, t)
			}
		} else {
			snap.OpenTrades++
		}
	}
	snap.ClosedTrades = len(closed)

	var realized float64
	for _, t := range closed {
		realized += pnl.RealizedPnL(t)
	}
	snap.RealizedPnL = utils.Round2(realized)

	if len(closed) > 0 {
		snap.WinRate = utils.Round2(float64(len(wins)) / float64(len(closed)) * 100)
		snap.Expectancy = utils.Round2(realized / float64(len(closed)))
	}

	var grossProfit, grossLoss float64
	for _, t := range wins {
		grossProfit += pnl.RealizedPnL(t)
	}
	for _, t := range losses {
		grossLoss += pnl.RealizedPnL(t)
	}
	if grossLoss != 0 {
		snap.ProfitFactor = utils.Round2(grossProfit / -grossLoss)
	}

	snap.AvgWinHoldDays = avgHold(wins)
	snap.AvgLossHoldDays = avgHold(losses)
	snap.AvgWin = avgPnL(wins)
	snap.AvgLoss = avgPnL(losses)

	snap.WinStreak, snap.LossStreak = streaks(closed)

	var entryQty, entryCount int64
	for _, t := range trades {
		for _, e := range t.Entries {
			entryQty += e.Quantity
			entryCount++
		}
	}
	if len(trades) > 0 {
		snap.AvgDailyVolume = utils.Round1(float64(entryQty) / float64(len(trades)))
	}
	if entryCount > 0 {
		snap.AvgPositionSize = utils.Round1(float64(entryQty) / float64(entryCount))
	}

	snap.EquityCurve, snap.MaxDrawdown = equityCurve(closed)
	snap.MostTraded, snap.MostProfitable = stockRollups(closed, stockLimit)

	snap.DailyPnL = timeBuckets(closed, bucketDaily, dailyBuckets)
	snap.WeeklyPnL = timeBuckets(closed, bucketWeekly, weeklyBuckets)
	snap.MonthlyPnL = timeBuckets(closed, bucketMonthly, monthlyBuckets)

	return snap
}

func avgHold(trades []*domain.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	var days int
	for _, t := range trades {
		days += pnl.HoldingDays(t)
	}
	return utils.Round1(float64(days) / float64(len(trades)))
}

func avgPnL(trades []*domain.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	var total float64
	for _, t := range trades {
		total += pnl.RealizedPnL(t)
	}
	return utils.Round2(total / float64(len(trades)))
}

// streaks returns the longest runs of consecutive wins and losses over closed
// trades in iteration order.
func streaks(closed []*domain.Trade) (winStreak, lossStreak int) {
	current := 0
	var lastWasWin *bool
	for _, t := range closed {
		win := pnl.IsWin(t)
		if lastWasWin != nil && win == *lastWasWin {
			current++
		} else {
			current = 1
		}
		w := win
		lastWasWin = &w
		if win {
			if current > winStreak {
				winStreak = current
			}
		} else if current > lossStreak {
			lossStreak = current
		}
	}
	return winStreak, lossStreak
}

// equityCurve walks closed trades by exit date ascending, accumulating P&L
// and tracking the largest peak-to-trough decline. Trades without an exit
// date are skipped.
func equityCurve(closed []*domain.Trade) ([]EquityPoint, float64) {
	dated := make([]*domain.Trade, 0, len(closed))
	for _, t := range closed {
		if t.LastExitDate != nil {
			dated = append(dated, t)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].LastExitDate.Before(*dated[j].LastExitDate)
	})

	var equity, peak, maxDrawdown float64
	curve := make([]EquityPoint, 0, len(dated))
	for _, t := range dated {
		equity += pnl.RealizedPnL(t)
		if equity > peak {
			peak = equity
		}
		if dd := peak - equity; dd > maxDrawdown {
			maxDrawdown = dd
		}
		curve = append(curve, EquityPoint{Date: *t.LastExitDate, Value: utils.Round2(equity)})
	}
	return curve, utils.Round2(maxDrawdown)
}

// stockRollups aggregates closed trades per uppercase symbol and returns the
// top-N lists by trade count and by total P&L.
func stockRollups(closed []*domain.Trade, limit int) (mostTraded, mostProfitable []StockStat) {
	bySymbol := make(map[string]*StockStat)
	order := make([]string, 0)
	for _, t := range closed {
		sym := t.Symbol
		s, ok := bySymbol[sym]
		if !ok {
			s = &StockStat{Symbol: sym}
			bySymbol[sym] = s
			order = append(order, sym)
		}
		s.Count++
		s.PnL += pnl.RealizedPnL(t)
	}

	all := make([]StockStat, 0, len(order))
	for _, sym := range order {
		s := bySymbol[sym]
		s.PnL = utils.Round2(s.PnL)
		all = append(all, *s)
	}

	mostTraded = append([]StockStat(nil), all...)
	sort.SliceStable(mostTraded, func(i, j int) bool { return mostTraded[i].Count > mostTraded[j].Count })
	if len(mostTraded) > limit {
		mostTraded = mostTraded[:limit]
	}

	mostProfitable = append([]StockStat(nil), all...)
	sort.SliceStable(mostProfitable, func(i, j int) bool { return mostProfitable[i].PnL > mostProfitable[j].PnL })
	if len(mostProfitable) > limit {
		mostProfitable = mostProfitable[:limit]
	}
	return mostTraded, mostProfitable
}

type bucketFunc func(exitDate time.Time) (start time.Time, label string)

func bucketDaily(d time.Time) (time.Time, string) {
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	return start, start.Format("02-Jan-2006")
}

// bucketWeekly keys by the Monday of the exit date's week.
func bucketWeekly(d time.Time) (time.Time, string) {
	weekday := int(d.Weekday()+6) % 7 // Monday = 0
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location()).AddDate(0, 0, -weekday)
	return start, "Week of " + start.Format("02 Jan")
}

func bucketMonthly(d time.Time) (time.Time, string) {
	start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	return start, start.Format("Jan 2006")
}

// timeBuckets sums closed-trade P&L into calendar buckets, orders them
// chronologically and keeps the most recent n. Trades with no exit date or
// zero P&L are skipped.
func timeBuckets(closed []*domain.Trade, key bucketFunc, n int) []Bucket {
	sums := make(map[time.Time]*Bucket)
	for _, t := range closed {
		if t.LastExitDate == nil {
			continue
		}
		p := pnl.RealizedPnL(t)
		if p == 0 {
			continue
		}
		start, label := key(*t.LastExitDate)
		b, ok := sums[start]
		if !ok {
			b = &Bucket{Label: label, Start: start}
			sums[start] = b
		}
		b.PnL += p
	}

	out := make([]Bucket, 0, len(sums))
	for _, b := range sums {
		b.PnL = utils.Round2(b.PnL)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}
