// Package risk sizes positions from the distance between the planned entry
// and the stop level.
package risk

import (
	"tradejournal/internal/ports"
)

// riskLevels are the capital fractions the ladder is computed at.
var riskLevels = []float64{0.05, 0.04, 0.03, 0.02, 0.01}

// Level is one rung of the position-size ladder.
type Level struct {
	RiskPct    float64 `json:"risk_pct"`    // Percent of capital risked
	RiskAmount float64 `json:"risk_amount"` // Absolute amount risked
	Quantity   int64   `json:"quantity"`    // Units buyable at that risk
}

// Result holds the sizing ladder for one trade setup.
type Result struct {
	Investment   float64 `json:"investment"`
	CurrentPrice float64 `json:"current_price"`
	StopPrice    float64 `json:"stop_price"`
	RiskPerShare float64 `json:"risk_per_share"`
	Levels       []Level `json:"levels"`
}

// Calculate derives the risk-per-share and the quantity affordable at 5, 4,
// 3, 2 and 1 percent of capital. The stop must sit below the current price.
func Calculate(investment, currentPrice, stopPrice float64) (*Result, error) {
	if investment <= 0 || currentPrice <= 0 || stopPrice <= 0 {
		return nil, ports.ErrInvalidPrice
	}
	riskPerShare := currentPrice - stopPrice
	if riskPerShare <= 0 {
		return nil, ports.ErrInvalidPrice
	}

	res := &Result{
		Investment:   investment,
		CurrentPrice: currentPrice,
		StopPrice:    stopPrice,
		RiskPerShare: riskPerShare,
		Levels:       make([]Level, 0, len(riskLevels)),
	}
	for _, pct := range riskLevels {
		amount := investment * pct
		res.Levels = append(res.Levels, Level{
			RiskPct:    pct * 100,
			RiskAmount: amount,
			Quantity:   int64(amount / riskPerShare),
		})
	}
	return res, nil
}
