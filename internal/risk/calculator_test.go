package risk

import (
	"errors"
	"testing"

	"tradejournal/internal/ports"
)

func TestCalculate(t *testing.T) {
	res, err := Calculate(100000, 500, 480)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.RiskPerShare != 20 {
		t.Errorf("expected risk per share 20, got %f", res.RiskPerShare)
	}
	if len(res.Levels) != 5 {
		t.Fatalf("expected 5 levels, got %d", len(res.Levels))
	}

	// 5% of 100000 = 5000 risked; 5000 / 20 = 250 units.
	if res.Levels[0].RiskPct != 5 || res.Levels[0].Quantity != 250 {
		t.Errorf("unexpected first level: %+v", res.Levels[0])
	}
	// 1% of 100000 = 1000 risked; 1000 / 20 = 50 units.
	if res.Levels[4].RiskPct != 1 || res.Levels[4].Quantity != 50 {
		t.Errorf("unexpected last level: %+v", res.Levels[4])
	}
}

func TestCalculateRejectsBadInputs(t *testing.T) {
	cases := []struct {
		name                                string
		investment, currentPrice, stopPrice float64
	}{
		{"zero investment", 0, 500, 480},
		{"negative price", 100000, -1, 480},
		{"zero stop", 100000, 500, 0},
		{"stop above price", 100000, 480, 500},
		{"stop equals price", 100000, 500, 500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Calculate(tc.investment, tc.currentPrice, tc.stopPrice); !errors.Is(err, ports.ErrInvalidPrice) {
				t.Errorf("expected ErrInvalidPrice, got %v", err)
			}
		})
	}
}
