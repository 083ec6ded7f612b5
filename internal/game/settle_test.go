package game

import (
	"math"
	"testing"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestSettle(t *testing.T) {
	cases := []struct {
		name          string
		bet           *Bet
		crashPoint    float64
		wantProfit    float64
		wantPayout    float64
		wantCashedOut bool
	}{
		{
			name:          "CashedOutBeforeCrash",
			bet:           &Bet{Amount: 2.00, CashedOutAt: floatPtr(2.50)},
			crashPoint:    4.00,
			wantProfit:    3.00,
			wantPayout:    5.00,
			wantCashedOut: true,
		},
		{
			name:       "HeldThroughCrash",
			bet:        &Bet{Amount: 2.00},
			crashPoint: 1.50,
			wantProfit: -2.00,
		},
		{
			name:          "CashedOutExactlyAtCrashPoint",
			bet:           &Bet{Amount: 1.00, CashedOutAt: floatPtr(3.00)},
			crashPoint:    3.00,
			wantProfit:    2.00,
			wantPayout:    3.00,
			wantCashedOut: true,
		},
		{
			name:       "CashOutRecordedAboveCrashPoint",
			bet:        &Bet{Amount: 1.00, CashedOutAt: floatPtr(3.01)},
			crashPoint: 3.00,
			wantProfit: -1.00,
		},
		{
			name:          "PayoutRoundedToCents",
			bet:           &Bet{Amount: 0.10, CashedOutAt: floatPtr(1.23)},
			crashPoint:    2.00,
			wantProfit:    0.02,
			wantPayout:    0.12,
			wantCashedOut: true,
		},
		{
			name:       "NoBet",
			crashPoint: 5.00,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Settle(tc.bet, tc.crashPoint)

			if math.Abs(got.Profit-tc.wantProfit) > 1e-9 {
				t.Errorf("unexpected profit, want: %v, got: %v", tc.wantProfit, got.Profit)
			}
			if math.Abs(got.Payout-tc.wantPayout) > 1e-9 {
				t.Errorf("unexpected payout, want: %v, got: %v", tc.wantPayout, got.Payout)
			}
			if got.CashedOut != tc.wantCashedOut {
				t.Errorf("unexpected cashed-out flag, want: %v, got: %v", tc.wantCashedOut, got.CashedOut)
			}
		})
	}
}
