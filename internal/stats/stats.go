package stats

import (
	"context"
	"time"
)

// PlayerStats is the cumulative aggregate for one player. NetProfit and
// AvgCashoutMultiplier are always derived from the totals, never incremented.
type PlayerStats struct {
	GamesPlayed                   int64     `json:"games_played"`
	TotalWagered                  float64   `json:"total_wagered"`
	TotalWon                      float64   `json:"total_won"`
	NetProfit                     float64   `json:"net_profit"`
	SuccessfulCashouts            int64     `json:"successful_cashouts"`
	TotalCashedOutMultiplierValue float64   `json:"total_cashed_out_multiplier_value"`
	AvgCashoutMultiplier          float64   `json:"avg_cashout_multiplier"`
	LastPlayed                    time.Time `json:"last_played"`
}

// RoundResult is what one settled round contributes to the aggregate.
type RoundResult struct {
	Wagered     float64
	Payout      float64
	CashedOut   bool
	CashedOutAt float64
	PlayedAt    time.Time
}

// Apply folds one round into the aggregate.
func Apply(s PlayerStats, r RoundResult) PlayerStats {
	s.GamesPlayed++
	s.TotalWagered += r.Wagered

	if r.CashedOut {
		s.TotalWon += r.Payout
		s.SuccessfulCashouts++
		s.TotalCashedOutMultiplierValue += r.CashedOutAt
	}

	s.NetProfit = s.TotalWon - s.TotalWagered

	if s.SuccessfulCashouts > 0 {
		s.AvgCashoutMultiplier = s.TotalCashedOutMultiplierValue / float64(s.SuccessfulCashouts)
	} else {
		s.AvgCashoutMultiplier = 0
	}

	s.LastPlayed = r.PlayedAt

	return s
}

// Store persists player aggregates keyed by player identity. Transact must
// apply fn atomically: concurrent tables updating the same player must not
// lose updates.
type Store interface {
	Get(ctx context.Context, key string) (*PlayerStats, error)
	Transact(ctx context.Context, key string, fn func(PlayerStats) PlayerStats) (*PlayerStats, error)
}
