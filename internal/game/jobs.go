package game

import (
	"context"
	"time"

	"go-crashout/internal/lib/logger/sl"
	"go-crashout/internal/stats"

	"golang.org/x/exp/slog"
)

const statsUpdateTimeout = 5 * time.Second

// statsUpdateJob applies one settled round to the player aggregate off the
// engine loop. A store failure is telemetry, never a lifecycle blocker.
type statsUpdateJob struct {
	log    *slog.Logger
	store  stats.Store
	key    string
	result stats.RoundResult
}

func (j *statsUpdateJob) Execute() {
	const op = "game.statsUpdateJob.Execute"

	log := j.log.With(
		slog.String("op", op),
		slog.String("player_key", j.key),
	)

	ctx, cancel := context.WithTimeout(context.Background(), statsUpdateTimeout)
	defer cancel()

	updated, err := j.store.Transact(ctx, j.key, func(current stats.PlayerStats) stats.PlayerStats {
		return stats.Apply(current, j.result)
	})
	if err != nil {
		log.Warn("failed to update player stats", sl.Err(err))

		return
	}

	log.Info("player stats updated",
		slog.Int64("games_played", updated.GamesPlayed),
		slog.Float64("net_profit", updated.NetProfit))
}
