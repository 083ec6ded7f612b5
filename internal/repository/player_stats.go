package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go-crashout/internal/lib/converter"
	"go-crashout/internal/repository/mysql"
	"go-crashout/internal/stats"
)

const defaultTransactRetries = 3

// ErrVersionConflict is returned when every optimistic update attempt lost the
// race against a concurrent writer.
var ErrVersionConflict = errors.New("player stats version conflict")

// PlayerStatsRepository implements stats.Store on MySQL. Updates use an
// optimistic version check so concurrent tables updating one player record
// never lose increments. Money columns are integer cents.
type PlayerStatsRepository struct {
	dbhandler mysql.Handler
	retries   int
}

func NewPlayerStatsRepository(dbhandler mysql.Handler) *PlayerStatsRepository {
	return &PlayerStatsRepository{
		dbhandler: dbhandler,
		retries:   defaultTransactRetries,
	}
}

type playerStatsRow struct {
	stats   stats.PlayerStats
	version int64
	exists  bool
}

func (repo *PlayerStatsRepository) Get(ctx context.Context, key string) (*stats.PlayerStats, error) {
	const op = "repository.player_stats.Get"

	row, err := repo.fetch(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !row.exists {
		return nil, nil
	}

	record := row.stats

	return &record, nil
}

func (repo *PlayerStatsRepository) Transact(
	ctx context.Context,
	key string,
	fn func(stats.PlayerStats) stats.PlayerStats,
) (*stats.PlayerStats, error) {
	const op = "repository.player_stats.Transact"

	var lastErr error

	for attempt := 0; attempt < repo.retries; attempt++ {
		row, err := repo.fetch(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		updated := fn(row.stats)

		if !row.exists {
			if err = repo.insert(ctx, key, updated); err != nil {
				// another writer inserted first, reread and retry
				lastErr = err

				continue
			}

			return &updated, nil
		}

		ok, err := repo.update(ctx, key, updated, row.version)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if ok {
			return &updated, nil
		}

		lastErr = ErrVersionConflict
	}

	return nil, fmt.Errorf("%s: retries exhausted: %w", op, lastErr)
}

func (repo *PlayerStatsRepository) fetch(ctx context.Context, key string) (playerStatsRow, error) {
	const query = "SELECT games_played, total_wagered, total_won, successful_cashouts, " +
		"total_cashed_out_multiplier_value, last_played, version " +
		"FROM player_stats WHERE player_key = ?"

	row, err := repo.dbhandler.PrepareAndQueryRow(ctx, query, key)
	if err != nil {
		return playerStatsRow{}, err
	}

	var (
		result       playerStatsRow
		wageredCents int64
		wonCents     int64
	)

	err = row.Scan(
		&result.stats.GamesPlayed,
		&wageredCents,
		&wonCents,
		&result.stats.SuccessfulCashouts,
		&result.stats.TotalCashedOutMultiplierValue,
		&result.stats.LastPlayed,
		&result.version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return playerStatsRow{}, nil
		}

		return playerStatsRow{}, err
	}

	result.exists = true
	result.stats.TotalWagered = converter.ConvertAmountIntToFloat(wageredCents)
	result.stats.TotalWon = converter.ConvertAmountIntToFloat(wonCents)
	result.stats.NetProfit = result.stats.TotalWon - result.stats.TotalWagered

	if result.stats.SuccessfulCashouts > 0 {
		result.stats.AvgCashoutMultiplier =
			result.stats.TotalCashedOutMultiplierValue / float64(result.stats.SuccessfulCashouts)
	}

	return result, nil
}

func (repo *PlayerStatsRepository) insert(ctx context.Context, key string, record stats.PlayerStats) error {
	const query = "INSERT INTO player_stats(player_key, games_played, total_wagered, total_won, " +
		"successful_cashouts, total_cashed_out_multiplier_value, last_played, version) " +
		"VALUES(?, ?, ?, ?, ?, ?, ?, 1)"

	_, err := repo.dbhandler.PrepareAndExecute(ctx, query,
		key,
		record.GamesPlayed,
		converter.ConvertAmountFloatToInt(record.TotalWagered),
		converter.ConvertAmountFloatToInt(record.TotalWon),
		record.SuccessfulCashouts,
		record.TotalCashedOutMultiplierValue,
		record.LastPlayed,
	)

	return err
}

func (repo *PlayerStatsRepository) update(
	ctx context.Context,
	key string,
	record stats.PlayerStats,
	version int64,
) (bool, error) {
	const query = "UPDATE player_stats SET games_played = ?, total_wagered = ?, total_won = ?, " +
		"successful_cashouts = ?, total_cashed_out_multiplier_value = ?, last_played = ?, " +
		"version = version + 1 WHERE player_key = ? AND version = ?"

	result, err := repo.dbhandler.PrepareAndExecute(ctx, query,
		record.GamesPlayed,
		converter.ConvertAmountFloatToInt(record.TotalWagered),
		converter.ConvertAmountFloatToInt(record.TotalWon),
		record.SuccessfulCashouts,
		record.TotalCashedOutMultiplierValue,
		record.LastPlayed,
		key,
		version,
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}
