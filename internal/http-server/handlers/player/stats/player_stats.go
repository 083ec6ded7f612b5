package player_stats

import (
	"net/http"
	"time"

	resp "go-crashout/internal/lib/api/response"
	"go-crashout/internal/lib/logger/sl"
	"go-crashout/internal/stats"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/patrickmn/go-cache"
	"golang.org/x/exp/slog"
)

const (
	cacheTTL     = 30 * time.Second
	cacheCleanup = 5 * time.Minute
)

type Response struct {
	resp.Response
	Stats *stats.PlayerStats `json:"stats,omitempty"`
}

type Stats struct {
	log       *slog.Logger
	store     stats.Store
	playerKey string
	cache     *cache.Cache
}

func NewStats(log *slog.Logger, store stats.Store, playerKey string) *Stats {
	return &Stats{
		log:       log,
		store:     store,
		playerKey: playerKey,
		cache:     cache.New(cacheTTL, cacheCleanup),
	}
}

func (s *Stats) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.player.stats.New"

		log := s.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if cached, found := s.cache.Get(s.playerKey); found {
			render.JSON(w, r, Response{
				Response: resp.OK(),
				Stats:    cached.(*stats.PlayerStats),
			})

			return
		}

		record, err := s.store.Get(r.Context(), s.playerKey)
		if err != nil {
			log.Error("failed to get player stats", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to get player stats", http.StatusInternalServerError))

			return
		}

		if record != nil {
			s.cache.Set(s.playerKey, record, cache.DefaultExpiration)
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Stats:    record,
		})
	}
}
