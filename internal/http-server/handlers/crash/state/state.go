package state

import (
	"context"
	"net/http"

	"go-crashout/internal/game"
	resp "go-crashout/internal/lib/api/response"
	"go-crashout/internal/lib/logger/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"golang.org/x/exp/slog"
)

type Response struct {
	resp.Response
	State game.Snapshot `json:"state"`
}

type SnapshotProvider interface {
	Snapshot(ctx context.Context) (game.Snapshot, error)
}

type State struct {
	log    *slog.Logger
	engine SnapshotProvider
}

func NewState(log *slog.Logger, engine SnapshotProvider) *State {
	return &State{
		log:    log,
		engine: engine,
	}
}

func (s *State) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.crash.state.New"

		log := s.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		snapshot, err := s.engine.Snapshot(r.Context())
		if err != nil {
			log.Error("failed to snapshot table", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to snapshot table", http.StatusServiceUnavailable))

			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			State:    snapshot,
		})
	}
}
