package history

import (
	"net/http"

	"go-crashout/internal/game"
	resp "go-crashout/internal/lib/api/response"

	"github.com/go-chi/render"
	"golang.org/x/exp/slog"
)

type Response struct {
	resp.Response
	History []game.Outcome `json:"history"`
}

type HistoryProvider interface {
	History() []game.Outcome
}

type History struct {
	log    *slog.Logger
	engine HistoryProvider
}

func NewHistory(log *slog.Logger, engine HistoryProvider) *History {
	return &History{
		log:    log,
		engine: engine,
	}
}

func (h *History) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, Response{
			Response: resp.OK(),
			History:  h.engine.History(),
		})
	}
}
