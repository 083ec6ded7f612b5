package cash_out

import (
	"context"
	"errors"
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
}

type CashOuter interface {
	CashOut(ctx context.Context) error
}

type CashOut struct {
	log    *slog.Logger
	engine CashOuter
}

func NewCashOut(log *slog.Logger, engine CashOuter) *CashOut {
	return &CashOut{
		log:    log,
		engine: engine,
	}
}

func (c *CashOut) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.crash.cashout.New"

		log := c.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if err := c.engine.CashOut(r.Context()); err != nil {
			log.Info("cash-out rejected", sl.Err(err))

			render.JSON(w, r, resp.Error(err.Error(), rejectionStatus(err)))

			return
		}

		log.Info("cash-out accepted")

		render.JSON(w, r, Response{Response: resp.OK()})
	}
}

func rejectionStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrRoundNotRunning),
		errors.Is(err, game.ErrNoActiveBet),
		errors.Is(err, game.ErrCashOutProcessing),
		errors.Is(err, game.ErrAlreadyCashedOut):
		return http.StatusConflict
	case errors.Is(err, game.ErrEngineStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
