package place_bet

import (
	"context"
	"errors"
	"net/http"

	"go-crashout/internal/game"
	resp "go-crashout/internal/lib/api/response"
	"go-crashout/internal/lib/logger/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"golang.org/x/exp/slog"
)

type Request struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type Response struct {
	resp.Response
}

type BetPlacer interface {
	PlaceBet(ctx context.Context, amount float64) error
}

type Bet struct {
	log       *slog.Logger
	validator *validator.Validate
	engine    BetPlacer
}

func NewBet(log *slog.Logger, engine BetPlacer) *Bet {
	return &Bet{
		log:       log,
		validator: validator.New(),
		engine:    engine,
	}
}

func (b *Bet) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.crash.bet.place.New"

		log := b.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to decode request body", http.StatusBadRequest))

			return
		}

		log.Info("request body decoded", slog.Any("request", req))

		if err = b.validator.Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))

			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		if err = b.engine.PlaceBet(r.Context(), req.Amount); err != nil {
			log.Info("bet rejected", sl.Err(err))

			render.JSON(w, r, resp.Error(err.Error(), rejectionStatus(err)))

			return
		}

		log.Info("bet placed", slog.Float64("amount", req.Amount))

		render.JSON(w, r, Response{Response: resp.OK()})
	}
}

func rejectionStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrInvalidAmount),
		errors.Is(err, game.ErrInsufficientFunds):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrBettingClosed),
		errors.Is(err, game.ErrBetAlreadyPlaced),
		errors.Is(err, game.ErrBetProcessing):
		return http.StatusConflict
	case errors.Is(err, game.ErrEngineStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
