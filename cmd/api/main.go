package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-crashout/internal/config"
	"go-crashout/internal/event"
	"go-crashout/internal/game"
	"go-crashout/internal/http-server/handlers/crash/bet/place"
	"go-crashout/internal/http-server/handlers/crash/cashout"
	"go-crashout/internal/http-server/handlers/crash/history"
	"go-crashout/internal/http-server/handlers/crash/state"
	"go-crashout/internal/http-server/handlers/player/stats"
	mwlogger "go-crashout/internal/http-server/middleware/logger"
	"go-crashout/internal/job"
	"go-crashout/internal/lib/logger"
	"go-crashout/internal/lib/logger/sl"
	"go-crashout/internal/oracle"
	"go-crashout/internal/repository"
	"go-crashout/internal/repository/mysql"
	"go-crashout/internal/stats"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/pusher/pusher-http-go/v5"
	"golang.org/x/exp/slog"
)

const (
	jobQueueSize = 64
	jobWorkers   = 4

	shutdownTimeout = 5 * time.Second
)

func main() {
	cfg := config.MustLoad()

	log := logger.Setup(cfg.Env)

	log.Info("starting crash table api", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	store := setupStore(cfg, log)
	publisher := setupPublisher(cfg, log)

	queue := job.NewQueue(jobQueueSize)
	pool := job.NewWorkerPool(jobWorkers, queue)
	pool.Start()

	predictor := oracle.NewClient(cfg.Oracle.URL, cfg.Oracle.Timeout)

	engine := game.New(log, cfg.Crash, predictor, store, publisher, queue, cfg.Session.PlayerKey)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go engine.Run(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Post("/crash/place-bet", place_bet.NewBet(log, engine).New())
	router.Post("/crash/cash-out", cash_out.NewCashOut(log, engine).New())
	router.Get("/crash/state", state.NewState(log, engine).New())
	router.Get("/crash/history", history.NewHistory(log, engine).New())
	router.Get("/crash/stats", player_stats.NewStats(log, store, cfg.Session.PlayerKey).New())

	log.Info("server started", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", sl.Err(err))

			stop()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shut down server", sl.Err(err))
	}
}

func setupStore(cfg *config.Config, log *slog.Logger) stats.Store {
	if !cfg.MySQL.Enabled {
		log.Info("mysql disabled, keeping player stats in memory")

		return stats.NewMemoryStore()
	}

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	if err = db.Ping(); err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	return repository.NewPlayerStatsRepository(*mysql.New(db))
}

func setupPublisher(cfg *config.Config, log *slog.Logger) event.Publisher {
	if cfg.Pusher.Enabled {
		client := &pusher.Client{
			AppID:   cfg.Pusher.AppID,
			Key:     cfg.Pusher.Key,
			Secret:  cfg.Pusher.Secret,
			Cluster: cfg.Pusher.Cluster,
		}

		return event.NewPusherPublisher(log, client)
	}

	if cfg.WSServer.PublishURL != "" {
		conn, _, err := websocket.DefaultDialer.Dial(cfg.WSServer.PublishURL, nil)
		if err != nil {
			log.Error("failed to connect to ws hub, events disabled", sl.Err(err))

			return event.NopPublisher{}
		}

		return event.NewWSPublisher(log, conn)
	}

	return event.NopPublisher{}
}
