package main

import (
	"net/http"

	"go-crashout/internal/config"
	"go-crashout/internal/lib/logger"
	"go-crashout/internal/lib/logger/sl"
	"go-crashout/internal/ws/handler"

	"golang.org/x/exp/slog"
)

func main() {
	cfg := config.MustLoad()

	log := logger.Setup(cfg.Env)

	log.Info("starting ws hub", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	hub := handler.NewHub(log)
	hub.RunServer()

	http.HandleFunc("/ws", hub.HandleConnection)

	log.Info("server started", slog.String("address", cfg.WSServer.Address))

	srv := &http.Server{
		Addr:         cfg.WSServer.Address,
		ReadTimeout:  cfg.WSServer.Timeout,
		WriteTimeout: cfg.WSServer.Timeout,
		IdleTimeout:  cfg.WSServer.IdleTimeout,
	}

	if err := srv.ListenAndServe(); err != nil {
		log.Error("server failed", sl.Err(err))
	}
}
