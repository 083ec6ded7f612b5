package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	Session    Session    `yaml:"session"`
	HTTPServer HTTPServer `yaml:"http_server"`
	WSServer   WSServer   `yaml:"ws_server"`
	MySQL      MySQL      `yaml:"mysql"`
	Oracle     Oracle     `yaml:"oracle"`
	Crash      Crash      `yaml:"crash"`
	Pusher     Pusher     `yaml:"pusher"`
}

// Session identifies the player whose cumulative stats this table updates.
// An empty key disables stats persistence.
type Session struct {
	PlayerKey string `yaml:"player_key" env:"PLAYER_KEY"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type WSServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8081"`
	PublishURL  string        `yaml:"publish_url" env-default:"ws://localhost:8081/ws"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type MySQL struct {
	Enabled bool   `yaml:"enabled" env:"MYSQL_ENABLED" env-default:"false"`
	DSN     string `yaml:"dsn" env:"MYSQL_DSN"`
}

type Oracle struct {
	URL     string        `yaml:"url" env:"ORACLE_URL"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

type Pusher struct {
	Enabled bool   `yaml:"enabled" env-default:"false"`
	AppID   string `yaml:"app_id" env:"PUSHER_APP_ID"`
	Key     string `yaml:"key" env:"PUSHER_KEY"`
	Secret  string `yaml:"secret" env:"PUSHER_SECRET"`
	Cluster string `yaml:"cluster" env-default:"eu"`
}

// Crash holds the round lifecycle tuning for one table.
type Crash struct {
	BettingSeconds  int           `yaml:"betting_seconds" env-default:"7"`
	CrashPause      time.Duration `yaml:"crash_pause" env-default:"1s"`
	EndPause        time.Duration `yaml:"end_pause" env-default:"3s"`
	TickInterval    time.Duration `yaml:"tick_interval" env-default:"100ms"`
	OracleTimeout   time.Duration `yaml:"oracle_timeout" env-default:"5s"`
	FallbackMin     float64       `yaml:"fallback_min" env-default:"1.1"`
	FallbackSpan    float64       `yaml:"fallback_span" env-default:"9.0"`
	StartingBalance float64       `yaml:"starting_balance" env-default:"10.00"`
	HistorySize     int           `yaml:"history_size" env-default:"20"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/local.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return &cfg
}
