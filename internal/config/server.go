package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// PostgresDSN is optional; without it the high-score board stays
	// in memory and session summaries are not persisted.
	PostgresDSN string `env:"POSTGRES_DSN"`

	HighScoreLimit int `env:"HIGH_SCORE_LIMIT" envDefault:"20"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
