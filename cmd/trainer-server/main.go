package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/quartz"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"blackjack-trainer/internal/config"
	"blackjack-trainer/internal/logging"
	"blackjack-trainer/internal/session"
	"blackjack-trainer/internal/store"
	"blackjack-trainer/internal/training"
	"blackjack-trainer/internal/ws"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	var db *store.DB
	if cfg.Server.PostgresDSN != "" {
		db, err = store.Open(cfg.Server.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("store init failed")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.Ping(ctx); err != nil {
			cancel()
			log.Fatal().Err(err).Msg("db ping failed")
		}
		if err := store.Migrate(ctx, db); err != nil {
			cancel()
			log.Fatal().Err(err).Msg("db migrate failed")
		}
		cancel()
	}

	app := &app{
		cfg:      cfg,
		sessions: session.NewManager(),
		drills:   training.NewDrills(quartz.NewReal()),
		scores:   training.NewHighScores(cfg.Server.HighScoreLimit),
		events:   ws.NewServer(),
		db:       db,
	}

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           newRouter(app),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("trainer server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	if db != nil {
		db.Close()
	}
}
