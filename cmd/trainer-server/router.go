package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"

	"blackjack-trainer/internal/config"
	"blackjack-trainer/internal/logging"
	"blackjack-trainer/internal/session"
	"blackjack-trainer/internal/store"
	"blackjack-trainer/internal/training"
	"blackjack-trainer/internal/ws"
)

type app struct {
	cfg      config.AppConfig
	sessions *session.Manager
	drills   *training.Drills
	scores   *training.HighScores
	events   *ws.Server
	db       *store.DB
}

func apiLogMiddleware() func(http.Handler) http.Handler {
	return httplog.RequestLogger(
		slog.New(slog.NewJSONHandler(logging.Writer(), &slog.HandlerOptions{})),
		&httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.Schema{ResponseStatus: "status", ResponseDuration: "duration_ms"},
			LogExtraAttrs: func(req *http.Request, _ string, _ int) []slog.Attr {
				rc := chi.RouteContext(req.Context())
				route := req.URL.Path
				if rc != nil && rc.RoutePattern() != "" {
					route = rc.RoutePattern()
				}
				return []slog.Attr{
					slog.String("request_id", chimw.GetReqID(req.Context())),
					slog.String("method", req.Method),
					slog.String("route", route),
				}
			},
		},
	)
}

func newRouter(a *app) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(apiLogMiddleware())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", a.handleCreateSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", a.handleSnapshot)
				r.Delete("/", a.handleEndSession)
				r.Get("/actions", a.handleActions)
				r.Get("/hint", a.handleHint)
				r.Get("/ev", a.handleEV)
				r.Get("/dealer-odds", a.handleDealerOdds)
				r.Post("/bet", a.handleBet)
				r.Post("/insurance", a.handleInsurance)
				r.Post("/hit", a.command("hit"))
				r.Post("/stand", a.command("stand"))
				r.Post("/double", a.command("double"))
				r.Post("/split", a.command("split"))
				r.Post("/surrender", a.command("surrender"))
				r.Post("/round", a.command("new_round"))
				r.Post("/reset", a.command("reset_game"))
			})
		})

		r.Route("/training", func(r chi.Router) {
			r.Post("/counting", a.handleCountingDrill)
			r.Post("/verify", a.handleVerifyCount)
			r.Post("/strategy", a.handleStrategyDrill)
			r.Post("/deviation", a.handleDeviationDrill)
			r.Get("/high-scores", a.handleHighScores)
		})

		r.Route("/stats", func(r chi.Router) {
			r.Post("/house-edge", a.handleHouseEdge)
			r.Get("/kelly", a.handleKelly)
			r.Get("/bet-spread", a.handleBetSpread)
		})
	})

	r.Get("/ws", a.events.HandleWS)

	return r
}
