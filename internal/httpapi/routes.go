package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"leagueboard/internal/espn"
	"leagueboard/internal/room"
	"leagueboard/internal/store"
	"leagueboard/internal/ws"
)

// Deps carries everything the routes need.
type Deps struct {
	Room     *room.Room
	Store    store.Store
	Reporter *espn.Reporter
	Clock    clockwork.Clock
	Log      *zap.Logger
}

func SetupRoutes(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger(d.Log))
	// The board is meant to be embedded anywhere, so cross-origin is open.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	// Public routes
	r.Get("/api/data", GetData(d.Room))
	r.Post("/api/data", PostData(d.Room, d.Log))
	r.Get("/api/stream", Stream(d.Room, d.Clock, d.Log))
	r.Get("/api/live-scores", LiveScores(d.Reporter, d.Log))
	r.Get("/api/ws", ws.Handler(d.Room, d.Log))
	r.Get("/healthz", Healthz(d.Store))
	r.Handle("/metrics", promhttp.Handler())
	return r
}
