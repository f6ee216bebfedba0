package http

import (
	"net/http"

	"github.com/mvoss42/tabletally/internal/config"
	"github.com/mvoss42/tabletally/internal/league"
	"github.com/mvoss42/tabletally/internal/metrics"
	"github.com/mvoss42/tabletally/internal/notifier"
	"github.com/mvoss42/tabletally/internal/stats"
)

func NewServer(store league.LeagueStore, statsEngine stats.Engine, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier) *Server {
	server := &Server{
		Store:          store,
		Stats:          statsEngine,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	cors := corsMiddleware(s.Cfg.CORSOrigin)

	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("OPTIONS /api/", Chain(s.PreflightHandler(), cors))
	s.Router.Handle("GET /api/users", Chain(s.ListUsersHandler(), paramsMiddleware, cors))
	s.Router.Handle("POST /api/users", Chain(s.CreateUserHandler(), paramsMiddleware, cors))
	s.Router.Handle("GET /api/users/search", Chain(s.SearchUsersHandler(), paramsMiddleware, cors))
	s.Router.Handle("GET /api/factions", Chain(s.ListFactionsHandler(), paramsMiddleware, cors))
	s.Router.Handle("GET /api/games", Chain(s.ListGamesHandler(), paramsMiddleware, cors))
	s.Router.Handle("POST /api/games", Chain(s.ReportGameHandler(), paramsMiddleware, cors))
	s.Router.Handle("GET /api/stats/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware, cors))
	s.Router.Handle("GET /api/stats/most-played", Chain(s.MostPlayedHandler(), paramsMiddleware, cors))
	s.Router.Handle("GET /api/stats/factions/wins", Chain(s.FactionWinsHandler(), paramsMiddleware, cors))
	s.Router.Handle("GET /api/stats/factions/popularity", Chain(s.FactionPopularityHandler(), paramsMiddleware, cors))
	s.Router.Handle("GET /api/stats/player-comparison", Chain(s.PlayerComparisonHandler(), paramsMiddleware, cors))
	s.Router.Handle("GET /api/stats/player", Chain(s.PlayerProfileHandler(), paramsMiddleware, cors))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
