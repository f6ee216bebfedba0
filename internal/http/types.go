package http

import (
	"net/http"

	"github.com/mvoss42/tabletally/internal/config"
	"github.com/mvoss42/tabletally/internal/league"
	"github.com/mvoss42/tabletally/internal/metrics"
	"github.com/mvoss42/tabletally/internal/notifier"
	"github.com/mvoss42/tabletally/internal/stats"
)

type Server struct {
	Store          league.LeagueStore
	Stats          stats.Engine
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
}
