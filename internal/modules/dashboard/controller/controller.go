package controller

import (
	"context"
	"log/slog"
	"net/http"

	"satmon/internal/commands"
	"satmon/internal/poll"
	"satmon/internal/readings"
	"satmon/internal/satellite"
)

type ReadingsPoller interface {
	Current() (poll.Entry[readings.Snapshot], error)
	Refresh(ctx context.Context) (poll.Entry[readings.Snapshot], error)
}

type SatelliteFeed interface {
	Current() (poll.Entry[satellite.Telemetry], error)
}

type CommandSender interface {
	Send(ctx context.Context, req commands.Request) (commands.Result, error)
}

type DashboardController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type dashboardControllerImpl struct {
	readings  ReadingsPoller
	satellite SatelliteFeed
	commands  CommandSender
	logger    *slog.Logger
}

func NewDashboardController(r ReadingsPoller, s SatelliteFeed, c CommandSender, logger *slog.Logger) DashboardController {
	if logger == nil {
		logger = slog.Default()
	}
	return &dashboardControllerImpl{readings: r, satellite: s, commands: c, logger: logger}
}

func (c *dashboardControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/readings/latest", c.handleLatestReadings)
	mux.HandleFunc("POST /api/v1/readings/refresh", c.handleRefreshReadings)
	mux.HandleFunc("GET /api/v1/properties", c.handleProperties)
	mux.HandleFunc("GET /api/v1/satellite", c.handleSatellite)
	mux.HandleFunc("GET /api/v1/events", c.handleEvents)
	mux.HandleFunc("GET /api/v1/events/counts", c.handleEventCounts)
	mux.HandleFunc("POST /api/v1/commands", c.handleCommand)
}
