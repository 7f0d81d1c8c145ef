package dashboard

import (
	"log/slog"
	"net/http"

	"satmon/internal/modules/dashboard/controller"
)

func RegisterFeature(mux *http.ServeMux, r controller.ReadingsPoller, s controller.SatelliteFeed, c controller.CommandSender, logger *slog.Logger) {
	dashboardController := controller.NewDashboardController(r, s, c, logger)
	dashboardController.RegisterRoutes(mux)
}
