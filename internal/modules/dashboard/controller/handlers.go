package controller

import (
	"context"
	"errors"
	"net/http"

	"satmon/internal/commands"
	"satmon/internal/modules/dashboard/types"
	"satmon/internal/poll"
	"satmon/internal/readings"
	"satmon/internal/satellite"
	"satmon/internal/utils"
)

func toReadingsResponse(e poll.Entry[readings.Snapshot]) types.ReadingsResponse {
	return types.ReadingsResponse{
		Seq:        e.Seq,
		Provenance: e.Value.Provenance,
		FetchedAt:  e.Value.FetchedAt,
		Readings:   e.Value.Readings,
		Display:    formatReadings(e.Value.Readings),
	}
}

func (c *dashboardControllerImpl) handleLatestReadings(w http.ResponseWriter, r *http.Request) {
	e, err := c.readings.Current()
	if err != nil {
		utils.WriteError(w, http.StatusServiceUnavailable, "no readings yet")
		return
	}
	utils.WriteJSON(w, http.StatusOK, toReadingsResponse(e))
}

func (c *dashboardControllerImpl) handleRefreshReadings(w http.ResponseWriter, r *http.Request) {
	e, err := c.readings.Refresh(r.Context())
	switch {
	case err == nil:
		utils.WriteJSON(w, http.StatusOK, toReadingsResponse(e))
	case errors.Is(err, poll.ErrNotRunning):
		utils.WriteError(w, http.StatusServiceUnavailable, "readings poller not running")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		// the cycle continues in the background; the client just stopped waiting
		utils.WriteError(w, http.StatusGatewayTimeout, "refresh still in progress")
	default:
		c.logger.Error("refresh readings failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "refresh failed")
	}
}

func (c *dashboardControllerImpl) handleProperties(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, propertyCatalog)
}

func (c *dashboardControllerImpl) handleSatellite(w http.ResponseWriter, r *http.Request) {
	e, err := c.satellite.Current()
	if err != nil {
		utils.WriteError(w, http.StatusServiceUnavailable, "no satellite telemetry yet")
		return
	}
	utils.WriteJSON(w, http.StatusOK, types.SatelliteResponse{
		Seq:          e.Seq,
		UpdatedAt:    e.At,
		BatteryLevel: satellite.LevelForBattery(e.Value.Power.BatteryPercentage),
		Telemetry:    e.Value,
	})
}

func (c *dashboardControllerImpl) handleEvents(w http.ResponseWriter, r *http.Request) {
	kind, limit, err := parseEventsQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	e, err := c.satellite.Current()
	if err != nil {
		utils.WriteError(w, http.StatusServiceUnavailable, "no satellite telemetry yet")
		return
	}

	events := satellite.FilterEvents(e.Value.Events, kind)
	satellite.SortNewestFirst(events)
	total := len(events)
	if len(events) > limit {
		events = events[:limit]
	}

	utils.WriteJSON(w, http.StatusOK, types.EventsResponse{
		Type:   kind,
		Total:  total,
		Events: events,
	})
}

func (c *dashboardControllerImpl) handleEventCounts(w http.ResponseWriter, r *http.Request) {
	e, err := c.satellite.Current()
	if err != nil {
		utils.WriteError(w, http.StatusServiceUnavailable, "no satellite telemetry yet")
		return
	}
	utils.WriteJSON(w, http.StatusOK, types.EventCountsResponse{
		Total:  len(e.Value.Events),
		New:    len(satellite.NewEvents(e.Value.Events)),
		ByType: satellite.CountByType(e.Value.Events),
	})
}

func (c *dashboardControllerImpl) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commands.Request
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := c.commands.Send(r.Context(), req)
	switch {
	case err == nil:
		utils.WriteJSON(w, http.StatusAccepted, types.CommandResponse{ID: res.ID, Success: true})
	case errors.Is(err, commands.ErrInvalidCommand):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, commands.ErrCommandFailed):
		utils.WriteError(w, http.StatusBadGateway, err.Error())
	default:
		c.logger.Error("send command failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to send command")
	}
}
