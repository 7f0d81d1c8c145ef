package httpapi

import (
	"net/http"

	"satmon/internal/utils"
)

// ConnectionState reports whether the broker connection is up.
type ConnectionState interface {
	IsConnected() bool
}

type healthchecker interface {
	handleHealthz(w http.ResponseWriter, r *http.Request)
}

type healthcheckerImpl struct {
	mqtt ConnectionState
}

// NewHealthchecker builds the /healthz handler. mqtt may be nil when the
// mirror is disabled.
func NewHealthchecker(mqtt ConnectionState) healthchecker {
	return &healthcheckerImpl{mqtt: mqtt}
}

// handleHealthz always answers 200: a broker outage degrades the mirror but
// the API keeps serving.
func (h *healthcheckerImpl) handleHealthz(w http.ResponseWriter, r *http.Request) {
	state := "disabled"
	if h.mqtt != nil {
		state = "disconnected"
		if h.mqtt.IsConnected() {
			state = "connected"
		}
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"mqtt":   state,
	})
}

func registerHealthcheck(mux *http.ServeMux, mqtt ConnectionState) {
	healthchecker := NewHealthchecker(mqtt)
	mux.HandleFunc("GET /healthz", healthchecker.handleHealthz)
}
