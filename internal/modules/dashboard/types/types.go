package types

import (
	"time"

	"satmon/internal/readings"
	"satmon/internal/satellite"
)

type ReadingsResponse struct {
	Seq        uint64                    `json:"seq"`
	Provenance readings.Provenance       `json:"provenance"`
	FetchedAt  time.Time                 `json:"fetchedAt"`
	Readings   readings.LatestReadingMap `json:"readings"`
	// Display holds each value formatted with its property's precision.
	Display map[readings.Property]string `json:"display"`
}

type PropertyInfo struct {
	Property  readings.Property `json:"property"`
	Code      int               `json:"code"`
	Label     string            `json:"label"`
	Unit      string            `json:"unit"`
	MaxValue  float64           `json:"maxValue"`
	Precision int               `json:"precision"`
	TextColor string            `json:"textColor"`
	BgColor   string            `json:"bgColor"`
}

type SatelliteResponse struct {
	Seq          uint64                 `json:"seq"`
	UpdatedAt    time.Time              `json:"updatedAt"`
	BatteryLevel satellite.BatteryLevel `json:"batteryLevel"`
	Telemetry    satellite.Telemetry    `json:"telemetry"`
}

type EventsResponse struct {
	Type   string                   `json:"type"`
	Total  int                      `json:"total"`
	Events []satellite.NaturalEvent `json:"events"`
}

type EventCountsResponse struct {
	Total  int            `json:"total"`
	New    int            `json:"new"`
	ByType map[string]int `json:"byType"`
}

type CommandResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}
