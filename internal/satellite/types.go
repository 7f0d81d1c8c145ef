// Package satellite models the satellite telemetry feed: position,
// orientation, power and the natural events observed from orbit.
package satellite

type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

type SolarPanelStatus string

const (
	SolarActive   SolarPanelStatus = "active"
	SolarInactive SolarPanelStatus = "inactive"
	SolarCharging SolarPanelStatus = "charging"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

type Orientation struct {
	SunAxisRotation   float64 `json:"sunAxisRotation"`
	EarthAxisRotation float64 `json:"earthAxisRotation"`
}

type Power struct {
	BatteryPercentage float64          `json:"batteryPercentage"`
	SolarPanelStatus  SolarPanelStatus `json:"solarPanelStatus"`
	PowerConsumption  float64          `json:"powerConsumption"`
}

// Coordinates are kept as strings, as delivered by the event catalogue.
type Coordinates struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

type NaturalEvent struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Severity    Severity    `json:"severity"`
	Location    string      `json:"location"`
	Description string      `json:"description"`
	Timestamp   string      `json:"timestamp"`
	Coordinates Coordinates `json:"coordinates"`
	ImageURL    string      `json:"imageUrl,omitempty"`
	IsNew       bool        `json:"isNew"`
}

type Telemetry struct {
	Status      Status         `json:"status"`
	Position    Position       `json:"position"`
	Orientation Orientation    `json:"orientation"`
	Power       Power          `json:"power"`
	Events      []NaturalEvent `json:"events"`
}
