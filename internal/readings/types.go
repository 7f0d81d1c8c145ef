// Package readings acquires live sensor readings from the rig's telemetry
// endpoint and reduces them to one latest reading per known property.
package readings

import "time"

// Property is a named measured quantity. The set is closed: only the
// constants below are valid.
type Property string

const (
	Temperature Property = "temperature"
	Humidity    Property = "humidity"
	Latitude    Property = "lat"
	Longitude   Property = "long"
)

// Properties lists every known property in code order.
var Properties = []Property{Temperature, Humidity, Latitude, Longitude}

// CodeToProperty maps an upstream property code to its name. Unknown codes
// report false.
func CodeToProperty(code int) (Property, bool) {
	switch code {
	case 1:
		return Temperature, true
	case 2:
		return Humidity, true
	case 3:
		return Latitude, true
	case 4:
		return Longitude, true
	default:
		return "", false
	}
}

// Code returns the upstream code of p, or 0 if p is not a known property.
func (p Property) Code() int {
	switch p {
	case Temperature:
		return 1
	case Humidity:
		return 2
	case Latitude:
		return 3
	case Longitude:
		return 4
	default:
		return 0
	}
}

// Reading is one timestamped observation as delivered on the wire.
type Reading struct {
	ID        int64   `json:"Id"`
	Property  int     `json:"Property"`
	Value     float64 `json:"Value"`
	Timestamp string  `json:"Timestamp"`
}

// LatestReadingMap holds at most one reading per known property. A missing
// key means no data yet, not zero.
type LatestReadingMap map[Property]Reading

type Provenance string

const (
	ProvenanceLive      Provenance = "live"
	ProvenanceSynthetic Provenance = "synthetic"
)

// Snapshot is the result of one poll cycle. Readings must not be mutated
// once the snapshot has been handed out.
type Snapshot struct {
	Provenance Provenance       `json:"provenance"`
	FetchedAt  time.Time        `json:"fetchedAt"`
	Readings   LatestReadingMap `json:"readings"`
}
