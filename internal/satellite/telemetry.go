package satellite

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

const (
	positionJitter = 0.1
	batteryJitter  = 1.0

	placeholderImage = "/placeholder.svg?height=300&width=400"
)

// DefaultBaseline returns the reference telemetry centred on lat/long. Seed
// event timestamps are relative to now.
func DefaultBaseline(now time.Time, lat, long float64) Telemetry {
	ago := func(d time.Duration) string {
		return now.Add(-d).UTC().Format("2006-01-02T15:04:05.000Z07:00")
	}
	return Telemetry{
		Status:   StatusOnline,
		Position: Position{Latitude: lat, Longitude: long, Altitude: 408.5},
		Orientation: Orientation{
			SunAxisRotation:   145.2,
			EarthAxisRotation: 78.9,
		},
		Power: Power{
			BatteryPercentage: 87,
			SolarPanelStatus:  SolarActive,
			PowerConsumption:  120,
		},
		Events: []NaturalEvent{
			{
				ID:          "evt-1234567890",
				Type:        "Wildfire",
				Severity:    SeverityHigh,
				Location:    "California, USA",
				Description: "Large wildfire detected in Northern California forest region, spreading rapidly due to high winds.",
				Timestamp:   ago(30 * time.Minute),
				Coordinates: Coordinates{Latitude: "38.8025", Longitude: "-122.9586"},
				ImageURL:    placeholderImage,
				IsNew:       true,
			},
			{
				ID:          "evt-0987654321",
				Type:        "Flood",
				Severity:    SeverityMedium,
				Location:    "Mississippi River, USA",
				Description: "Flooding detected along Mississippi River basin affecting several communities.",
				Timestamp:   ago(3 * time.Hour),
				Coordinates: Coordinates{Latitude: "29.9511", Longitude: "-90.0715"},
				ImageURL:    placeholderImage,
			},
			{
				ID:          "evt-5678901234",
				Type:        "Hurricane",
				Severity:    SeverityHigh,
				Location:    "Gulf of Mexico",
				Description: "Category 3 hurricane forming in the Gulf of Mexico, moving northwest at 15 mph.",
				Timestamp:   ago(time.Hour),
				Coordinates: Coordinates{Latitude: "25.7617", Longitude: "-80.1918"},
				ImageURL:    placeholderImage,
				IsNew:       true,
			},
			{
				ID:          "evt-2468013579",
				Type:        "Storm",
				Severity:    SeverityLow,
				Location:    "North Atlantic",
				Description: "Tropical storm system developing with sustained winds of 45 mph.",
				Timestamp:   ago(12 * time.Hour),
				Coordinates: Coordinates{Latitude: "32.3113", Longitude: "-64.7505"},
				ImageURL:    placeholderImage,
			},
			{
				ID:          "evt-1357924680",
				Type:        "Wildfire",
				Severity:    SeverityMedium,
				Location:    "Australia",
				Description: "Bushfire detected in eastern Australia affecting approximately 500 hectares.",
				Timestamp:   ago(6 * time.Hour),
				Coordinates: Coordinates{Latitude: "-33.8688", Longitude: "151.2093"},
				ImageURL:    placeholderImage,
			},
		},
	}
}

// Next derives one telemetry sample from baseline. Position jitters by up to
// ±0.1 degrees and battery by ±1 point, clamped to [0, 100]. baseline is not
// modified; the returned value has its own events slice.
func Next(rng *rand.Rand, baseline Telemetry) Telemetry {
	out := baseline
	out.Position.Latitude += rng.Float64()*2*positionJitter - positionJitter
	out.Position.Longitude += rng.Float64()*2*positionJitter - positionJitter
	out.Power.BatteryPercentage = clamp(
		baseline.Power.BatteryPercentage+rng.Float64()*2*batteryJitter-batteryJitter,
		0, 100,
	)
	out.Events = append([]NaturalEvent(nil), baseline.Events...)
	return out
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

// Generator produces telemetry samples around a fixed baseline. It is safe
// for concurrent use.
type Generator struct {
	baseline Telemetry

	mu  sync.Mutex
	rng *rand.Rand
}

func NewGenerator(baseline Telemetry, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{baseline: baseline, rng: rng}
}

// Fetch matches the poller's fetch signature. It never blocks.
func (g *Generator) Fetch(_ context.Context) Telemetry {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Next(g.rng, g.baseline)
}
