package readings

import (
	"math/rand/v2"
	"time"
)

// Baseline is the reference point the synthetic position jitters around.
type Baseline struct {
	Lat  float64
	Long float64
}

var DefaultBaseline = Baseline{Lat: 32.7157, Long: -117.1611}

const (
	positionJitter = 0.1

	temperatureMin, temperatureMax = 20.0, 30.0
	humidityMin, humidityMax       = 30.0, 70.0
)

// Synthetic builds a plausible reading set, one per known property, stamped
// with now. Values come from rng only:
//
//	temperature  [20, 30)
//	humidity     [30, 70)
//	lat, long    baseline ± 0.1
//
// Ids are negative so they never collide with upstream ids.
func Synthetic(rng *rand.Rand, now time.Time, baseline Baseline) LatestReadingMap {
	ts := now.UTC().Format(time.RFC3339Nano)
	idBase := -now.UnixMilli() * 10

	values := map[Property]float64{
		Temperature: temperatureMin + rng.Float64()*(temperatureMax-temperatureMin),
		Humidity:    humidityMin + rng.Float64()*(humidityMax-humidityMin),
		Latitude:    baseline.Lat + jitter(rng, positionJitter),
		Longitude:   baseline.Long + jitter(rng, positionJitter),
	}

	out := make(LatestReadingMap, len(Properties))
	for _, p := range Properties {
		out[p] = Reading{
			ID:        idBase - int64(p.Code()),
			Property:  p.Code(),
			Value:     values[p],
			Timestamp: ts,
		}
	}
	return out
}

func jitter(rng *rand.Rand, span float64) float64 {
	return rng.Float64()*2*span - span
}
