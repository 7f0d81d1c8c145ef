package readings

import (
	"strings"
	"time"
)

// Layouts accepted for Timestamp, tried in order. Zone-less forms are read
// as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses an ISO-8601 timestamp as sent by the telemetry
// endpoint.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type candidate struct {
	reading Reading
	at      time.Time
	valid   bool
}

// newer reports whether a sorts after b. Parseable timestamps beat
// unparseable ones, later instants win, then the larger id. The remaining
// keys only make the order total for malformed feeds with duplicate ids.
func (a candidate) newer(b candidate) bool {
	if a.valid != b.valid {
		return a.valid
	}
	if a.valid && !a.at.Equal(b.at) {
		return a.at.After(b.at)
	}
	if a.reading.ID != b.reading.ID {
		return a.reading.ID > b.reading.ID
	}
	if a.reading.Value != b.reading.Value {
		return a.reading.Value > b.reading.Value
	}
	return a.reading.Timestamp > b.reading.Timestamp
}

// Resolve reduces raw readings to the latest reading per known property.
// Readings with unknown property codes are ignored. The result does not
// depend on input order.
func Resolve(readings []Reading) LatestReadingMap {
	best := make(map[Property]candidate, len(Properties))
	for _, r := range readings {
		p, ok := CodeToProperty(r.Property)
		if !ok {
			continue
		}
		at, valid := ParseTimestamp(r.Timestamp)
		c := candidate{reading: r, at: at, valid: valid}
		if cur, seen := best[p]; !seen || c.newer(cur) {
			best[p] = c
		}
	}

	out := make(LatestReadingMap, len(best))
	for p, c := range best {
		out[p] = c.reading
	}
	return out
}
