package satellite

import (
	"slices"
	"strings"
	"time"
)

// AllEvents is the filter value that matches every event type.
const AllEvents = "all"

type BatteryLevel string

const (
	BatteryGood     BatteryLevel = "good"
	BatteryLow      BatteryLevel = "low"
	BatteryCritical BatteryLevel = "critical"
)

// LevelForBattery grades a battery percentage: good above 50, low above 20,
// critical otherwise.
func LevelForBattery(pct float64) BatteryLevel {
	switch {
	case pct > 50:
		return BatteryGood
	case pct > 20:
		return BatteryLow
	default:
		return BatteryCritical
	}
}

// FilterEvents returns the events whose type equals kind, ignoring case. An
// empty kind or "all" returns a copy of every event.
func FilterEvents(events []NaturalEvent, kind string) []NaturalEvent {
	kind = strings.ToLower(strings.TrimSpace(kind))
	out := make([]NaturalEvent, 0, len(events))
	for _, e := range events {
		if kind == "" || kind == AllEvents || strings.ToLower(e.Type) == kind {
			out = append(out, e)
		}
	}
	return out
}

// SortNewestFirst orders events by timestamp, newest first, in place.
// Events with unparseable timestamps sort last; ties keep their order.
func SortNewestFirst(events []NaturalEvent) {
	slices.SortStableFunc(events, func(a, b NaturalEvent) int {
		ta, okA := parseEventTime(a.Timestamp)
		tb, okB := parseEventTime(b.Timestamp)
		switch {
		case okA && !okB:
			return -1
		case !okA && okB:
			return 1
		case !okA && !okB:
			return 0
		}
		return tb.Compare(ta)
	})
}

func parseEventTime(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, s)
	return t, err == nil
}

// CountByType counts events per lower-cased type.
func CountByType(events []NaturalEvent) map[string]int {
	out := make(map[string]int)
	for _, e := range events {
		out[strings.ToLower(e.Type)]++
	}
	return out
}

// NewEvents returns the events flagged as new.
func NewEvents(events []NaturalEvent) []NaturalEvent {
	var out []NaturalEvent
	for _, e := range events {
		if e.IsNew {
			out = append(out, e)
		}
	}
	return out
}
