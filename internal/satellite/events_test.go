package satellite

import (
	"reflect"
	"testing"
)

func ids(events []NaturalEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func TestFilterEvents(t *testing.T) {
	events := DefaultBaseline(refTime, 0, 0).Events

	tests := []struct {
		kind string
		want []string
	}{
		{"all", ids(events)},
		{"", ids(events)},
		{"wildfire", []string{"evt-1234567890", "evt-1357924680"}},
		{"WildFire", []string{"evt-1234567890", "evt-1357924680"}},
		{" flood ", []string{"evt-0987654321"}},
		{"earthquake", []string{}},
	}
	for _, tt := range tests {
		got := ids(FilterEvents(events, tt.kind))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("FilterEvents(%q) = %v; want %v", tt.kind, got, tt.want)
		}
	}
}

func TestSortNewestFirst(t *testing.T) {
	events := DefaultBaseline(refTime, 0, 0).Events
	events = append(events, NaturalEvent{ID: "bad", Timestamp: "someday"})

	SortNewestFirst(events)

	want := []string{
		"evt-1234567890", // 30m
		"evt-5678901234", // 1h
		"evt-0987654321", // 3h
		"evt-1357924680", // 6h
		"evt-2468013579", // 12h
		"bad",
	}
	if got := ids(events); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v; want %v", got, want)
	}
}

func TestCountByType(t *testing.T) {
	got := CountByType(DefaultBaseline(refTime, 0, 0).Events)
	want := map[string]int{"wildfire": 2, "flood": 1, "hurricane": 1, "storm": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CountByType = %v; want %v", got, want)
	}
	if got := CountByType(nil); len(got) != 0 {
		t.Errorf("CountByType(nil) = %v; want empty", got)
	}
}

func TestLevelForBattery(t *testing.T) {
	tests := []struct {
		pct  float64
		want BatteryLevel
	}{
		{100, BatteryGood},
		{50.1, BatteryGood},
		{50, BatteryLow},
		{20.5, BatteryLow},
		{20, BatteryCritical},
		{0, BatteryCritical},
	}
	for _, tt := range tests {
		if got := LevelForBattery(tt.pct); got != tt.want {
			t.Errorf("LevelForBattery(%v) = %q; want %q", tt.pct, got, tt.want)
		}
	}
}
