package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"satmon/internal/readings"
)

func Test_parseEventsQuery(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantKind  string
		wantLimit int
		wantErr   bool
	}{
		{"defaults", "", "all", 50, false},
		{"type lower-cased", "?type=Flood", "flood", 50, false},
		{"explicit all", "?type=all&limit=10", "all", 10, false},
		{"max limit", "?limit=500", "all", 500, false},
		{"limit too large", "?limit=501", "", 0, true},
		{"negative limit", "?limit=-1", "", 0, true},
		{"non-integer limit", "?limit=ten", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/events"+tt.query, nil)
			kind, limit, err := parseEventsQuery(req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseEventsQuery() err = %v; wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if kind != tt.wantKind || limit != tt.wantLimit {
				t.Errorf("parseEventsQuery() = (%q, %d); want (%q, %d)", kind, limit, tt.wantKind, tt.wantLimit)
			}
		})
	}
}

func Test_formatReadings(t *testing.T) {
	got := formatReadings(readings.LatestReadingMap{
		readings.Temperature: {Value: 21.04},
		readings.Humidity:    {Value: 55.55},
		readings.Longitude:   {Value: -117.16114},
	})
	want := map[readings.Property]string{
		readings.Temperature: "21.0",
		readings.Humidity:    "55.5",
		readings.Longitude:   "-117.1611",
	}
	for p, w := range want {
		if got[p] != w {
			t.Errorf("%q = %q; want %q", p, got[p], w)
		}
	}
	if len(got) != len(want) {
		t.Errorf("len = %d; want %d", len(got), len(want))
	}
}
