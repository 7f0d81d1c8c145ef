package readings

import (
	"reflect"
	"testing"
	"time"
)

func permutations(in []Reading) [][]Reading {
	if len(in) <= 1 {
		return [][]Reading{append([]Reading(nil), in...)}
	}
	var out [][]Reading
	for i := range in {
		rest := make([]Reading, 0, len(in)-1)
		rest = append(rest, in[:i]...)
		rest = append(rest, in[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]Reading{in[i]}, p...))
		}
	}
	return out
}

func TestCodeToProperty(t *testing.T) {
	tests := []struct {
		code   int
		want   Property
		wantOK bool
	}{
		{1, Temperature, true},
		{2, Humidity, true},
		{3, Latitude, true},
		{4, Longitude, true},
		{0, "", false},
		{5, "", false},
		{99, "", false},
		{-1, "", false},
	}
	for _, tt := range tests {
		got, ok := CodeToProperty(tt.code)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("CodeToProperty(%d) = (%q, %v); want (%q, %v)", tt.code, got, ok, tt.want, tt.wantOK)
		}
		if ok && got.Code() != tt.code {
			t.Errorf("%q.Code() = %d; want %d", got, got.Code(), tt.code)
		}
	}
}

func TestResolve_EndToEndExample(t *testing.T) {
	in := []Reading{
		{ID: 1, Property: 1, Value: 21.0, Timestamp: "2024-01-01T00:00:00Z"},
		{ID: 2, Property: 1, Value: 23.5, Timestamp: "2024-01-01T00:05:00Z"},
		{ID: 3, Property: 3, Value: 43.07, Timestamp: "2024-01-01T00:01:00Z"},
	}
	want := LatestReadingMap{
		Temperature: {ID: 2, Property: 1, Value: 23.5, Timestamp: "2024-01-01T00:05:00Z"},
		Latitude:    {ID: 3, Property: 3, Value: 43.07, Timestamp: "2024-01-01T00:01:00Z"},
	}

	got := Resolve(in)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Resolve = %+v; want %+v", got, want)
	}
	if _, ok := got[Humidity]; ok {
		t.Error("humidity present; want absent")
	}
	if _, ok := got[Longitude]; ok {
		t.Error("long present; want absent")
	}
}

func TestResolve_OrderIndependent(t *testing.T) {
	in := []Reading{
		{ID: 10, Property: 1, Value: 20.1, Timestamp: "2024-03-01T10:00:00Z"},
		{ID: 11, Property: 1, Value: 20.9, Timestamp: "2024-03-01T10:00:00Z"},
		{ID: 12, Property: 2, Value: 55, Timestamp: "2024-03-01T09:59:00Z"},
		{ID: 13, Property: 2, Value: 54, Timestamp: "not a time"},
		{ID: 14, Property: 4, Value: -117.16, Timestamp: "2024-03-01T11:00:00+01:00"},
		{ID: 15, Property: 4, Value: -117.17, Timestamp: "2024-03-01T10:00:00.5Z"},
		{ID: 16, Property: 99, Value: 1, Timestamp: "2024-03-01T12:00:00Z"},
	}

	want := Resolve(in)
	for i, p := range permutations(in) {
		if got := Resolve(p); !reflect.DeepEqual(got, want) {
			t.Fatalf("permutation %d: Resolve = %+v; want %+v", i, got, want)
		}
	}

	// Same instant: the larger id wins.
	if got := want[Temperature].ID; got != 11 {
		t.Errorf("temperature id = %d; want 11", got)
	}
	// A parseable timestamp beats an unparseable one.
	if got := want[Humidity].ID; got != 12 {
		t.Errorf("humidity id = %d; want 12", got)
	}
	// 11:00+01:00 is 10:00Z, earlier than 10:00:00.5Z.
	if got := want[Longitude].ID; got != 15 {
		t.Errorf("long id = %d; want 15", got)
	}
}

func TestResolve_LatestWins(t *testing.T) {
	older := Reading{ID: 7, Property: 1, Value: 19, Timestamp: "2024-01-01T00:00:00Z"}
	newer := Reading{ID: 3, Property: 1, Value: 25, Timestamp: "2024-01-01T00:00:01Z"}

	for _, in := range [][]Reading{{older, newer}, {newer, older}} {
		got := Resolve(in)
		if got[Temperature] != newer {
			t.Errorf("Resolve(%v)[temperature] = %+v; want %+v", in, got[Temperature], newer)
		}
	}
}

func TestResolve_UnknownCodesIgnored(t *testing.T) {
	base := []Reading{
		{ID: 1, Property: 2, Value: 40, Timestamp: "2024-01-01T00:00:00Z"},
	}
	withUnknown := append([]Reading{
		{ID: 100, Property: 99, Value: 1e9, Timestamp: "2030-01-01T00:00:00Z"},
		{ID: 101, Property: 0, Value: 1, Timestamp: "2030-01-01T00:00:00Z"},
	}, base...)

	got := Resolve(withUnknown)
	if !reflect.DeepEqual(got, Resolve(base)) {
		t.Fatalf("Resolve with unknown codes = %+v; want %+v", got, Resolve(base))
	}
	if len(got) != 1 {
		t.Errorf("len = %d; want 1", len(got))
	}
}

func TestResolve_Empty(t *testing.T) {
	for _, in := range [][]Reading{nil, {}} {
		got := Resolve(in)
		if got == nil {
			t.Fatal("Resolve returned nil map")
		}
		if len(got) != 0 {
			t.Errorf("len = %d; want 0", len(got))
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 1, 1, 12, 30, 0, 500_000_000, time.UTC)
	tests := []struct {
		in string
		ok bool
	}{
		{"2024-01-01T12:30:00.5Z", true},
		{"2024-01-01T14:30:00.5+02:00", true},
		{"2024-01-01T12:30:00.5", true},
		{"2024-01-01 12:30:00.5", true},
		{" 2024-01-01T12:30:00.5Z ", true},
		{"", false},
		{"yesterday", false},
	}
	for _, tt := range tests {
		got, ok := ParseTimestamp(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseTimestamp(%q) ok = %v; want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(want) {
			t.Errorf("ParseTimestamp(%q) = %v; want %v", tt.in, got, want)
		}
	}
}
