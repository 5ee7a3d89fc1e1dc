package types

import (
	"math"
	"testing"
)

func TestPointValid(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"origin", Point{0, 0}, true},
		{"normal", Point{-23.5505, -46.6333}, true},
		{"lat boundary", Point{90, 180}, true},
		{"negative boundary", Point{-90, -180}, true},
		{"lat out of range", Point{90.0001, 0}, false},
		{"lng out of range", Point{0, -180.5}, false},
		{"both out of range", Point{100, 200}, false},
		{"nan lat", Point{math.NaN(), 10}, false},
		{"inf lng", Point{10, math.Inf(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Valid(); got != tt.want {
				t.Errorf("Valid(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRepair_ValidUnchanged(t *testing.T) {
	p := Point{Lat: -23.5505, Lng: -46.6333}
	got, ok := Repair(p)
	if !ok {
		t.Fatalf("expected valid point to survive repair")
	}
	if got != p {
		t.Errorf("valid point was altered: got %v, want %v", got, p)
	}
}

func TestRepair_SwappedAxes(t *testing.T) {
	// lat/lng arrived swapped: lat 121.5 is impossible, swapping fixes it.
	got, ok := Repair(Point{Lat: 121.5654, Lng: 25.033})
	if !ok {
		t.Fatalf("expected swap repair to succeed")
	}
	want := Point{Lat: 25.033, Lng: 121.5654}
	if got != want {
		t.Errorf("Repair = %v, want %v", got, want)
	}
}

func TestRepair_Unusable(t *testing.T) {
	tests := []struct {
		name string
		p    Point
	}{
		{"both axes out of range", Point{100, 200}},
		{"swap does not help", Point{95, 91}},
		{"nan", Point{math.NaN(), math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Repair(tt.p); ok {
				t.Errorf("expected Repair(%v) to fail", tt.p)
			}
		})
	}
}
