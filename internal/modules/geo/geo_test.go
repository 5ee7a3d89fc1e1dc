package geo

import (
	"math"
	"testing"

	"rota/internal/types"
)

func TestDistanceMeters_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		a, b      types.Point
		wantM     float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         types.Point{Lat: -23.5505, Lng: -46.6333},
			b:         types.Point{Lat: -23.5505, Lng: -46.6333},
			wantM:     0,
			tolerance: 0.001,
		},
		{
			name:      "one degree of latitude (~111km)",
			a:         types.Point{Lat: 0, Lng: 0},
			b:         types.Point{Lat: 1, Lng: 0},
			wantM:     111195,
			tolerance: 200,
		},
		{
			name:      "Sao Paulo to Rio (~360km)",
			a:         types.Point{Lat: -23.5505, Lng: -46.6333},
			b:         types.Point{Lat: -22.9068, Lng: -43.1729},
			wantM:     360000,
			tolerance: 10000,
		},
		{
			name:      "New York to Los Angeles (~3944km)",
			a:         types.Point{Lat: 40.7128, Lng: -74.0060},
			b:         types.Point{Lat: 34.0522, Lng: -118.2437},
			wantM:     3944000,
			tolerance: 50000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMeters(tt.a, tt.b)
			if math.Abs(got-tt.wantM) > tt.tolerance {
				t.Errorf("DistanceMeters() = %f, want %f (±%f)", got, tt.wantM, tt.tolerance)
			}
		})
	}
}

func TestDistanceMeters_Symmetry(t *testing.T) {
	a := types.Point{Lat: -23.5, Lng: -46.6}
	b := types.Point{Lat: -22.9, Lng: -43.2}
	d1 := DistanceMeters(a, b)
	d2 := DistanceMeters(b, a)
	if math.Abs(d1-d2) > 0.0001 {
		t.Errorf("distance is not symmetric: %f vs %f", d1, d2)
	}
}

func TestPointToSegmentMeters_OnSegment(t *testing.T) {
	a := types.Point{Lat: 0, Lng: 0}
	b := types.Point{Lat: 0, Lng: 1}
	p := types.Point{Lat: 0, Lng: 0.5}

	if d := PointToSegmentMeters(p, a, b); d > 1 {
		t.Errorf("point on segment should be ~0m away, got %f", d)
	}
}

func TestPointToSegmentMeters_PerpendicularOffset(t *testing.T) {
	a := types.Point{Lat: 0, Lng: 0}
	b := types.Point{Lat: 0, Lng: 1}
	p := types.Point{Lat: 0.001, Lng: 0.5} // ~111m north of the segment

	d := PointToSegmentMeters(p, a, b)
	if math.Abs(d-111.2) > 2 {
		t.Errorf("expected ~111m, got %f", d)
	}
}

func TestPointToSegmentMeters_BeyondEndpointClamps(t *testing.T) {
	a := types.Point{Lat: 0, Lng: 0}
	b := types.Point{Lat: 0, Lng: 1}
	p := types.Point{Lat: 0, Lng: 2} // past b; nearest point is b itself

	d := PointToSegmentMeters(p, a, b)
	want := DistanceMeters(p, b)
	if math.Abs(d-want) > 1 {
		t.Errorf("expected clamp to endpoint distance %f, got %f", want, d)
	}
}

func TestPointToSegmentMeters_DegenerateSegment(t *testing.T) {
	a := types.Point{Lat: 10, Lng: 10}
	p := types.Point{Lat: 11, Lng: 10}

	d := PointToSegmentMeters(p, a, a)
	want := DistanceMeters(p, a)
	if math.Abs(d-want) > 0.001 {
		t.Errorf("degenerate segment should fall back to point distance %f, got %f", want, d)
	}
}

func TestBearingDegrees(t *testing.T) {
	origin := types.Point{Lat: 0, Lng: 0}
	tests := []struct {
		name      string
		to        types.Point
		want      float64
		tolerance float64
	}{
		{"due north", types.Point{Lat: 1, Lng: 0}, 0, 0.01},
		{"due east", types.Point{Lat: 0, Lng: 1}, 90, 0.01},
		{"due south", types.Point{Lat: -1, Lng: 0}, 180, 0.01},
		{"due west", types.Point{Lat: 0, Lng: -1}, 270, 0.01},
		{"northeast", types.Point{Lat: 1, Lng: 1}, 45, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BearingDegrees(origin, tt.to)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("BearingDegrees() = %f, want %f", got, tt.want)
			}
			if got < 0 || got >= 360 {
				t.Errorf("bearing %f outside [0,360)", got)
			}
		})
	}
}
