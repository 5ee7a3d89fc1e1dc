// Package geo contains pure geographic computation helpers.
package geo

import (
	"math"

	"rota/internal/types"
)

const earthRadiusM = 6371000.0

// DistanceMeters returns the great-circle distance in metres between two
// points specified in decimal degrees (haversine formula).
func DistanceMeters(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusM * c
}

// PointToSegmentMeters returns the distance in metres from p to the closest
// point of segment a-b. The projection is computed on a local planar
// approximation (longitude scaled by cos of the mid latitude) with the
// parameter clamped to [0,1], then measured great-circle. Accurate at the
// edge lengths deviation detection deals with.
func PointToSegmentMeters(p, a, b types.Point) float64 {
	scale := math.Cos(degreesToRadians((a.Lat + b.Lat) / 2))

	ax, ay := a.Lng*scale, a.Lat
	bx, by := b.Lng*scale, b.Lat
	px, py := p.Lng*scale, p.Lat

	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return DistanceMeters(p, a)
	}

	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))

	closest := types.Point{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lng: a.Lng + (b.Lng-a.Lng)*t,
	}
	return DistanceMeters(p, closest)
}

// BearingDegrees returns the initial compass heading from a to b in [0,360).
func BearingDegrees(a, b types.Point) float64 {
	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	y := math.Sin(dLng) * math.Cos(rLat2)
	x := math.Cos(rLat1)*math.Sin(rLat2) - math.Sin(rLat1)*math.Cos(rLat2)*math.Cos(dLng)

	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
