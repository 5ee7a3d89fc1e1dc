// Package sequence orders delivery stops into an efficient loop starting at
// an anchor position. All costs are great-circle distances; the heuristic
// plans the visiting order, road geometry stays the directions provider's
// concern.
package sequence

import (
	"math"
	"sort"

	"rota/internal/modules/geo"
	"rota/internal/types"
)

type Strategy string

const (
	StrategyNearestNeighbor Strategy = "nearest_neighbor"
	StrategyAngularSweep    Strategy = "angular_sweep"
)

// DefaultStrategy is what sessions use unless a caller asks otherwise.
const DefaultStrategy = StrategyAngularSweep

const (
	// improveEpsilon is the margin a move must beat to count as an
	// improvement; "must exceed", not "must differ", so near-tied routes
	// cannot oscillate forever.
	improveEpsilon  = 1e-6
	maxTwoOptPasses = 40
	maxOrOptPasses  = 30
)

type Options struct {
	Strategy  Strategy
	CloseLoop bool
}

// Order returns a visiting order for pts as a permutation of indices.
// Fewer than three stops are returned in input order; no improving move
// exists for them.
func Order(anchor types.Point, pts []types.Point, opt Options) []int {
	if len(pts) < 3 {
		order := make([]int, len(pts))
		for i := range order {
			order[i] = i
		}
		return order
	}

	var order []int
	switch opt.Strategy {
	case StrategyNearestNeighbor:
		order = seedNearestNeighbor(anchor, pts)
	default:
		order = seedAngularSweep(anchor, pts, opt.CloseLoop)
	}

	twoOpt(anchor, pts, order, opt.CloseLoop)
	orOpt(anchor, pts, order, opt.CloseLoop)
	return order
}

// seedNearestNeighbor repeatedly extends the tail with the closest unvisited
// stop, starting from the anchor.
func seedNearestNeighbor(anchor types.Point, pts []types.Point) []int {
	n := len(pts)
	visited := make([]bool, n)
	order := make([]int, 0, n)

	cur := anchor
	for len(order) < n {
		best := -1
		bestDist := math.MaxFloat64
		for i := 0; i < n; i++ {
			if visited[i] {
				continue
			}
			if d := geo.DistanceMeters(cur, pts[i]); d < bestDist {
				best, bestDist = i, d
			}
		}
		visited[best] = true
		order = append(order, best)
		cur = pts[best]
	}
	return order
}

// seedAngularSweep sorts stops by angle around their centroid, anchored at
// the stop nearest the anchor, and keeps the cheaper sweep direction.
func seedAngularSweep(anchor types.Point, pts []types.Point, closeLoop bool) []int {
	n := len(pts)

	var c types.Point
	for _, p := range pts {
		c.Lat += p.Lat
		c.Lng += p.Lng
	}
	c.Lat /= float64(n)
	c.Lng /= float64(n)

	// The stop nearest the anchor is the angular origin of the sweep.
	origin := 0
	bestDist := math.MaxFloat64
	for i, p := range pts {
		if d := geo.DistanceMeters(anchor, p); d < bestDist {
			origin, bestDist = i, d
		}
	}

	// Angles relative to the origin's angle, normalised to [0, 2π). A
	// degenerate centroid (coincident or colinear stops) yields equal
	// angles; the stable sort then keeps input order.
	base := math.Atan2(pts[origin].Lat-c.Lat, pts[origin].Lng-c.Lng)
	rel := make([]float64, n)
	for i, p := range pts {
		a := math.Atan2(p.Lat-c.Lat, p.Lng-c.Lng) - base
		for a < 0 {
			a += 2 * math.Pi
		}
		for a >= 2*math.Pi {
			a -= 2 * math.Pi
		}
		rel[i] = a
	}

	ccw := make([]int, n)
	for i := range ccw {
		ccw[i] = i
	}
	sort.SliceStable(ccw, func(x, y int) bool { return rel[ccw[x]] < rel[ccw[y]] })

	// Clockwise keeps the same first stop and walks the rest backwards.
	cw := make([]int, 0, n)
	cw = append(cw, ccw[0])
	for i := n - 1; i >= 1; i-- {
		cw = append(cw, ccw[i])
	}

	// Ties favour clockwise.
	if pathLength(anchor, pts, cw, closeLoop) <= pathLength(anchor, pts, ccw, closeLoop) {
		return cw
	}
	return ccw
}

// pathLength is the comparison cost: anchor→first, consecutive edges, and
// the closing edge back to the anchor when looping.
func pathLength(anchor types.Point, pts []types.Point, order []int, closeLoop bool) float64 {
	total := 0.0
	prev := anchor
	for _, idx := range order {
		total += geo.DistanceMeters(prev, pts[idx])
		prev = pts[idx]
	}
	if closeLoop && len(order) > 0 {
		total += geo.DistanceMeters(prev, anchor)
	}
	return total
}
