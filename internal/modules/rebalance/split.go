package rebalance

import (
	"math"

	"rota/internal/modules/geo"
	"rota/internal/types"
)

// DefaultAlpha is how strongly a destination's fullness inflates its
// distance score.
const DefaultAlpha = 0.8

// loadEpsilon keeps the relative load fraction defined before anything has
// been assigned.
const loadEpsilon = 1e-9

// Split assigns each target stop to destination A or C, greedily and in
// input order: earlier stops get first pick. Each assignment grows that
// destination's pool, so later stops are attracted to clusters already
// forming. The caller's slices are never mutated.
//
// Score per destination = nearest-member distance × (1 + alpha × load
// fraction); a destination already carrying more load looks "further away".
// An explicit capacity turns into a hard limit: a stop that would overflow
// one destination is forced to the other, unless both would overflow (then
// the score decides). Ties favour A. Deterministic for identical input.
func Split(req Request, weight WeightFunc) Result {
	if weight == nil {
		weight = func(Stop) float64 { return 1 }
	}
	alpha := req.Alpha
	if alpha == 0 {
		alpha = DefaultAlpha
	}

	poolA := append([]Stop(nil), req.DestAStops...)
	poolC := append([]Stop(nil), req.DestCStops...)

	var res Result
	var loadA, loadC float64

	for _, st := range req.TargetStops {
		w := weight(st)

		distA := minDistanceMeters(st.Point, poolA)
		distC := minDistanceMeters(st.Point, poolC)

		total := loadA + loadC + loadEpsilon
		scoreA := distA * (1 + alpha*loadFraction(loadA, req.CapacityA, total))
		scoreC := distC * (1 + alpha*loadFraction(loadC, req.CapacityC, total))

		toA := scoreA <= scoreC

		overA := req.CapacityA != nil && loadA+w > *req.CapacityA
		overC := req.CapacityC != nil && loadC+w > *req.CapacityC
		switch {
		case overA && !overC:
			toA = false
		case overC && !overA:
			toA = true
		}

		if toA {
			res.AssignedToA = append(res.AssignedToA, st)
			poolA = append(poolA, st)
			loadA += w
		} else {
			res.AssignedToC = append(res.AssignedToC, st)
			poolC = append(poolC, st)
			loadC += w
		}
	}

	res.Summary = Summary{
		CountA:  len(res.AssignedToA),
		CountC:  len(res.AssignedToC),
		WeightA: loadA,
		WeightC: loadC,
	}
	return res
}

// minDistanceMeters is the distance to the nearest pool member; an empty
// pool is infinitely far, so stops only land there when both pools are
// empty.
func minDistanceMeters(p types.Point, pool []Stop) float64 {
	min := math.Inf(1)
	for _, member := range pool {
		if d := geo.DistanceMeters(p, member.Point); d < min {
			min = d
		}
	}
	return min
}

func loadFraction(load float64, capacity *float64, total float64) float64 {
	if capacity != nil && *capacity > 0 {
		return load / *capacity
	}
	return load / total
}
