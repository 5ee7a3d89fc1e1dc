// README: Rebalance domain model (split requests and results).
package rebalance

import "rota/internal/types"

// Stop is one delivery destination being reassigned.
type Stop struct {
	ID    types.ID
	Point types.Point
}

// Request describes one split: the orphaned route's stops and the two
// candidate destination routes' existing stops. Capacities are optional;
// nil means "no hard limit, balance relatively".
type Request struct {
	TargetRouteID types.ID
	TargetStops   []Stop
	DestAStops    []Stop
	DestCStops    []Stop
	CapacityA     *float64
	CapacityC     *float64
	// Alpha tunes load penalty vs. pure distance; zero means the default.
	Alpha float64
}

// WeightFunc gives a stop's load contribution. Nil means one per stop.
type WeightFunc func(Stop) float64

type Summary struct {
	CountA  int     `json:"count_a"`
	CountC  int     `json:"count_c"`
	WeightA float64 `json:"weight_a"`
	WeightC float64 `json:"weight_c"`
}

// Result is the computed assignment. Purely derived; "applying" it is a
// separate persistence step.
type Result struct {
	AssignedToA []Stop
	AssignedToC []Stop
	Summary     Summary
}
