// README: Navigation domain model (stops, plans, live positions).
package navigation

import (
	"time"

	"rota/internal/types"
)

// Delivery is the read-only payload a stop references. It belongs to the
// delivery backend; navigation never writes through it.
type Delivery struct {
	ID       types.ID
	Customer string
	Address  string
	Point    types.Point
	Notes    string
}

// Stop is one delivery destination inside a navigation session.
type Stop struct {
	ID       types.ID
	Point    types.Point
	Delivery *Delivery
}

// RoutePlan is the ordered stop sequence plus the road polyline currently
// drawn for it. Derived data: discarded and rebuilt on every trigger.
type RoutePlan struct {
	OrderedStops []Stop
	Polyline     []types.Point
}

// LivePosition is one sample from the device location stream.
type LivePosition struct {
	Point          types.Point
	AccuracyMeters float64
	Timestamp      time.Time
}
