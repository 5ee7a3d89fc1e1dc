package navigation

import (
	"time"

	"rota/internal/modules/geo"
	"rota/internal/types"
)

// Monitor decides when persistently off-route positions require a route
// recompute. Deviation must be continuous: any on-route sample clears the
// timer, and a cooldown keeps transient GPS noise from causing recompute
// storms.
type Monitor struct {
	thresholdMeters float64
	persist         time.Duration
	cooldown        time.Duration
	now             func() time.Time

	offRouteSince time.Time // zero while on route
	lastRecompute time.Time
}

func NewMonitor(thresholdMeters float64, persist, cooldown time.Duration, now func() time.Time) *Monitor {
	if now == nil {
		now = time.Now
	}
	return &Monitor{
		thresholdMeters: thresholdMeters,
		persist:         persist,
		cooldown:        cooldown,
		now:             now,
	}
}

// Observe feeds one position sample against the current polyline and reports
// whether a recompute should fire now.
func (m *Monitor) Observe(p types.Point, polyline []types.Point) bool {
	if len(polyline) < 2 {
		return false
	}

	if m.onRoute(p, polyline) {
		m.offRouteSince = time.Time{}
		return false
	}

	now := m.now()
	if m.offRouteSince.IsZero() {
		m.offRouteSince = now
		return false
	}
	if now.Sub(m.offRouteSince) < m.persist {
		return false
	}
	if !m.lastRecompute.IsZero() && now.Sub(m.lastRecompute) < m.cooldown {
		return false
	}

	m.lastRecompute = now
	m.offRouteSince = time.Time{}
	return true
}

// RouteRecomputed records a recompute that happened for any reason (stop
// completion, manual retry) so the cooldown covers those too.
func (m *Monitor) RouteRecomputed() {
	m.lastRecompute = m.now()
	m.offRouteSince = time.Time{}
}

func (m *Monitor) onRoute(p types.Point, polyline []types.Point) bool {
	for i := 0; i+1 < len(polyline); i++ {
		// One edge within threshold already proves on-route.
		if geo.PointToSegmentMeters(p, polyline[i], polyline[i+1]) <= m.thresholdMeters {
			return true
		}
	}
	return false
}
