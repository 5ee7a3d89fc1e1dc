package navigation

import (
	"testing"
	"time"

	"rota/internal/types"
)

// fakeClock advances only when told to, so persistence windows are exact.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// A straight east-west polyline along the equator.
var testPolyline = []types.Point{
	{Lat: 0, Lng: 0},
	{Lat: 0, Lng: 0.01},
	{Lat: 0, Lng: 0.02},
}

var (
	onRoutePoint  = types.Point{Lat: 0.0002, Lng: 0.01}  // ~22m off the line
	offRoutePoint = types.Point{Lat: 0.005, Lng: 0.01}   // ~550m off the line
)

func newTestMonitor(clock *fakeClock) *Monitor {
	return NewMonitor(120, 8*time.Second, 30*time.Second, clock.now)
}

func TestMonitor_OnRouteNeverTriggers(t *testing.T) {
	clock := newFakeClock()
	m := newTestMonitor(clock)

	for i := 0; i < 20; i++ {
		if m.Observe(onRoutePoint, testPolyline) {
			t.Fatalf("on-route sample %d triggered a recompute", i)
		}
		clock.advance(time.Second)
	}
}

func TestMonitor_TransientDeviationCleared(t *testing.T) {
	clock := newFakeClock()
	m := newTestMonitor(clock)

	// Single off-route sample followed by an on-route one: no trigger, and
	// the timer restarts from scratch.
	if m.Observe(offRoutePoint, testPolyline) {
		t.Fatal("first off-route sample must not trigger")
	}
	clock.advance(2 * time.Second)
	if m.Observe(onRoutePoint, testPolyline) {
		t.Fatal("on-route sample must not trigger")
	}

	// Even after more than the persistence window, the earlier deviation
	// must not count: it was not continuous.
	clock.advance(10 * time.Second)
	if m.Observe(offRoutePoint, testPolyline) {
		t.Fatal("off-route timer was not cleared by the on-route sample")
	}
}

func TestMonitor_PersistentDeviationTriggersOnce(t *testing.T) {
	clock := newFakeClock()
	m := newTestMonitor(clock)

	triggers := 0
	// Continuous off-route samples for 12 seconds, one per second.
	for i := 0; i < 12; i++ {
		if m.Observe(offRoutePoint, testPolyline) {
			triggers++
		}
		clock.advance(time.Second)
	}

	if triggers != 1 {
		t.Fatalf("expected exactly one trigger, got %d", triggers)
	}
}

func TestMonitor_CooldownBlocksSecondTrigger(t *testing.T) {
	clock := newFakeClock()
	m := newTestMonitor(clock)

	first := false
	for i := 0; i < 10; i++ {
		if m.Observe(offRoutePoint, testPolyline) {
			first = true
			break
		}
		clock.advance(time.Second)
	}
	if !first {
		t.Fatal("expected an initial trigger")
	}

	// Still off route; the persistence window fills again but the cooldown
	// has not elapsed.
	for i := 0; i < 15; i++ {
		clock.advance(time.Second)
		if m.Observe(offRoutePoint, testPolyline) {
			t.Fatalf("triggered during cooldown at +%ds", i+1)
		}
	}

	// Past the cooldown the still-deviating session may trigger again.
	clock.advance(20 * time.Second)
	if !m.Observe(offRoutePoint, testPolyline) {
		t.Fatal("expected a trigger after the cooldown elapsed")
	}
}

func TestMonitor_ShortPolylineIgnored(t *testing.T) {
	clock := newFakeClock()
	m := newTestMonitor(clock)

	if m.Observe(offRoutePoint, nil) {
		t.Fatal("no polyline, nothing to deviate from")
	}
	if m.Observe(offRoutePoint, testPolyline[:1]) {
		t.Fatal("single point is not a route")
	}
}

func TestMonitor_ExternalRecomputeResetsCooldown(t *testing.T) {
	clock := newFakeClock()
	m := newTestMonitor(clock)

	// A recompute from a stop completion counts for the cooldown too.
	m.RouteRecomputed()

	for i := 0; i < 20; i++ {
		if m.Observe(offRoutePoint, testPolyline) {
			t.Fatalf("triggered at +%ds despite fresh recompute cooldown", i)
		}
		clock.advance(time.Second)
	}

	clock.advance(15 * time.Second)
	if !m.Observe(offRoutePoint, testPolyline) {
		t.Fatal("expected trigger once cooldown from external recompute passed")
	}
}
