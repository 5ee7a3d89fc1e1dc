// README: Navigation session controller; owns stop sets, route state, and recompute orchestration.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"rota/internal/config"
	"rota/internal/modules/geo"
	"rota/internal/modules/sequence"
	"rota/internal/types"
)

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrNoValidStops      = errors.New("no valid stops to route")
	ErrRoutingProvider   = errors.New("directions provider failed")
	ErrRoutingTimeout    = errors.New("route recomputation timed out")
	ErrInvalidAmount     = errors.New("payment amount must be a positive number")
	ErrActionFailed      = errors.New("delivery action failed")
	ErrStopNotFound      = errors.New("stop not found")
	ErrSessionNotFound   = errors.New("navigation session not found")
	ErrSessionClosed     = errors.New("navigation session closed")
)

// DirectionsProvider returns a road polyline through the waypoints in order.
// The heading hint helps providers match the first edge to the vehicle's
// travel direction; providers may ignore it.
type DirectionsProvider interface {
	Polyline(ctx context.Context, waypoints []types.Point, headingDeg float64) ([]types.Point, error)
}

// DeliveryProvider lists a driver's pending deliveries.
type DeliveryProvider interface {
	PendingDeliveries(ctx context.Context, driverID types.ID) ([]Delivery, error)
}

// DeliveryActions mutates delivery state in the backing system.
type DeliveryActions interface {
	MarkDelivered(ctx context.Context, deliveryID types.ID) error
	RegisterPayment(ctx context.Context, deliveryID types.ID, amount float64, method string) error
}

// Session is the stateful controller for one driver's live navigation. All
// fields behind mu; collaborator calls happen off-lock.
type Session struct {
	driverID   types.ID
	cfg        config.NavigationConfig
	directions DirectionsProvider
	actions    DeliveryActions

	mu       sync.Mutex
	allStops []Stop
	active   []Stop
	position *LivePosition
	plan     *RoutePlan
	routing  bool
	lastErr  error
	closed   bool

	// recomputeSeq implements latest-wins: a finished recompute whose token
	// no longer matches is discarded, never applied.
	recomputeSeq   uint64
	inflightCancel context.CancelFunc
	monitor        *Monitor
	throttle       *throttle
	now            func() time.Time
}

func newSession(driverID types.ID, stops []Stop, cfg config.NavigationConfig, directions DirectionsProvider, actions DeliveryActions, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{
		driverID:   driverID,
		cfg:        cfg,
		directions: directions,
		actions:    actions,
		allStops:   stops,
		active:     append([]Stop(nil), stops...),
		monitor:    NewMonitor(cfg.DeviationMeters, cfg.DeviationPersist, cfg.RecomputeCooldown, now),
		throttle:   &throttle{spacing: cfg.RequestSpacing, now: now},
		now:        now,
	}
}

// sanitizeStops drops stops whose coordinates stay invalid after the axis
// swap repair.
func sanitizeStops(stops []Stop) []Stop {
	out := make([]Stop, 0, len(stops))
	for _, st := range stops {
		p, ok := types.Repair(st.Point)
		if !ok {
			log.Printf("navigation: dropping stop %s: %v (%f, %f)", st.ID, ErrInvalidCoordinate, st.Point.Lat, st.Point.Lng)
			continue
		}
		st.Point = p
		out = append(out, st)
	}
	return out
}

// RecomputeRoute re-sequences the active stops and fetches a fresh road
// polyline. Concurrent invocations are serialized latest-wins: a newer
// request supersedes the in-flight one and the stale result is discarded.
// On any failure the previous plan is left untouched.
func (s *Session) RecomputeRoute(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}

	stops := sanitizeStops(s.active)
	if len(stops) == 0 {
		s.lastErr = ErrNoValidStops
		s.mu.Unlock()
		return ErrNoValidStops
	}

	// Anchor on the live position when we have one; before the first GPS
	// fix the first stop bootstraps the route.
	anchor := stops[0].Point
	heading := 0.0
	if s.position != nil {
		anchor = s.position.Point
		heading = geo.BearingDegrees(anchor, stops[0].Point)
	}

	s.recomputeSeq++
	token := s.recomputeSeq
	if s.inflightCancel != nil {
		s.inflightCancel()
	}
	rctx, cancel := context.WithTimeout(ctx, s.cfg.RecomputeTimeout)
	s.inflightCancel = cancel
	s.routing = true
	cfg := s.cfg
	s.mu.Unlock()

	defer cancel()

	perm := sequence.Order(anchor, stopPoints(stops), sequence.Options{
		Strategy:  sequence.DefaultStrategy,
		CloseLoop: cfg.CloseLoop,
	})
	ordered := make([]Stop, len(perm))
	for i, idx := range perm {
		ordered[i] = stops[idx]
	}

	waypoints := make([]types.Point, 0, len(ordered)+2)
	waypoints = append(waypoints, anchor)
	for _, st := range ordered {
		waypoints = append(waypoints, st.Point)
	}
	if cfg.CloseLoop {
		waypoints = append(waypoints, anchor)
	}

	polyline, err := s.fetchPolyline(rctx, waypoints, heading)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.recomputeSeq {
		// Superseded by a newer request; whatever happened here is stale.
		return nil
	}
	s.routing = false
	s.inflightCancel = nil

	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			err = fmt.Errorf("%w after %s", ErrRoutingTimeout, cfg.RecomputeTimeout)
		case errors.Is(err, context.Canceled):
			err = fmt.Errorf("%w: %v", ErrRoutingProvider, err)
		default:
			err = fmt.Errorf("%w: %v", ErrRoutingProvider, err)
		}
		s.lastErr = err
		log.Printf("navigation: driver %s recompute failed: %v", s.driverID, err)
		return err
	}

	s.plan = &RoutePlan{OrderedStops: ordered, Polyline: polyline}
	s.lastErr = nil
	s.monitor.RouteRecomputed()
	return nil
}

// fetchPolyline requests each waypoint chunk sequentially, honouring the
// provider's minimum request spacing, and stitches the results.
func (s *Session) fetchPolyline(ctx context.Context, waypoints []types.Point, heading float64) ([]types.Point, error) {
	chunks := chunkPoints(waypoints, s.cfg.MaxChunkPoints)
	parts := make([][]types.Point, 0, len(chunks))
	for _, chunk := range chunks {
		if err := s.throttle.wait(ctx); err != nil {
			return nil, err
		}
		part, err := s.directions.Polyline(ctx, chunk, heading)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return stitchPolylines(parts), nil
}

// CompleteStop marks the delivery done in the backend, then drops the stop
// from both stop sets and recomputes. A failed backend call leaves the
// session unchanged.
func (s *Session) CompleteStop(ctx context.Context, stopID types.ID) error {
	s.mu.Lock()
	if _, ok := findStop(s.allStops, stopID); !ok {
		s.mu.Unlock()
		return ErrStopNotFound
	}
	s.mu.Unlock()

	if err := s.actions.MarkDelivered(ctx, stopID); err != nil {
		s.setLastErr(fmt.Errorf("%w: mark delivered: %v", ErrActionFailed, err))
		return fmt.Errorf("%w: mark delivered: %v", ErrActionFailed, err)
	}

	s.removeStop(stopID)
	return s.RecomputeRoute(ctx)
}

// RegisterPayment validates the amount locally, records the payment in the
// backend, and completes the stop. Invalid amounts never reach the wire.
func (s *Session) RegisterPayment(ctx context.Context, stopID types.ID, amount float64, method string) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return ErrInvalidAmount
	}

	s.mu.Lock()
	if _, ok := findStop(s.allStops, stopID); !ok {
		s.mu.Unlock()
		return ErrStopNotFound
	}
	s.mu.Unlock()

	if err := s.actions.RegisterPayment(ctx, stopID, amount, method); err != nil {
		s.setLastErr(fmt.Errorf("%w: register payment: %v", ErrActionFailed, err))
		return fmt.Errorf("%w: register payment: %v", ErrActionFailed, err)
	}

	s.removeStop(stopID)
	return s.RecomputeRoute(ctx)
}

// NarrowToSingleStop routes to just one stop ("navigate to this address").
// allStops is untouched; ResetToAllStops undoes the narrowing.
func (s *Session) NarrowToSingleStop(ctx context.Context, stopID types.ID) error {
	s.mu.Lock()
	st, ok := findStop(s.allStops, stopID)
	if !ok {
		s.mu.Unlock()
		return ErrStopNotFound
	}
	s.active = []Stop{st}
	s.mu.Unlock()

	return s.RecomputeRoute(ctx)
}

// ResetToAllStops restores the full stop set as the routing target.
func (s *Session) ResetToAllStops(ctx context.Context) error {
	s.mu.Lock()
	s.active = append([]Stop(nil), s.allStops...)
	s.mu.Unlock()

	return s.RecomputeRoute(ctx)
}

// OnLivePosition applies one location sample: noisy or stale samples are
// dropped, small movements only feed the deviation monitor, and a monitor
// trigger recomputes the route.
func (s *Session) OnLivePosition(ctx context.Context, sample LivePosition) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if sample.AccuracyMeters > s.cfg.MaxAccuracyMeters {
		s.mu.Unlock()
		return nil
	}
	p, ok := types.Repair(sample.Point)
	if !ok {
		s.mu.Unlock()
		return nil
	}
	sample.Point = p

	if s.position != nil && !sample.Timestamp.After(s.position.Timestamp) {
		// Reordered or replayed sample.
		s.mu.Unlock()
		return nil
	}

	moved := s.position == nil ||
		geo.DistanceMeters(sample.Point, s.position.Point) >= s.cfg.MinMoveMeters
	if moved {
		s.position = &sample
	}

	trigger := false
	if s.plan != nil {
		trigger = s.monitor.Observe(sample.Point, s.plan.Polyline)
	}
	s.mu.Unlock()

	if trigger {
		log.Printf("navigation: driver %s persistently off route, recomputing", s.driverID)
		return s.RecomputeRoute(ctx)
	}
	return nil
}

// Snapshot is the session state the presentation layer reads.
type Snapshot struct {
	DriverID    types.ID
	AllStops    []Stop
	ActiveStops []Stop
	Position    *LivePosition
	Plan        *RoutePlan
	Routing     bool
	LastError   string
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		DriverID:    s.driverID,
		AllStops:    append([]Stop(nil), s.allStops...),
		ActiveStops: append([]Stop(nil), s.active...),
		Routing:     s.routing,
	}
	if s.position != nil {
		pos := *s.position
		snap.Position = &pos
	}
	if s.plan != nil {
		snap.Plan = &RoutePlan{
			OrderedStops: append([]Stop(nil), s.plan.OrderedStops...),
			Polyline:     append([]types.Point(nil), s.plan.Polyline...),
		}
	}
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}
	return snap
}

// Close tears the session down and cancels any in-flight recompute.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.recomputeSeq++ // orphan any in-flight result
	if s.inflightCancel != nil {
		s.inflightCancel()
		s.inflightCancel = nil
	}
}

func (s *Session) setLastErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *Session) removeStop(stopID types.ID) {
	s.mu.Lock()
	s.allStops = deleteStop(s.allStops, stopID)
	s.active = deleteStop(s.active, stopID)
	s.mu.Unlock()
}

func findStop(stops []Stop, id types.ID) (Stop, bool) {
	for _, st := range stops {
		if st.ID == id {
			return st, true
		}
	}
	return Stop{}, false
}

func deleteStop(stops []Stop, id types.ID) []Stop {
	out := stops[:0]
	for _, st := range stops {
		if st.ID != id {
			out = append(out, st)
		}
	}
	return out
}

func stopPoints(stops []Stop) []types.Point {
	pts := make([]types.Point, len(stops))
	for i, st := range stops {
		pts[i] = st.Point
	}
	return pts
}

// throttle enforces a minimum spacing between directions requests. The
// last-call timestamp is owned per session so independent sessions never
// share rate-limit state.
type throttle struct {
	spacing time.Duration
	now     func() time.Time

	mu   sync.Mutex
	last time.Time
}

func (t *throttle) wait(ctx context.Context) error {
	if t.spacing <= 0 {
		return nil
	}

	t.mu.Lock()
	var rest time.Duration
	if !t.last.IsZero() {
		rest = t.spacing - t.now().Sub(t.last)
	}
	if rest <= 0 {
		t.last = t.now()
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	timer := time.NewTimer(rest)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	t.mu.Lock()
	t.last = t.now()
	t.mu.Unlock()
	return nil
}
