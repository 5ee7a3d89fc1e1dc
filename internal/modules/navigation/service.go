// README: Navigation service; creates and tracks per-driver sessions.
package navigation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rota/internal/config"
	"rota/internal/types"
)

type Service struct {
	cfg        config.NavigationConfig
	directions DirectionsProvider
	deliveries DeliveryProvider
	actions    DeliveryActions
	now        func() time.Time

	mu       sync.Mutex
	sessions map[types.ID]*Session
}

func NewService(cfg config.NavigationConfig, directions DirectionsProvider, deliveries DeliveryProvider, actions DeliveryActions) *Service {
	return &Service{
		cfg:        cfg,
		directions: directions,
		deliveries: deliveries,
		actions:    actions,
		now:        time.Now,
		sessions:   make(map[types.ID]*Session),
	}
}

// Start opens a navigation session for the driver. An explicit stop list
// wins; without one the driver's pending deliveries are loaded and turned
// into stops, dropping any with unusable coordinates. An existing session
// for the driver is closed and replaced.
func (s *Service) Start(ctx context.Context, driverID types.ID, stops []Stop) (*Session, error) {
	if len(stops) == 0 {
		deliveries, err := s.deliveries.PendingDeliveries(ctx, driverID)
		if err != nil {
			return nil, fmt.Errorf("load pending deliveries: %w", err)
		}
		stops = make([]Stop, 0, len(deliveries))
		for i := range deliveries {
			d := deliveries[i]
			stops = append(stops, Stop{ID: d.ID, Point: d.Point, Delivery: &d})
		}
	}
	stops = sanitizeStops(stops)

	sess := newSession(driverID, stops, s.cfg, s.directions, s.actions, s.now)

	s.mu.Lock()
	if old, ok := s.sessions[driverID]; ok {
		old.Close()
	}
	s.sessions[driverID] = sess
	s.mu.Unlock()

	return sess, nil
}

func (s *Service) Get(driverID types.ID) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[driverID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// End closes and forgets the driver's session.
func (s *Service) End(driverID types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[driverID]
	if !ok {
		return ErrSessionNotFound
	}
	sess.Close()
	delete(s.sessions, driverID)
	return nil
}

// Shutdown closes every open session.
func (s *Service) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.Close()
		delete(s.sessions, id)
	}
}
