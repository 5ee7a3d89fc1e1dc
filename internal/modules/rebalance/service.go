// README: Rebalance service; simulate runs the split, apply also persists the day override.
package rebalance

import (
	"context"
	"fmt"
	"log"

	"rota/internal/config"
)

type Service struct {
	store *Store
	alpha float64
}

func NewService(store *Store, cfg config.RebalanceConfig) *Service {
	alpha := cfg.Alpha
	if alpha == 0 {
		alpha = DefaultAlpha
	}
	return &Service{store: store, alpha: alpha}
}

// Simulate computes the assignment without side effects. The operator sees
// exactly what Apply would persist.
func (s *Service) Simulate(req Request) Result {
	if req.Alpha == 0 {
		req.Alpha = s.alpha
	}
	return Split(req, nil)
}

// Apply runs the same split and persists it as an override for the current
// calendar day.
func (s *Service) Apply(ctx context.Context, req Request) (Result, error) {
	res := s.Simulate(req)
	if err := s.store.SaveDayOverride(ctx, req.TargetRouteID, res); err != nil {
		return Result{}, fmt.Errorf("persist day override: %w", err)
	}
	log.Printf("rebalance: route %s split for today: %d stops to A, %d to C",
		req.TargetRouteID, res.Summary.CountA, res.Summary.CountC)
	return res, nil
}

// Override returns today's persisted override for a route, if any.
func (s *Service) Override(ctx context.Context, routeID string) (*DayOverride, error) {
	return s.store.DayOverrideFor(ctx, routeID)
}
