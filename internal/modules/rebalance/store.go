// README: Rebalance store; day-scoped route overrides in Redis with midnight expiry.
package rebalance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rota/internal/types"
)

type Store struct {
	redis *redis.Client
	now   func() time.Time
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{redis: rdb, now: time.Now}
}

// DayOverride is the persisted form of an applied split. It exists only for
// the current calendar day; the TTL removes it at local midnight.
type DayOverride struct {
	TargetRouteID types.ID   `json:"target_route_id"`
	AssignedToA   []types.ID `json:"assigned_to_a"`
	AssignedToC   []types.ID `json:"assigned_to_c"`
	Summary       Summary    `json:"summary"`
	CreatedAt     time.Time  `json:"created_at"`
}

func overrideKey(routeID string, day time.Time) string {
	return fmt.Sprintf("rota:override:%s:%s", routeID, day.Format("2006-01-02"))
}

func (s *Store) SaveDayOverride(ctx context.Context, routeID types.ID, res Result) error {
	now := s.now()

	override := DayOverride{
		TargetRouteID: routeID,
		AssignedToA:   stopIDs(res.AssignedToA),
		AssignedToC:   stopIDs(res.AssignedToC),
		Summary:       res.Summary,
		CreatedAt:     now,
	}
	payload, err := json.Marshal(override)
	if err != nil {
		return fmt.Errorf("marshal override: %w", err)
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	ttl := midnight.Sub(now)

	if err := s.redis.Set(ctx, overrideKey(string(routeID), now), payload, ttl).Err(); err != nil {
		return fmt.Errorf("set override: %w", err)
	}
	return nil
}

// DayOverrideFor returns today's override for the route, or nil when none
// is stored.
func (s *Store) DayOverrideFor(ctx context.Context, routeID string) (*DayOverride, error) {
	raw, err := s.redis.Get(ctx, overrideKey(routeID, s.now())).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get override: %w", err)
	}

	var override DayOverride
	if err := json.Unmarshal(raw, &override); err != nil {
		return nil, fmt.Errorf("unmarshal override: %w", err)
	}
	return &override, nil
}

func stopIDs(stops []Stop) []types.ID {
	ids := make([]types.ID, len(stops))
	for i, st := range stops {
		ids[i] = st.ID
	}
	return ids
}
