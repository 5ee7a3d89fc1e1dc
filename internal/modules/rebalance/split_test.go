package rebalance

import (
	"reflect"
	"testing"

	"rota/internal/types"
)

func rebalStop(id string, lat, lng float64) Stop {
	return Stop{ID: types.ID(id), Point: types.Point{Lat: lat, Lng: lng}}
}

func assignedIDs(stops []Stop) []types.ID {
	ids := make([]types.ID, len(stops))
	for i, st := range stops {
		ids[i] = st.ID
	}
	return ids
}

func TestSplit_AttractionToNearerPool(t *testing.T) {
	// Pool A sits near the origin, pool C a degree of latitude north. Each
	// target is clearly closer to one of them.
	req := Request{
		TargetStops: []Stop{
			rebalStop("near-a", 0.01, 0),
			rebalStop("near-c", 0.99, 0),
		},
		DestAStops: []Stop{rebalStop("a-seed", 0, 0)},
		DestCStops: []Stop{rebalStop("c-seed", 1, 0)},
	}

	res := Split(req, nil)

	if got := assignedIDs(res.AssignedToA); len(got) != 1 || got[0] != "near-a" {
		t.Errorf("A got %v, want [near-a]", got)
	}
	if got := assignedIDs(res.AssignedToC); len(got) != 1 || got[0] != "near-c" {
		t.Errorf("C got %v, want [near-c]", got)
	}
}

func TestSplit_TiesFavourA(t *testing.T) {
	// The target sits exactly between the two seeds; with equal loads the
	// scores tie and A must win.
	req := Request{
		TargetStops: []Stop{rebalStop("mid", 0, 0)},
		DestAStops:  []Stop{rebalStop("a-seed", 0, -1)},
		DestCStops:  []Stop{rebalStop("c-seed", 0, 1)},
	}

	res := Split(req, nil)
	if len(res.AssignedToA) != 1 || len(res.AssignedToC) != 0 {
		t.Fatalf("tie must go to A: A=%v C=%v", assignedIDs(res.AssignedToA), assignedIDs(res.AssignedToC))
	}
}

func TestSplit_EmptyPoolIsInfinitelyFar(t *testing.T) {
	// C has no members, so no stop can be attracted there; everything lands
	// on A regardless of geography.
	req := Request{
		TargetStops: []Stop{
			rebalStop("t1", 0, 0),
			rebalStop("t2", 5, 5),
			rebalStop("t3", -3, 2),
		},
		DestAStops: []Stop{rebalStop("a-seed", 1, 1)},
	}

	res := Split(req, nil)
	if res.Summary.CountA != 3 || res.Summary.CountC != 0 {
		t.Fatalf("expected all stops on A, got A=%d C=%d", res.Summary.CountA, res.Summary.CountC)
	}
}

func TestSplit_LoadPenaltySteersLaterStops(t *testing.T) {
	// Two targets equidistant between the seed pools. The first takes A on
	// the tie; A's load then inflates its score enough to push the second,
	// marginally-closer-to-A target over to C.
	req := Request{
		TargetStops: []Stop{
			rebalStop("t1", 0, 0.0005),
			rebalStop("t2", 0.01, 0.0005),
		},
		DestAStops: []Stop{rebalStop("a-seed", 0, 0)},
		DestCStops: []Stop{rebalStop("c-seed", 0, 0.001)},
	}

	res := Split(req, nil)

	if got := assignedIDs(res.AssignedToA); len(got) != 1 || got[0] != "t1" {
		t.Errorf("A got %v, want [t1]", got)
	}
	if got := assignedIDs(res.AssignedToC); len(got) != 1 || got[0] != "t2" {
		t.Errorf("C got %v, want [t2]", got)
	}
}

func TestSplit_CapacityForcesOverflowToOtherSide(t *testing.T) {
	capA := 1.0
	// All three targets hug pool A, but A only has room for one.
	req := Request{
		TargetStops: []Stop{
			rebalStop("t1", 0.001, 0),
			rebalStop("t2", 0.002, 0),
			rebalStop("t3", 0.003, 0),
		},
		DestAStops: []Stop{rebalStop("a-seed", 0, 0)},
		DestCStops: []Stop{rebalStop("c-seed", 2, 2)},
		CapacityA:  &capA,
	}

	res := Split(req, nil)

	if got := assignedIDs(res.AssignedToA); len(got) != 1 || got[0] != "t1" {
		t.Fatalf("A got %v, want just [t1] under capacity 1", got)
	}
	if res.Summary.CountC != 2 {
		t.Fatalf("overflow must land on C, got %d", res.Summary.CountC)
	}
	if res.Summary.WeightA != 1 || res.Summary.WeightC != 2 {
		t.Errorf("weights A=%f C=%f, want 1 and 2", res.Summary.WeightA, res.Summary.WeightC)
	}
}

func TestSplit_BothFullFallsBackToScore(t *testing.T) {
	capA, capC := 1.0, 1.0
	req := Request{
		TargetStops: []Stop{
			rebalStop("t1", 0.001, 0),
			rebalStop("t2", 0.002, 0),
			rebalStop("t3", 1.999, 2), // near C even though both are over capacity
		},
		DestAStops: []Stop{rebalStop("a-seed", 0, 0)},
		DestCStops: []Stop{rebalStop("c-seed", 2, 2)},
		CapacityA:  &capA,
		CapacityC:  &capC,
	}

	res := Split(req, nil)

	// t1 fills A, t2 overflows to C and fills it; t3 then goes wherever the
	// score points despite both being full.
	if got := assignedIDs(res.AssignedToC); len(got) != 2 || got[0] != "t2" || got[1] != "t3" {
		t.Fatalf("C got %v, want [t2 t3]", got)
	}
}

func TestSplit_CustomWeightFunc(t *testing.T) {
	capA := 5.0
	heavy := func(Stop) float64 { return 3 }
	req := Request{
		TargetStops: []Stop{
			rebalStop("t1", 0.001, 0),
			rebalStop("t2", 0.002, 0),
		},
		DestAStops: []Stop{rebalStop("a-seed", 0, 0)},
		DestCStops: []Stop{rebalStop("c-seed", 2, 2)},
		CapacityA:  &capA,
	}

	res := Split(req, heavy)

	// 3 + 3 would exceed 5, so the second heavy stop goes to C.
	if res.Summary.CountA != 1 || res.Summary.CountC != 1 {
		t.Fatalf("counts A=%d C=%d, want 1 and 1", res.Summary.CountA, res.Summary.CountC)
	}
	if res.Summary.WeightA != 3 || res.Summary.WeightC != 3 {
		t.Errorf("weights A=%f C=%f, want 3 and 3", res.Summary.WeightA, res.Summary.WeightC)
	}
}

func TestSplit_Deterministic(t *testing.T) {
	req := Request{
		TargetStops: []Stop{
			rebalStop("t1", 0.1, 0.2),
			rebalStop("t2", 0.3, 0.1),
			rebalStop("t3", 0.7, 0.9),
			rebalStop("t4", 0.5, 0.5),
		},
		DestAStops: []Stop{rebalStop("a-seed", 0, 0)},
		DestCStops: []Stop{rebalStop("c-seed", 1, 1)},
	}

	first := Split(req, nil)
	second := Split(req, nil)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical input produced different results:\n%+v\n%+v", first, second)
	}
}

func TestSplit_DoesNotMutateCallerSlices(t *testing.T) {
	destA := make([]Stop, 1, 4)
	destA[0] = rebalStop("a-seed", 0, 0)
	req := Request{
		TargetStops: []Stop{rebalStop("t1", 0.001, 0), rebalStop("t2", 0.002, 0)},
		DestAStops:  destA,
		DestCStops:  []Stop{rebalStop("c-seed", 2, 2)},
	}

	Split(req, nil)

	if len(destA) != 1 || destA[0].ID != "a-seed" {
		t.Fatalf("caller's destination slice changed: %v", destA)
	}
	// The spare capacity behind the caller's slice must also be untouched.
	for i, st := range destA[1:cap(destA)] {
		if st != (Stop{}) {
			t.Fatalf("backing array slot %d written through: %+v", i+1, st)
		}
	}
}
