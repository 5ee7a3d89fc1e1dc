package sequence

import (
	"rota/internal/modules/geo"
	"rota/internal/types"
)

// twoOpt reverses sub-sequences while doing so shortens the path, removing
// the self-crossings seed heuristics introduce. Reversing order[i..j] only
// changes the two boundary edges (great-circle distance is symmetric), so
// each candidate is an O(1) delta check.
func twoOpt(anchor types.Point, pts []types.Point, order []int, closeLoop bool) {
	n := len(order)

	// Position -1 is the anchor; position n is the closing anchor when
	// loop-closing is on, otherwise there is no trailing edge.
	at := func(k int) (types.Point, bool) {
		switch {
		case k == -1:
			return anchor, true
		case k == n:
			if closeLoop {
				return anchor, true
			}
			return types.Point{}, false
		default:
			return pts[order[k]], true
		}
	}

	for pass := 0; pass < maxTwoOptPasses; pass++ {
		improved := false
		for i := 0; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				before, _ := at(i - 1)
				after, hasAfter := at(j + 1)

				oldLen := geo.DistanceMeters(before, pts[order[i]])
				newLen := geo.DistanceMeters(before, pts[order[j]])
				if hasAfter {
					oldLen += geo.DistanceMeters(pts[order[j]], after)
					newLen += geo.DistanceMeters(pts[order[i]], after)
				}

				if newLen < oldLen-improveEpsilon {
					reverseRange(order, i, j)
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}
}

// orOpt relocates one stop at a time to its best position, restarting the
// scan after every accepted move. Candidates are evaluated by full path
// length; N is one driver's day, never large enough to matter.
func orOpt(anchor types.Point, pts []types.Point, order []int, closeLoop bool) {
	n := len(order)

	for pass := 0; pass < maxOrOptPasses; pass++ {
		moved := false
		current := pathLength(anchor, pts, order, closeLoop)

		for i := 0; i < n && !moved; i++ {
			rest := make([]int, 0, n-1)
			rest = append(rest, order[:i]...)
			rest = append(rest, order[i+1:]...)

			bestPos := -1
			bestLen := current
			for k := 0; k <= len(rest); k++ {
				if k == i {
					continue
				}
				cand := insertAt(rest, order[i], k)
				if l := pathLength(anchor, pts, cand, closeLoop); l < bestLen-improveEpsilon {
					bestLen = l
					bestPos = k
				}
			}

			if bestPos >= 0 {
				copy(order, insertAt(rest, order[i], bestPos))
				moved = true
			}
		}
		if !moved {
			break
		}
	}
}

func reverseRange(order []int, i, j int) {
	for i < j {
		order[i], order[j] = order[j], order[i]
		i++
		j--
	}
}

func insertAt(base []int, v, pos int) []int {
	out := make([]int, 0, len(base)+1)
	out = append(out, base[:pos]...)
	out = append(out, v)
	out = append(out, base[pos:]...)
	return out
}
