package navigation

import "rota/internal/types"

// chunkPoints splits a waypoint sequence into slices of at most max points
// with a one-point overlap between consecutive chunks, so the per-chunk
// polylines stitch back together without gaps. Directions providers cap
// waypoints per request.
func chunkPoints(pts []types.Point, max int) [][]types.Point {
	if max < 2 || len(pts) <= max {
		return [][]types.Point{pts}
	}

	var chunks [][]types.Point
	for start := 0; start < len(pts)-1; start += max - 1 {
		end := start + max
		if end > len(pts) {
			end = len(pts)
		}
		chunks = append(chunks, pts[start:end])
		if end == len(pts) {
			break
		}
	}
	return chunks
}

// stitchPolylines concatenates per-chunk polylines, dropping the duplicated
// overlap point at each seam.
func stitchPolylines(parts [][]types.Point) []types.Point {
	var out []types.Point
	for _, part := range parts {
		if len(out) > 0 && len(part) > 0 && part[0] == out[len(out)-1] {
			part = part[1:]
		}
		out = append(out, part...)
	}
	return out
}
