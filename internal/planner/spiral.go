package planner

import "github.com/rawblock/luthier-cam/pkg/models"

// stitchState is the ring-pair stitch state machine of spec §4.B:
// "{Unstarted -> RingActive -> BridgeToNext -> ... -> Complete}".
type stitchState int

const (
	stitchUnstarted stitchState = iota
	stitchRingActive
	stitchBridgeToNext
	stitchComplete
)

func (s stitchState) String() string {
	switch s {
	case stitchUnstarted:
		return "unstarted"
	case stitchRingActive:
		return "ring_active"
	case stitchBridgeToNext:
		return "bridge_to_next"
	case stitchComplete:
		return "complete"
	default:
		panic("unreachable")
	}
}

// buildSpiralSegment implements the Spiral half of spec §4.B step 3:
// rings are taken outermost-first and stitched into a single continuous
// polyline. Each ring pair is bridged at its closest pair of vertices,
// rotating the inner ring to start there and joining with a chord.
func buildSpiralSegment(order []Ring, climb bool) (segment, error) {
	wantCCW := spiralDirection(climb)
	loops := make([]models.Loop, len(order))
	for i, r := range order {
		loops[i] = enforceOrientation(r.Loop, wantCCW)
	}

	state := stitchUnstarted
	verts := make([]vertex, 0, len(loops[0])*len(loops))

	state = stitchRingActive
	cur := loops[0]
	if len(cur) < 3 {
		return segment{}, errStitchFailure(0, "outermost ring degenerates below 3 vertices")
	}
	for _, p := range cur {
		verts = append(verts, vertex{p: p, feedScale: 1.0})
	}
	anchor := cur[0]

	for i := 1; i < len(loops); i++ {
		state = stitchBridgeToNext
		next := loops[i]
		if len(next) < 3 {
			return segment{}, errStitchFailure(i-1, "inner ring degenerates below 3 vertices")
		}

		bi, ok := closestVertexIndex(next, anchor)
		if !ok {
			return segment{}, errStitchFailure(i-1, "no candidate bridge vertex on inner ring")
		}
		rotated := next.RotatedTo(bi)

		// Close the outgoing ring back to its own start, then bridge with a
		// chord to the inner ring's rotated start (spec: "concatenate with
		// a chord connecting them"). Both ends of the chord are stitch
		// points, smoothed separately via smoothing_radius_mm.
		verts = append(verts, vertex{p: anchor, feedScale: 1.0, bridge: true})
		for j, p := range rotated {
			verts = append(verts, vertex{p: p, feedScale: 1.0, bridge: j == 0})
		}

		state = stitchRingActive
		cur = rotated
		anchor = rotated[0]
	}

	// Close the innermost ring.
	verts = append(verts, vertex{p: anchor, feedScale: 1.0})
	state = stitchComplete
	_ = state

	return segment{vertices: verts, closed: false}, nil
}

// closestVertexIndex returns the index of the vertex of loop nearest to
// target, used to pick the spiral's bridge point between consecutive
// rings (spec §4.B step 3).
func closestVertexIndex(loop models.Loop, target models.Point) (int, bool) {
	if len(loop) == 0 {
		return 0, false
	}
	best := 0
	bestDist := loop[0].Dist(target)
	for i := 1; i < len(loop); i++ {
		if d := loop[i].Dist(target); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, true
}
