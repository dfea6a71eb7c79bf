package planner

// buildLanesSegments implements the Lanes half of spec §4.B step 3: each
// ring becomes its own closed loop segment, direction alternating per ring
// unless climb milling is requested. Rings are taken in deepest-first order
// so the innermost pocket clears before the planner moves outward.
func buildLanesSegments(order []Ring, climb bool) []segment {
	segments := make([]segment, 0, len(order))
	for i, r := range order {
		loop := enforceOrientation(r.Loop, laneDirection(i, climb))
		verts := make([]vertex, len(loop))
		for j, p := range loop {
			verts[j] = vertex{p: p, feedScale: 1.0}
		}
		segments = append(segments, segment{vertices: verts, closed: true})
	}
	return segments
}
