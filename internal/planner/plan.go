package planner

import "github.com/rawblock/luthier-cam/pkg/models"

// Plan runs the full pocket-clearing pipeline of spec §4.B against req and
// returns the resulting Toolpath along with diagnostic PlanStats. A request
// that fails req.Validate returns its BadParameter or BadGeometry error; a
// pipeline failure returns PocketTooSmall or StitchFailure; either way no
// Toolpath is returned. OffsetDegenerate is not returned: an offset that
// fails part-way down the ring stack ends the stack at the last good ring
// (see buildOffsetStack). The caller (internal/engine) is responsible for
// writing a BLOCKED run artifact rather than discarding the failure silently.
func Plan(req models.PlanRequest) (models.Toolpath, PlanStats, error) {
	if err := req.Validate(); err != nil {
		return models.Toolpath{}, PlanStats{}, err
	}

	startDistance := req.MarginMM + req.ToolRadiusMM()
	step := req.Stepover * req.ToolDiameterMM
	rings, err := buildOffsetStack(req.Loops, startDistance, step)
	if err != nil {
		return models.Toolpath{}, PlanStats{}, err
	}

	deepestFirst, outermostFirst := ringTraversalOrders(rings)

	var segments []segment
	switch req.Strategy {
	case models.StrategyLanes:
		segments = buildLanesSegments(deepestFirst, req.Climb)
	case models.StrategySpiral:
		spiral, err := buildSpiralSegment(outermostFirst, req.Climb)
		if err != nil {
			return models.Toolpath{}, PlanStats{}, err
		}
		segments = []segment{spiral}
	default:
		panic("unreachable")
	}

	for i, seg := range segments {
		verts := applyMinFillet(seg.vertices, seg.closed, req.Curvature.CornerRadiusMinMM, allVertices)
		if req.SmoothingRadiusMM > 0 {
			verts = applyMinFillet(verts, seg.closed, req.SmoothingRadiusMM, bridgeVertices)
		}
		verts = applyCurvatureSlowdown(verts, seg.closed, req)
		segments[i] = segment{vertices: verts, closed: seg.closed}
	}

	toolpath, stats := emitToolpath(segments, req)
	stats.RingCount = len(rings)
	stats.Strategy = req.Strategy.String()
	return toolpath, stats, nil
}

func allVertices(vertex) bool      { return true }
func bridgeVertices(v vertex) bool { return v.bridge }
