package planner

import (
	"github.com/rawblock/luthier-cam/internal/geometry"
	"github.com/rawblock/luthier-cam/pkg/models"
)

// minSlowdownFeedScale is a floor on the curvature slowdown scale itself
// (spec §4.B step 5's companion clamp is on the resulting feed, in
// minFeedMMPerMin below); kept generous so the scale never collapses to
// zero even at extreme curvature.
const minSlowdownFeedScale = 0.1

// minFeedMMPerMin is the absolute feed floor spec §4.B step 5 imposes
// after the curvature slowdown scale is applied.
const minFeedMMPerMin = 100.0

// applyCurvatureSlowdown implements spec §4.B step 5: resample the
// segment's polyline adaptively, then attach a per-vertex feed scale
// derived from local curvature.
func applyCurvatureSlowdown(vs []vertex, closed bool, tool models.PlanRequest) []vertex {
	pts := make([]models.Point, len(vs))
	for i, v := range vs {
		pts[i] = v.p
	}
	if closed && len(pts) > 0 {
		pts = append(pts, pts[0])
	}

	kThreshold := geometry.DefaultCurvatureThreshold(tool.ToolDiameterMM)
	dsMax := tool.Curvature.TargetStepover
	if dsMax <= 0 {
		dsMax = tool.ToolDiameterMM * tool.Stepover
	}
	dsMin := dsMax / 4
	if dsMin <= 0 {
		dsMin = 0.1
	}

	resampled := geometry.Resample(pts, dsMin, dsMax, kThreshold)
	if closed && len(resampled) > 1 {
		resampled = resampled[:len(resampled)-1]
	}

	minScale := minSlowdownFeedScale
	if tool.Curvature.SlowdownFeedPct > 0 && tool.Curvature.SlowdownFeedPct < 1 {
		minScale = tool.Curvature.SlowdownFeedPct
	}
	factors := geometry.SlowdownFactors(resampled, kThreshold, minScale)

	out := make([]vertex, len(resampled))
	for i, p := range resampled {
		out[i] = vertex{p: p, feedScale: factors[i]}
	}
	return out
}

// clampFeed applies step 5's slowdown scale and 100 mm/min floor first,
// then step 7's session override multiply (spec §4.B "Session override...
// after slowdown and before machine-cap enforcement" — the machine cap
// itself is enforced downstream by internal/motion, not here).
func clampFeed(baseFeed, slowdownScale, sessionOverride float64) float64 {
	feed := baseFeed * slowdownScale
	if feed < minFeedMMPerMin {
		feed = minFeedMMPerMin
	}
	return feed * sessionOverride
}
