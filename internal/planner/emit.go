package planner

import "github.com/rawblock/luthier-cam/pkg/models"

func linearMove(p models.Point, z, feed, slowdown float64) models.Move {
	m := models.Move{Kind: models.MoveLinear, To: models.Point3{X: p.X, Y: p.Y, Z: z}, Feed: feed}
	if slowdown > 0 {
		m.Meta = models.MoveMeta{Slowdown: slowdown}
	}
	return m
}

// emitToolpath implements spec §4.B step 7: wrap each segment's polyline
// with an initial Rapid to safe_z, a plunge at feed_z, cutting moves at
// feed_xy (scaled per step 5's slowdown and the session override factor),
// and a final retract to safe_z. Trochoidal relief (step 6) is spliced
// into the cutting pass inline, run by run.
func emitToolpath(segments []segment, req models.PlanRequest) (models.Toolpath, PlanStats) {
	sessionOverride := req.EffectiveSessionOverrideFactor()
	var moves []models.Move
	stats := PlanStats{}

	for _, seg := range segments {
		if len(seg.vertices) == 0 {
			continue
		}
		verts := seg.vertices
		if seg.closed {
			verts = append(append([]vertex{}, verts...), verts[0])
		}
		start := verts[0].p

		moves = append(moves,
			models.Move{Kind: models.MoveRapid, To: models.Point3{X: start.X, Y: start.Y, Z: req.SafeZMM}, Feed: req.Feeds.Rapid},
			models.Move{Kind: models.MoveLinear, To: models.Point3{X: start.X, Y: start.Y, Z: req.ZRoughMM}, Feed: req.Feeds.Z},
		)

		inRun := false
		runLoops := 0
		distSinceLoop := 0.0
		for i := 1; i < len(verts); i++ {
			a, b := verts[i-1], verts[i]
			overload := req.Trochoid.UseTrochoids && a.feedScale < defaultSlowdownThreshold

			if overload {
				if !inRun {
					inRun, runLoops, distSinceLoop = true, 0, 0
				}
				before := len(moves)
				moves, distSinceLoop, runLoops = insertLoopsAlongSegment(moves, a.p, b.p, req, sessionOverride, distSinceLoop, runLoops)
				stats.TrochoidLoopCount += (len(moves) - before - 1) / 3
				continue
			}
			inRun = false
			feed := clampFeed(req.Feeds.XY, a.feedScale, sessionOverride)
			moves = append(moves, linearMove(b.p, req.ZRoughMM, feed, a.feedScale))
		}

		last := verts[len(verts)-1]
		moves = append(moves, models.Move{Kind: models.MoveLinear, To: models.Point3{X: last.p.X, Y: last.p.Y, Z: req.SafeZMM}, Feed: req.Feeds.Z})
	}

	tp := models.Toolpath{Moves: moves}
	stats.CuttingMoveCount = tp.CuttingMoveCount()
	stats.TotalLengthMM = tp.Length()
	return tp, stats
}
