package planner

import "github.com/rawblock/luthier-cam/pkg/models"

// TrochoidLoopCap bounds the number of relief loops inserted into any one
// contiguous overload run (spec §4.B step 6, "Cap loops per segment at a
// safety limit (default 64)").
const TrochoidLoopCap = 64

// defaultSlowdownThreshold is the feed-scale cutoff below which a cutting
// move counts as an overload candidate for trochoidal relief (spec §4.B
// step 6 default 0.85).
const defaultSlowdownThreshold = 0.85

// insertLoopsAlongSegment walks the line from a to b, inserting a trochoid
// loop at every pitch mm of travel accumulated (including carry-over from
// prior overload segments via distSinceLoop), up to TrochoidLoopCap loops
// per contiguous run. Segment geometry between loops is plain Linear
// cutting at full feed; loop arcs also run at full feed — the curvature
// slowdown does not apply to them, since the engagement relief the loops
// provide already addresses the same overload condition.
func insertLoopsAlongSegment(moves []models.Move, a, b models.Point, req models.PlanRequest, sessionOverride, distSinceLoop float64, loopsSoFar int) ([]models.Move, float64, int) {
	radius := req.Trochoid.TrochoidRadiusMM
	if radius <= 0 {
		radius = req.ToolDiameterMM * 0.375
	}
	pitch := req.Trochoid.TrochoidPitchMM
	if pitch <= 0 {
		pitch = req.ToolDiameterMM
	}

	fullFeed := clampFeed(req.Feeds.XY, 1.0, sessionOverride)
	segLen := a.Dist(b)
	if radius <= 0 || pitch <= 0 || segLen < 1e-9 {
		moves = append(moves, linearMove(b, req.ZRoughMM, fullFeed, 0))
		return moves, distSinceLoop, loopsSoFar
	}

	ux, uy := (b.X-a.X)/segLen, (b.Y-a.Y)/segLen
	walked := 0.0
	for loopsSoFar < TrochoidLoopCap && distSinceLoop+(segLen-walked) >= pitch {
		step := pitch - distSinceLoop
		walked += step
		anchor := models.Point{X: a.X + ux*walked, Y: a.Y + uy*walked}

		moves = append(moves, linearMove(anchor, req.ZRoughMM, fullFeed, 0))
		moves = append(moves, trochoidMoves(anchor, ux, uy, radius, req.ZRoughMM, fullFeed)...)

		loopsSoFar++
		distSinceLoop = 0
	}
	distSinceLoop += segLen - walked
	moves = append(moves, linearMove(b, req.ZRoughMM, fullFeed, 0))
	return moves, distSinceLoop, loopsSoFar
}

// trochoidMoves builds the departure/return arc pair for one loop anchored
// at p, perpendicular to travel direction (ux, uy). Both arcs share one
// center and rotate the same sense: p and its antipode on that circle are
// connected by two distinct semicircles, and only a same-handed pair
// traces both without retracing the first leg — the return leg keeps the
// same G-code rotation as the departure arc rather than the opposite one
// (see DESIGN.md).
func trochoidMoves(p models.Point, ux, uy, radius, z, feed float64) []models.Move {
	nx, ny := -uy, ux
	center := models.Point{X: p.X + nx*radius, Y: p.Y + ny*radius}
	apex := models.Point{X: p.X + 2*nx*radius, Y: p.Y + 2*ny*radius}

	return []models.Move{
		{
			Kind:         models.MoveArcCW,
			To:           models.Point3{X: apex.X, Y: apex.Y, Z: z},
			CenterOffset: models.Point{X: center.X - p.X, Y: center.Y - p.Y},
			Feed:         feed,
			Meta:         models.MoveMeta{Trochoid: true},
		},
		{
			Kind:         models.MoveArcCW,
			To:           models.Point3{X: p.X, Y: p.Y, Z: z},
			CenterOffset: models.Point{X: center.X - apex.X, Y: center.Y - apex.Y},
			Feed:         feed,
			Meta:         models.MoveMeta{Trochoid: true},
		},
	}
}
