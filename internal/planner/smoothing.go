package planner

import (
	"math"

	"github.com/rawblock/luthier-cam/internal/geometry"
	"github.com/rawblock/luthier-cam/pkg/models"
)

const filletChordTolMM = 0.01

// sharpAngleThreshold returns the interior-angle cutoff below which a
// corner counts as "sharp" for a given fillet radius (spec §4.B step 4:
// "angle threshold derived from corner_radius_min_mm"). The threshold is
// 180° minus 2° per mm of radius, floored at 90°, so a larger radius lowers
// it and only sharper corners are filleted; a zero radius disables
// filleting.
func sharpAngleThreshold(radiusMM float64) float64 {
	if radiusMM <= 0 {
		return 0
	}
	degrees := 180.0 - radiusMM*2.0
	if degrees < 90 {
		degrees = 90
	}
	return degrees * math.Pi / 180.0
}

// applyMinFillet replaces any interior angle sharper than the threshold
// derived from radiusMM with a tangent arc of that radius (spec §4.B step
// 4). pred selects which vertices of vs are eligible (all of them for the
// corner_radius_min_mm pass, bridge-only for the smoothing_radius_mm pass).
func applyMinFillet(vs []vertex, closed bool, radiusMM float64, pred func(vertex) bool) []vertex {
	threshold := sharpAngleThreshold(radiusMM)
	if threshold <= 0 || len(vs) < 3 {
		return vs
	}

	out := make([]vertex, 0, len(vs))
	n := len(vs)
	for i := 0; i < n; i++ {
		cur := vs[i]
		if !closed && (i == 0 || i == n-1) {
			out = append(out, cur)
			continue
		}
		if !pred(cur) {
			out = append(out, cur)
			continue
		}
		prev := vs[(i-1+n)%n]
		next := vs[(i+1)%n]

		arc, ok := fillet(prev.p, cur.p, next.p, radiusMM)
		if !ok {
			out = append(out, cur)
			continue
		}
		for _, p := range arc {
			out = append(out, vertex{p: p, feedScale: cur.feedScale, bridge: cur.bridge})
		}
	}
	return out
}

// fillet computes the tangent-arc replacement for the corner at cur given
// its neighbors, returning the arc's polyline (including both trim points)
// if the corner is sharper than radiusMM's threshold.
func fillet(prev, cur, next models.Point, radiusMM float64) ([]models.Point, bool) {
	inLen := cur.Dist(prev)
	outLen := next.Dist(cur)
	if inLen < 1e-6 || outLen < 1e-6 {
		return nil, false
	}
	ux, uy := (prev.X-cur.X)/inLen, (prev.Y-cur.Y)/inLen
	vx, vy := (next.X-cur.X)/outLen, (next.Y-cur.Y)/outLen

	dot := ux*vx + uy*vy
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	psi := math.Acos(dot)
	if psi >= sharpAngleThreshold(radiusMM) || psi < 1e-6 {
		return nil, false
	}

	t := radiusMM / math.Tan(psi/2)
	maxT := math.Min(inLen, outLen) * 0.95
	if t > maxT {
		t = maxT
	}
	if t < 1e-6 {
		return nil, false
	}
	rEff := t * math.Tan(psi/2)

	a := models.Point{X: cur.X + ux*t, Y: cur.Y + uy*t}
	b := models.Point{X: cur.X + vx*t, Y: cur.Y + vy*t}

	bx, by := ux+vx, uy+vy
	bisectLen := math.Hypot(bx, by)
	if bisectLen < 1e-9 {
		return nil, false
	}
	bx, by = bx/bisectLen, by/bisectLen
	centerDist := rEff / math.Sin(psi/2)
	center := models.Point{X: cur.X + bx*centerDist, Y: cur.Y + by*centerDist}

	startRad := math.Atan2(a.Y-center.Y, a.X-center.X)
	endRad := math.Atan2(b.Y-center.Y, b.X-center.X)
	ccw := (ux*vy - uy*vx) < 0

	arc := geometry.Tessellate(center, rEff, startRad, endRad, ccw, filletChordTolMM)
	return arc, true
}
