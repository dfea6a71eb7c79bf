package geometry

import (
	"math"

	"github.com/rawblock/luthier-cam/pkg/models"
)

// Tessellate converts the arc centered at center, from startRad to endRad
// (ccw controls sweep direction), into a polyline whose chord-to-arc
// deviation never exceeds chordTol (spec §4.A). The returned slice includes
// both endpoints.
func Tessellate(center models.Point, radius float64, startRad, endRad float64, ccw bool, chordTol float64) []models.Point {
	sweep := endRad - startRad
	if ccw {
		for sweep <= 0 {
			sweep += 2 * math.Pi
		}
	} else {
		for sweep >= 0 {
			sweep -= 2 * math.Pi
		}
	}

	if radius < minEdgeLenMM {
		return []models.Point{center, center}
	}
	if chordTol <= 0 {
		chordTol = 1e-3
	}
	if chordTol > radius {
		chordTol = radius
	}

	// N = max(6, ceil(arc_length / chord_tolerance)) (spec §4.A): the min-6
	// floor keeps small-radius, small-sweep arcs (where arc_length alone
	// would round to just one or two segments) visibly round rather than
	// faceted.
	arcLength := radius * math.Abs(sweep)
	segments := int(math.Ceil(arcLength / chordTol))
	if segments < 6 {
		segments = 6
	}

	pts := make([]models.Point, 0, segments+1)
	for s := 0; s <= segments; s++ {
		theta := startRad + sweep*float64(s)/float64(segments)
		pts = append(pts, models.Point{
			X: center.X + radius*math.Cos(theta),
			Y: center.Y + radius*math.Sin(theta),
		})
	}
	return pts
}
