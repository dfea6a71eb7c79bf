package geometry

import (
	"fmt"
	"math"

	"github.com/rawblock/luthier-cam/pkg/models"
)

// coordScale is the fixed-point grid Offset snaps intermediate miter-join
// math onto before handing coordinates back as float64 mm, matching spec
// §4.A's "scale by 1e5, round to int64" description without pulling in a
// real integer polygon-clipping library (none exists anywhere in the
// retrieved pack — see DESIGN.md).
const coordScale = 1e5

const miterLimit = 2.0

func snap(v float64) float64 {
	return math.Round(v*coordScale) / coordScale
}

// Offset shrinks the outer loop and grows every island of loops by distance
// mm (spec §4.A): a single uniform inward-offset routine handles both,
// because translating every edge along its loop-relative left normal
// shrinks a CCW outer ring and grows a CW island ring in exactly the same
// pass. Returns geometry.ErrOffsetDegenerate when the outer ring collapses;
// an island that collapses is dropped from the result instead.
func Offset(loops models.LoopSet, distance float64) ([]models.Loop, error) {
	if distance < 0 {
		return nil, fmt.Errorf("geometry.Offset: distance must be >= 0: %w", ErrOffsetDegenerate)
	}
	out := make([]models.Loop, 0, 1+len(loops.Islands()))

	outer, ok := offsetRing(loops.Outer(), distance)
	if !ok {
		return nil, fmt.Errorf("geometry.Offset: outer ring: %w", ErrOffsetDegenerate)
	}
	out = append(out, outer)

	for _, island := range loops.Islands() {
		grown, ok := offsetRing(island, distance)
		if !ok {
			// An island that collapses under growth simply vanishes from
			// the ring (it has been fully swallowed by clearance) rather
			// than failing the whole offset.
			continue
		}
		out = append(out, grown)
	}
	return out, nil
}

// offsetRing translates every edge of loop along its left normal by dist
// and rejoins adjacent offset edges with a miter join (clamped to
// miterLimit*dist, falling back to a bevel beyond that). Returns ok=false
// if the result collapses (fewer than 3 usable vertices, an offset edge
// that runs against its source edge, or the polygon's winding flips).
func offsetRing(loop models.Loop, dist float64) (models.Loop, bool) {
	n := len(loop)
	if n < 3 {
		return nil, false
	}
	if dist < minEdgeLenMM {
		cp := make(models.Loop, n)
		copy(cp, loop)
		return cp, true
	}

	type edge struct{ a, b models.Point }
	edges := make([]edge, n)
	for i := 0; i < n; i++ {
		p := loop[i]
		q := loop[(i+1)%n]
		dx, dy := q.X-p.X, q.Y-p.Y
		length := math.Hypot(dx, dy)
		if length < minEdgeLenMM {
			return nil, false
		}
		// Left normal of the directed edge (-dy, dx), unit length.
		nx, ny := -dy/length, dx/length
		edges[i] = edge{
			a: models.Point{X: p.X + nx*dist, Y: p.Y + ny*dist},
			b: models.Point{X: q.X + nx*dist, Y: q.Y + ny*dist},
		}
	}

	out := make(models.Loop, 0, n)
	for i := 0; i < n; i++ {
		prev := edges[(i-1+n)%n]
		cur := edges[i]
		v := loop[i]
		pt, ok := lineIntersect(prev.a, prev.b, cur.a, cur.b)
		if !ok {
			// Parallel/degenerate join: bevel using the current edge's start.
			pt = cur.a
		}
		if pt.Dist(v) > dist*miterLimit {
			// Miter exceeds the limit: clamp to a bevel point on the
			// bisector instead of the raw intersection.
			mx, my := pt.X-v.X, pt.Y-v.Y
			ml := math.Hypot(mx, my)
			if ml < minEdgeLenMM {
				pt = cur.a
			} else {
				scale := (dist * miterLimit) / ml
				pt = models.Point{X: v.X + mx*scale, Y: v.Y + my*scale}
			}
		}
		out = append(out, models.Point{X: snap(pt.X), Y: snap(pt.Y)})
	}

	// Offsetting past the inscribed radius can turn the ring inside out
	// through both axes, which keeps its winding sign; every edge then runs
	// against its source edge, so a reversed edge counts as a collapse.
	for i := 0; i < n; i++ {
		a, b := out[i], out[(i+1)%n]
		p, q := loop[i], loop[(i+1)%n]
		if (b.X-a.X)*(q.X-p.X)+(b.Y-a.Y)*(q.Y-p.Y) < 0 {
			return nil, false
		}
	}

	if dedup := dedupeCollinear(out); len(dedup) < 3 {
		return nil, false
	} else {
		out = dedup
	}

	if math.Signbit(out.SignedArea()) != math.Signbit(loop.SignedArea()) {
		return nil, false
	}
	return out, true
}

func lineIntersect(p1, p2, p3, p4 models.Point) (models.Point, bool) {
	d1x, d1y := p2.X-p1.X, p2.Y-p1.Y
	d2x, d2y := p4.X-p3.X, p4.Y-p3.Y
	denom := d1x*d2y - d1y*d2x
	if math.Abs(denom) < 1e-12 {
		return models.Point{}, false
	}
	t := ((p3.X-p1.X)*d2y - (p3.Y-p1.Y)*d2x) / denom
	return models.Point{X: p1.X + t*d1x, Y: p1.Y + t*d1y}, true
}

func dedupeCollinear(loop models.Loop) models.Loop {
	n := len(loop)
	out := make(models.Loop, 0, n)
	for i := 0; i < n; i++ {
		p := loop[i]
		if len(out) > 0 && out[len(out)-1].Dist(p) < minEdgeLenMM {
			continue
		}
		out = append(out, p)
	}
	if len(out) > 1 && out[0].Dist(out[len(out)-1]) < minEdgeLenMM {
		out = out[:len(out)-1]
	}
	return out
}

// InscribedRadius binary-searches the largest distance at which Offset
// still returns a non-degenerate outer ring (spec §4.A), used for ring-stack
// sizing and the policy engine's PocketTooSmall check.
func InscribedRadius(loop models.Loop) float64 {
	set := models.LoopSet{loop}
	lo, hi := 0.0, maxRadiusBound(loop)
	if _, err := Offset(set, hi); err == nil {
		return hi
	}
	for i := 0; i < 48; i++ {
		mid := (lo + hi) / 2
		if _, err := Offset(set, mid); err == nil {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

func maxRadiusBound(loop models.Loop) float64 {
	minX, minY, maxX, maxY := loop[0].X, loop[0].Y, loop[0].X, loop[0].Y
	for _, p := range loop {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	w, h := maxX-minX, maxY-minY
	bound := math.Max(w, h)
	if bound <= 0 {
		return 1.0
	}
	return bound
}
