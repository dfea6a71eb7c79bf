package models

// Loop is an ordered sequence of Points forming a simple closed polygon.
// The first point is not repeated as the last; closure is implicit.
// Minimum 3 points. Orientation: outer loops are counter-clockwise, island
// loops are clockwise — signed area determines orientation (spec §3).
type Loop []Point

// SignedArea returns the shoelace signed area; positive means CCW.
func (l Loop) SignedArea() float64 {
	n := len(l)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += l[i].X*l[j].Y - l[j].X*l[i].Y
	}
	return sum / 2
}

// IsCCW reports whether the loop winds counter-clockwise.
func (l Loop) IsCCW() bool { return l.SignedArea() > 0 }

// Reversed returns a copy of the loop with vertex order reversed, flipping
// its orientation.
func (l Loop) Reversed() Loop {
	out := make(Loop, len(l))
	n := len(l)
	for i, p := range l {
		out[n-1-i] = p
	}
	return out
}

// RotatedTo returns a copy of the loop starting at vertex index i.
func (l Loop) RotatedTo(i int) Loop {
	n := len(l)
	if n == 0 {
		return nil
	}
	i = ((i % n) + n) % n
	out := make(Loop, 0, n)
	out = append(out, l[i:]...)
	out = append(out, l[:i]...)
	return out
}

// LoopSet is a non-empty ordered sequence of Loops; element 0 is the outer
// boundary, elements 1..n are keep-out islands.
type LoopSet []Loop

// Outer is the outer boundary loop (element 0).
func (ls LoopSet) Outer() Loop { return ls[0] }

// Islands are the keep-out loops (elements 1..n).
func (ls LoopSet) Islands() []Loop { return ls[1:] }

// Validate checks the LoopSet invariants from spec §3: non-empty, every
// loop has >= 3 points, outer loop is CCW, islands are CW, and islands lie
// strictly inside the outer loop (bounding-box containment as a cheap
// necessary check — full polygon containment is left to the offset engine,
// which fails loudly via ErrOffsetDegenerate if the topology is infeasible).
func (ls LoopSet) Validate() error {
	if len(ls) == 0 {
		return errBadGeometry("empty loop set")
	}
	for i, l := range ls {
		if len(l) < 3 {
			return errBadGeometry("loop has fewer than 3 points")
		}
		for _, p := range l {
			if !p.Finite() {
				return errBadGeometry("loop contains a non-finite point")
			}
		}
		if i == 0 && !l.IsCCW() {
			return errBadGeometry("outer loop must be counter-clockwise")
		}
		if i > 0 && l.IsCCW() {
			return errBadGeometry("island loop must be clockwise")
		}
	}
	outerBox := boundingBox(ls[0])
	for _, island := range ls.Islands() {
		if !boundingBox(island).insideOf(outerBox) {
			return errBadGeometry("island loop is not contained by the outer loop")
		}
	}
	return nil
}

type bbox struct{ minX, minY, maxX, maxY float64 }

func boundingBox(l Loop) bbox {
	b := bbox{minX: l[0].X, minY: l[0].Y, maxX: l[0].X, maxY: l[0].Y}
	for _, p := range l[1:] {
		if p.X < b.minX {
			b.minX = p.X
		}
		if p.X > b.maxX {
			b.maxX = p.X
		}
		if p.Y < b.minY {
			b.minY = p.Y
		}
		if p.Y > b.maxY {
			b.maxY = p.Y
		}
	}
	return b
}

func (b bbox) insideOf(o bbox) bool {
	return b.minX >= o.minX && b.maxX <= o.maxX && b.minY >= o.minY && b.maxY <= o.maxY
}
