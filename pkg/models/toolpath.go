package models

// continuityEpsilonMM is the maximum allowed gap between the end of one
// move and the start of the next (spec §3: "within 1 µm").
const continuityEpsilonMM = 0.001

// Toolpath is a finite ordered sequence of Moves starting with a rapid to a
// safe Z plane and ending with a retract to safe Z (spec §3).
type Toolpath struct {
	Moves []Move `json:"moves"`
}

// Validate checks the Toolpath invariants of spec §3 and §8: it must start
// with a Rapid, end at a move returning to SafeZ, and have no cutting move
// above Z=0 other than a retract. Move-to-move continuity (end of one = start of next within
// 1 µm) is guaranteed by construction: this model has no explicit "from"
// field, so every move implicitly starts where the previous one ended —
// there is no representable discontinuous toolpath to reject here. Callers
// that assemble Moves from independently-computed geometry (arc centers,
// stitched segments) are responsible for feeding Validate a path where each
// move's To was in fact computed relative to the prior move's To; Validate
// does not check that.
func (tp Toolpath) Validate(safeZ float64) error {
	if len(tp.Moves) == 0 {
		return errBadGeometry("toolpath has no moves")
	}
	if tp.Moves[0].Kind != MoveRapid {
		return errBadGeometry("toolpath must start with a rapid to safe Z")
	}
	last := tp.Moves[len(tp.Moves)-1]
	if last.To.Z < safeZ-continuityEpsilonMM {
		return errBadGeometry("toolpath must end with a retract to safe Z")
	}
	// The final retract is exempt: it is mandated to end at safe_z (checked
	// above) which is itself required to be > 0, so it would otherwise always
	// trip this check despite not being a material-removing move. A pure-Z
	// retract to safe_z earlier in the path (Lanes retracts between rings)
	// is exempt for the same reason.
	var cursor Point3
	for i, m := range tp.Moves[:len(tp.Moves)-1] {
		retract := i > 0 && m.To.XY() == cursor.XY() && m.To.Z >= safeZ-continuityEpsilonMM
		cursor = m.To
		if m.IsCutting() && m.To.Z > 1e-9 && !retract {
			return errBadGeometry("cutting move above Z=0")
		}
	}
	return nil
}

// Length returns the total 3D path length of all moves.
func (tp Toolpath) Length() float64 {
	var total float64
	var cursor Point3
	for i, m := range tp.Moves {
		if i > 0 {
			total += cursor.Dist3(m.To)
		}
		cursor = m.To
	}
	return total
}

// CuttingMoveCount returns the number of non-rapid moves.
func (tp Toolpath) CuttingMoveCount() int {
	n := 0
	for _, m := range tp.Moves {
		if m.IsCutting() {
			n++
		}
	}
	return n
}
