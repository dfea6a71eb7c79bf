package planner

import (
	"testing"

	"github.com/rawblock/luthier-cam/pkg/models"
)

func squareSegment() segment {
	verts := []vertex{
		{p: models.Point{X: 0, Y: 0}, feedScale: 1.0},
		{p: models.Point{X: 10, Y: 0}, feedScale: 1.0},
		{p: models.Point{X: 10, Y: 10}, feedScale: 1.0},
		{p: models.Point{X: 0, Y: 10}, feedScale: 1.0},
	}
	return segment{vertices: verts, closed: true}
}

func TestEmitToolpathShape(t *testing.T) {
	req := baseRequest()
	tp, stats := emitToolpath([]segment{squareSegment()}, req)

	if len(tp.Moves) < 3 {
		t.Fatalf("want at least 3 moves, got %d", len(tp.Moves))
	}
	if tp.Moves[0].Kind != models.MoveRapid {
		t.Errorf("first move should be Rapid, got %v", tp.Moves[0].Kind)
	}
	if tp.Moves[0].To.Z != req.SafeZMM {
		t.Errorf("first move should rapid to safe_z, got Z=%v", tp.Moves[0].To.Z)
	}
	if tp.Moves[1].Kind != models.MoveLinear || tp.Moves[1].To.Z != req.ZRoughMM {
		t.Errorf("second move should be a Linear plunge to z_rough, got %v Z=%v", tp.Moves[1].Kind, tp.Moves[1].To.Z)
	}
	last := tp.Moves[len(tp.Moves)-1]
	if last.Kind != models.MoveLinear || last.To.Z != req.SafeZMM {
		t.Errorf("last move should be a Linear retract to safe_z, got %v Z=%v", last.Kind, last.To.Z)
	}

	if err := tp.Validate(req.SafeZMM); err != nil {
		t.Errorf("emitted toolpath should be valid: %v", err)
	}

	if stats.CuttingMoveCount != tp.CuttingMoveCount() {
		t.Errorf("stats.CuttingMoveCount = %d, want %d", stats.CuttingMoveCount, tp.CuttingMoveCount())
	}
	if stats.TotalLengthMM <= 0 {
		t.Errorf("stats.TotalLengthMM should be positive, got %v", stats.TotalLengthMM)
	}
}

func TestEmitToolpathAppliesSessionOverride(t *testing.T) {
	overridden := baseRequest()
	overridden.SessionOverrideFactor = 1.5
	tpDefault, _ := emitToolpath([]segment{squareSegment()}, baseRequest())
	tpOverridden, _ := emitToolpath([]segment{squareSegment()}, overridden)

	// Moves[0] is the initial Rapid, Moves[1] the plunge at feed_z; Moves[2]
	// is the first cutting move at feed_xy, which is where slowdown and the
	// session override apply.
	feedDefault := tpDefault.Moves[2].Feed
	feedOverridden := tpOverridden.Moves[2].Feed
	if feedOverridden <= feedDefault {
		t.Errorf("session override 1.5 should scale cutting feed up: default=%v overridden=%v", feedDefault, feedOverridden)
	}
}
