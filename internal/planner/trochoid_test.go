package planner

import (
	"math"
	"testing"

	"github.com/rawblock/luthier-cam/pkg/models"
)

func TestTrochoidMovesReturnsToAnchor(t *testing.T) {
	p := models.Point{X: 10, Y: 5}
	moves := trochoidMoves(p, 1, 0, 2, -3, 800)
	if len(moves) != 2 {
		t.Fatalf("want 2 moves, got %d", len(moves))
	}
	for _, m := range moves {
		if m.Kind != models.MoveArcCW {
			t.Errorf("want MoveArcCW, got %v", m.Kind)
		}
		if !m.Meta.Trochoid {
			t.Errorf("want Meta.Trochoid = true")
		}
		if m.To.Z != -3 {
			t.Errorf("To.Z = %v, want -3", m.To.Z)
		}
	}
	last := moves[len(moves)-1]
	if math.Abs(last.To.X-p.X) > 1e-9 || math.Abs(last.To.Y-p.Y) > 1e-9 {
		t.Errorf("final move must terminate exactly at the original anchor, got (%v,%v) want (%v,%v)", last.To.X, last.To.Y, p.X, p.Y)
	}
}

func TestInsertLoopsAlongSegmentRespectsCap(t *testing.T) {
	req := baseRequest()
	req.Trochoid = models.TrochoidOptions{UseTrochoids: true, TrochoidRadiusMM: 1, TrochoidPitchMM: 0.5}
	// A very long segment at a tiny pitch would want far more than
	// TrochoidLoopCap loops; the cap must still hold.
	moves, _, loops := insertLoopsAlongSegment(nil, models.Point{X: 0, Y: 0}, models.Point{X: 1000, Y: 0}, req, 1.0, 0, 0)
	if loops != TrochoidLoopCap {
		t.Errorf("loops = %d, want %d (cap)", loops, TrochoidLoopCap)
	}
	last := moves[len(moves)-1]
	if last.To.X != 1000 || last.To.Y != 0 {
		t.Errorf("segment must still end exactly at b, got (%v,%v)", last.To.X, last.To.Y)
	}
}

func TestInsertLoopsAlongSegmentNoLoopsWhenSegmentShort(t *testing.T) {
	req := baseRequest()
	req.Trochoid = models.TrochoidOptions{UseTrochoids: true, TrochoidRadiusMM: 1, TrochoidPitchMM: 100}
	moves, dist, loops := insertLoopsAlongSegment(nil, models.Point{X: 0, Y: 0}, models.Point{X: 1, Y: 0}, req, 1.0, 0, 0)
	if loops != 0 {
		t.Errorf("want 0 loops for a segment shorter than pitch, got %d", loops)
	}
	if len(moves) != 1 {
		t.Fatalf("want exactly 1 move (linear to b), got %d", len(moves))
	}
	if dist != 1 {
		t.Errorf("distSinceLoop should carry forward the full segment length, got %v", dist)
	}
}
