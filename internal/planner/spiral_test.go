package planner

import (
	"testing"

	"github.com/rawblock/luthier-cam/pkg/errs"
	"github.com/rawblock/luthier-cam/pkg/models"

	"errors"
)

func TestBuildSpiralSegmentStitchesContinuously(t *testing.T) {
	outer := rectangle(100, 60)
	rings, err := buildOffsetStack(models.LoopSet{outer}, 3, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, outermostFirst := ringTraversalOrders(rings)

	seg, err := buildSpiralSegment(outermostFirst, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seg.closed {
		t.Errorf("spiral segment should be open (closed=false), it is a single stitched spiral")
	}
	if len(seg.vertices) == 0 {
		t.Fatalf("spiral segment has no vertices")
	}
	// Every ring's winding should be forced CW (spiralDirection(false)).
	var bridgeCount int
	for _, v := range seg.vertices {
		if v.bridge {
			bridgeCount++
		}
	}
	if bridgeCount == 0 {
		t.Errorf("multi-ring spiral should have at least one bridge vertex")
	}
}

func TestClosestVertexIndex(t *testing.T) {
	loop := models.Loop{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	idx, ok := closestVertexIndex(loop, models.Point{X: 9, Y: 9})
	if !ok {
		t.Fatalf("want ok=true")
	}
	if idx != 2 {
		t.Errorf("closest vertex to (9,9) = index %d, want 2", idx)
	}
}

func TestBuildSpiralSegmentStitchFailureOnDegenerateRing(t *testing.T) {
	order := []Ring{
		{Loop: models.Loop{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}, Depth: 0},
		{Loop: models.Loop{{X: 5, Y: 5}, {X: 6, Y: 5}}, Depth: 1},
	}
	_, err := buildSpiralSegment(order, false)
	if err == nil {
		t.Fatalf("want a StitchFailure error, got nil")
	}
	if !errors.Is(err, errs.ErrStitchFailure) {
		t.Fatalf("want ErrStitchFailure, got %v", err)
	}
}
