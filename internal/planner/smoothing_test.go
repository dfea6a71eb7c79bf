package planner

import (
	"math"
	"testing"

	"github.com/rawblock/luthier-cam/pkg/models"
)

func TestSharpAngleThreshold(t *testing.T) {
	if sharpAngleThreshold(0) != 0 {
		t.Errorf("zero radius should disable filleting (threshold 0)")
	}
	small := sharpAngleThreshold(1)
	large := sharpAngleThreshold(10)
	if small <= large {
		t.Errorf("a larger fillet radius should produce a smaller (stricter) angle threshold: small=%v large=%v", small, large)
	}
	// Floored at 90 degrees even for very large radii.
	huge := sharpAngleThreshold(1000)
	if huge < math.Pi/2-1e-9 {
		t.Errorf("sharpAngleThreshold should floor at 90deg, got %v rad", huge)
	}
}

func TestFilletRoundsSharpCorner(t *testing.T) {
	// A 90-degree corner at the origin.
	prev := models.Point{X: -10, Y: 0}
	cur := models.Point{X: 0, Y: 0}
	next := models.Point{X: 0, Y: 10}

	arc, ok := fillet(prev, cur, next, 2)
	if !ok {
		t.Fatalf("want a sharp 90deg corner to be filleted")
	}
	if len(arc) < 2 {
		t.Fatalf("fillet arc should have at least 2 points, got %d", len(arc))
	}
	for _, p := range arc {
		if p == cur {
			t.Errorf("fillet should trim away the original sharp vertex, found it in the arc")
		}
	}
}

func TestFilletLeavesGentleCornerAlone(t *testing.T) {
	// A nearly straight corner (~179.7 degrees) should not be filleted at a
	// modest radius.
	prev := models.Point{X: -10, Y: 0}
	cur := models.Point{X: 0, Y: 0}
	next := models.Point{X: 10, Y: 0.05}

	_, ok := fillet(prev, cur, next, 1)
	if ok {
		t.Errorf("want a gentle corner to be left alone")
	}
}

func TestApplyMinFilletSkipsOpenEndpoints(t *testing.T) {
	verts := []vertex{
		{p: models.Point{X: -10, Y: 0}},
		{p: models.Point{X: 0, Y: 0}},
		{p: models.Point{X: 0, Y: 10}},
	}
	out := applyMinFillet(verts, false, 2, allVertices)
	if out[0].p != verts[0].p {
		t.Errorf("open segment's first vertex must never be filleted")
	}
	if out[len(out)-1].p != verts[len(verts)-1].p {
		t.Errorf("open segment's last vertex must never be filleted")
	}
}

func TestApplyMinFilletZeroRadiusIsNoop(t *testing.T) {
	verts := []vertex{
		{p: models.Point{X: -10, Y: 0}},
		{p: models.Point{X: 0, Y: 0}},
		{p: models.Point{X: 0, Y: 10}},
	}
	out := applyMinFillet(verts, false, 0, allVertices)
	if len(out) != len(verts) {
		t.Errorf("zero radius should leave the vertex list untouched")
	}
}
