package geometry

import (
	"math"
	"testing"

	"github.com/rawblock/luthier-cam/pkg/models"
)

func TestTessellateHalfCircleEndpoints(t *testing.T) {
	center := models.Point{X: 0, Y: 0}
	pts := Tessellate(center, 10, 0, math.Pi, true, 0.01)
	if len(pts) < 2 {
		t.Fatalf("want at least 2 points, got %d", len(pts))
	}
	if math.Abs(pts[0].X-10) > 1e-6 || math.Abs(pts[0].Y) > 1e-6 {
		t.Fatalf("first point = %+v, want (10, 0)", pts[0])
	}
	last := pts[len(pts)-1]
	if math.Abs(last.X+10) > 1e-6 || math.Abs(last.Y) > 1e-6 {
		t.Fatalf("last point = %+v, want (-10, 0)", last)
	}
}

func TestTessellateFinerToleranceProducesMorePoints(t *testing.T) {
	center := models.Point{X: 0, Y: 0}
	coarse := Tessellate(center, 10, 0, math.Pi, true, 1.0)
	fine := Tessellate(center, 10, 0, math.Pi, true, 0.001)
	if len(coarse) >= len(fine) {
		t.Fatalf("coarse tessellation (%d pts) should have fewer points than fine (%d pts)", len(coarse), len(fine))
	}
}

func TestTessellateCWSweepsBackward(t *testing.T) {
	center := models.Point{X: 0, Y: 0}
	pts := Tessellate(center, 5, math.Pi/2, 0, false, 0.01)
	if math.Abs(pts[0].X) > 1e-6 || math.Abs(pts[0].Y-5) > 1e-6 {
		t.Fatalf("first point = %+v, want (0, 5)", pts[0])
	}
	last := pts[len(pts)-1]
	if math.Abs(last.X-5) > 1e-6 || math.Abs(last.Y) > 1e-6 {
		t.Fatalf("last point = %+v, want (5, 0)", last)
	}
}
