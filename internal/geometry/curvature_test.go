package geometry

import (
	"testing"

	"github.com/rawblock/luthier-cam/pkg/models"
)

func TestCurvatureZeroOnStraightLine(t *testing.T) {
	poly := []models.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}
	for i := range poly {
		if k := Curvature(poly, i); k != 0 {
			t.Fatalf("Curvature(poly, %d) = %v, want 0", i, k)
		}
	}
}

func TestCurvatureNonzeroOnSharpTurn(t *testing.T) {
	poly := []models.Point{{X: -1, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 1}}
	if k := Curvature(poly, 1); k <= 0 {
		t.Fatalf("Curvature = %v, want > 0", k)
	}
}

func TestCurvatureZeroAtEndpoints(t *testing.T) {
	poly := []models.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}
	if k := Curvature(poly, 0); k != 0 {
		t.Fatalf("Curvature(poly, 0) = %v, want 0", k)
	}
	if k := Curvature(poly, 2); k != 0 {
		t.Fatalf("Curvature(poly, 2) = %v, want 0", k)
	}
}

func TestSlowdownFactorsEndpointsFullSpeed(t *testing.T) {
	poly := []models.Point{{X: -1, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	factors := SlowdownFactors(poly, DefaultCurvatureThreshold(6), 0.4)
	if factors[0] != 1.0 || factors[len(factors)-1] != 1.0 {
		t.Fatalf("endpoint factors = %v, %v, want 1.0, 1.0", factors[0], factors[len(factors)-1])
	}
	for i, f := range factors {
		if f < 0.4 || f > 1.0 {
			t.Fatalf("factors[%d] = %v, out of [0.4, 1.0]", i, f)
		}
	}
}

func TestResamplePreservesEndpoints(t *testing.T) {
	poly := make([]models.Point, 0, 50)
	for i := 0; i < 50; i++ {
		poly = append(poly, models.Point{X: float64(i) * 0.2, Y: 0})
	}
	out := Resample(poly, 0.5, 2.0, DefaultCurvatureThreshold(6))
	if out[0] != poly[0] {
		t.Fatalf("first point = %+v, want %+v", out[0], poly[0])
	}
	if out[len(out)-1] != poly[len(poly)-1] {
		t.Fatalf("last point = %+v, want %+v", out[len(out)-1], poly[len(poly)-1])
	}
	if len(out) >= len(poly) {
		t.Fatalf("resample should shrink point count: got %d, want < %d", len(out), len(poly))
	}
}
