package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/rawblock/luthier-cam/pkg/models"
)

func rectangle(w, h float64) models.Loop {
	return models.Loop{
		{X: 0, Y: 0},
		{X: w, Y: 0},
		{X: w, Y: h},
		{X: 0, Y: h},
	}
}

func TestOffsetShrinksRectangleArea(t *testing.T) {
	outer := rectangle(100, 60)
	rings, err := Offset(models.LoopSet{outer}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rings) != 1 {
		t.Fatalf("want 1 ring, got %d", len(rings))
	}

	original := math.Abs(Area(outer))
	shrunk := math.Abs(Area(rings[0]))
	if shrunk >= original {
		t.Fatalf("shrunk area %v should be less than original %v", shrunk, original)
	}

	expected := float64((100 - 10) * (60 - 10))
	if math.Abs(shrunk-expected) > 1.0 {
		t.Fatalf("shrunk area = %v, want ~%v", shrunk, expected)
	}
}

func TestOffsetDegenerateBeyondInscribedRadius(t *testing.T) {
	outer := rectangle(10, 10)
	_, err := Offset(models.LoopSet{outer}, 100)
	if err == nil {
		t.Fatalf("want ErrOffsetDegenerate, got nil")
	}
	if !errors.Is(err, ErrOffsetDegenerate) {
		t.Fatalf("want ErrOffsetDegenerate, got %v", err)
	}
}

func TestOffsetGrowsIsland(t *testing.T) {
	outer := rectangle(100, 100)
	island := models.Loop{
		{X: 40, Y: 40},
		{X: 40, Y: 60},
		{X: 60, Y: 60},
		{X: 60, Y: 40},
	} // CW by construction
	set := models.LoopSet{outer, island}
	if err := set.Validate(); err != nil {
		t.Fatalf("invalid fixture: %v", err)
	}

	rings, err := Offset(set, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rings) != 2 {
		t.Fatalf("want 2 rings, got %d", len(rings))
	}

	grownIslandArea := math.Abs(Area(rings[1]))
	originalIslandArea := math.Abs(Area(island))
	if grownIslandArea <= originalIslandArea {
		t.Fatalf("grown island area %v should exceed original %v", grownIslandArea, originalIslandArea)
	}
}

func TestInscribedRadiusOfRectangle(t *testing.T) {
	outer := rectangle(100, 60)
	r := InscribedRadius(outer)
	if math.Abs(r-30.0) > 0.5 {
		t.Fatalf("inscribed radius = %v, want ~30", r)
	}
}

