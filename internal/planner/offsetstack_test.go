package planner

import (
	"errors"
	"testing"

	"github.com/rawblock/luthier-cam/pkg/errs"
	"github.com/rawblock/luthier-cam/pkg/models"
)

func TestBuildOffsetStackProducesShrinkingRings(t *testing.T) {
	outer := rectangle(100, 60)
	rings, err := buildOffsetStack(models.LoopSet{outer}, 3, 2.4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rings) < 2 {
		t.Fatalf("want at least 2 rings, got %d", len(rings))
	}
	for i, r := range rings {
		if r.Depth != i {
			t.Errorf("ring %d: Depth = %d, want %d", i, r.Depth, i)
		}
		if r.Distance != 3+float64(i)*2.4 {
			t.Errorf("ring %d: Distance = %v, want %v", i, r.Distance, 3+float64(i)*2.4)
		}
	}
	for i := 1; i < len(rings); i++ {
		if len(rings[i].Loop) == 0 {
			t.Fatalf("ring %d has no points", i)
		}
	}
}

func TestBuildOffsetStackPocketTooSmall(t *testing.T) {
	outer := rectangle(10, 10)
	_, err := buildOffsetStack(models.LoopSet{outer}, 100, 2.4)
	if err == nil {
		t.Fatalf("want an error, got nil")
	}
	if !errors.Is(err, errs.ErrPocketTooSmall) {
		t.Fatalf("want ErrPocketTooSmall, got %v", err)
	}
}

func TestBuildOffsetStackStopsAtInscribedRadius(t *testing.T) {
	outer := rectangle(40, 40)
	rings, err := buildOffsetStack(models.LoopSet{outer}, 2, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The square's inscribed radius is 20; rings must stop growing distance
	// well before that, never producing a degenerate (zero-area) ring.
	last := rings[len(rings)-1]
	if last.Distance >= 20 {
		t.Fatalf("last ring distance %v reached the inscribed radius", last.Distance)
	}
}
