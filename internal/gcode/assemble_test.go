package gcode

import (
	"strings"
	"testing"
	"time"

	"github.com/rawblock/luthier-cam/pkg/models"
)

func sampleToolpath() models.Toolpath {
	return models.Toolpath{Moves: []models.Move{
		{Kind: models.MoveRapid, To: models.Point3{X: 0, Y: 0, Z: 10}, Feed: 3000},
		{Kind: models.MoveLinear, To: models.Point3{X: 10, Y: 0, Z: -1}, Feed: 1200},
		{Kind: models.MoveLinear, To: models.Point3{X: 10, Y: 10, Z: -1}, Feed: 480, Meta: models.MoveMeta{Slowdown: 0.4}},
		{Kind: models.MoveRapid, To: models.Point3{X: 10, Y: 10, Z: 10}, Feed: 3000},
	}}
}

func TestAssembleContainsUnitsPreambleAndMetadata(t *testing.T) {
	profile := PostProcessorProfile{ID: "test-post"}
	text, err := Assemble(sampleToolpath(), profile, models.UnitsMM, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(text, "G21\n") {
		t.Fatalf("expected G21 preamble, got: %.50q", text)
	}
	if !strings.Contains(text, "POST=test-post;UNITS=mm") {
		t.Fatalf("missing metadata comment: %s", text)
	}
}

func TestAssembleOmitsUnchangedAxes(t *testing.T) {
	profile := PostProcessorProfile{}
	text, err := Assemble(sampleToolpath(), profile, models.UnitsMM, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var moveLine string
	for _, l := range lines {
		if strings.HasPrefix(l, "G1 Y10.0000") {
			moveLine = l
		}
	}
	if moveLine == "" {
		t.Fatalf("expected a G1 move line with only Y changed (X and Z unchanged since the prior move), got:\n%s", text)
	}
	if strings.Contains(moveLine, "X") || strings.Contains(moveLine, "Z") {
		t.Fatalf("expected X and Z to be omitted when unchanged, got: %s", moveLine)
	}
}

func TestAssembleCommentModeWrapsSlowZone(t *testing.T) {
	profile := PostProcessorProfile{
		AdaptiveFeed: AdaptiveFeedConfig{Mode: AdaptiveFeedComment, SlowdownThreshold: 0.5},
	}
	text, err := Assemble(sampleToolpath(), profile, models.UnitsMM, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "FEED_HINT START scale=0.400") {
		t.Fatalf("missing FEED_HINT START: %s", text)
	}
	if !strings.Contains(text, "FEED_HINT END") {
		t.Fatalf("missing FEED_HINT END: %s", text)
	}
}

func TestAssembleHeaderDeclaringUnitsSuppressesPreamble(t *testing.T) {
	profile := PostProcessorProfile{Header: []string{"G20", "G90"}}
	text, err := Assemble(sampleToolpath(), profile, models.UnitsInch, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(text, "G20") != 1 {
		t.Fatalf("expected G20 to appear exactly once (from header, not a duplicate preamble), got:\n%s", text)
	}
}

func TestParseAdaptiveFeedModeRejectsUnknown(t *testing.T) {
	if _, err := ParseAdaptiveFeedMode("bogus"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
