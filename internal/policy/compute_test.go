package heuristics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawblock/luthier-cam/pkg/models"
)

func validRequest() models.PlanRequest {
	return models.PlanRequest{
		Loops:          models.LoopSet{{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 60}, {X: 0, Y: 60}}},
		ToolDiameterMM: 6,
		Stepover:       0.45,
		StepdownMM:     2,
		MarginMM:       1,
		Feeds:          models.FeedRates{XY: 1200, Z: 400, Rapid: 3000},
		SafeZMM:        10,
		ZRoughMM:       -1,
	}
}

func TestComputeGreenForCleanRequest(t *testing.T) {
	result := Compute(validRequest(), PolicyContext{EngineVersion: "test", InscribedRadiusMM: 30})
	require.Equal(t, models.RiskGreen, result.RiskLevel)
	assert.Equal(t, 100, result.Score)
	assert.False(t, result.Blocking)
	assert.Empty(t, result.BlockingReasons)
}

func TestComputeRedOnBadToolDiameter(t *testing.T) {
	req := validRequest()
	req.ToolDiameterMM = 0.1
	result := Compute(req, PolicyContext{})
	assert.Equal(t, models.RiskRed, result.RiskLevel)
	assert.Equal(t, 25, result.Score)
	assert.True(t, result.Blocking)
	assert.Contains(t, result.BlockingReasons, "tool_diameter_out_of_range")
}

func TestComputeRedOnPocketTooSmall(t *testing.T) {
	req := validRequest()
	result := Compute(req, PolicyContext{InscribedRadiusMM: 2})
	assert.Equal(t, models.RiskRed, result.RiskLevel)
	assert.True(t, result.Blocking)
	assert.Contains(t, result.BlockingReasons, "pocket_too_small")
}

func TestComputeYellowOnSVGText(t *testing.T) {
	result := Compute(validRequest(), PolicyContext{InscribedRadiusMM: 30, SVGHasText: true})
	assert.Equal(t, models.RiskYellow, result.RiskLevel)
	assert.False(t, result.Blocking)
	assert.Contains(t, result.Warnings, "svg_contains_text_needs_outlining")
}

func TestComputeRedBlockingOnSVGScript(t *testing.T) {
	result := Compute(validRequest(), PolicyContext{InscribedRadiusMM: 30, SVGHasScript: true})
	assert.Equal(t, models.RiskRed, result.RiskLevel)
	assert.True(t, result.Blocking)
}

func TestComputeIsDeterministicIgnoringTimestamp(t *testing.T) {
	a := Compute(validRequest(), PolicyContext{InscribedRadiusMM: 30})
	b := Compute(validRequest(), PolicyContext{InscribedRadiusMM: 30})
	assert.Equal(t, a.CanonicalFields(), b.CanonicalFields())
}

func TestShouldBlock(t *testing.T) {
	assert.True(t, ShouldBlock(models.RiskRed, false))
	assert.True(t, ShouldBlock(models.RiskError, false))
	assert.True(t, ShouldBlock(models.RiskUnknown, false))
	assert.False(t, ShouldBlock(models.RiskUnknown, true))
	assert.False(t, ShouldBlock(models.RiskGreen, false))
	assert.False(t, ShouldBlock(models.RiskYellow, false))
}
