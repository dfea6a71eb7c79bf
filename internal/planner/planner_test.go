package planner

import (
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

func baseRequest() models.PlanRequest {
	return models.PlanRequest{
		Loops:          models.LoopSet{rectangle(100, 60)},
		ToolDiameterMM: 6,
		Stepover:       0.4,
		StepdownMM:     1,
		MarginMM:       1,
		Strategy:       models.StrategySpiral,
		Climb:          true,
		Feeds:          models.FeedRates{XY: 1000, Z: 200, Rapid: 3000},
		SafeZMM:        5,
		ZRoughMM:       -2,
	}
}
