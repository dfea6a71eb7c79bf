package planner

import (
	"github.com/rawblock/luthier-cam/internal/geometry"
	"github.com/rawblock/luthier-cam/pkg/models"
)

// maxRingDepth bounds the offset stack the same way TrochoidLoopCap bounds
// trochoid insertion: a generous ceiling that only ever trips if the
// offset engine stops failing where it should (stepover/tool_d misconfigured
// to near zero), not a limit real pockets ever approach.
const maxRingDepth = 10000

// buildOffsetStack implements spec §4.B step 1: starting at startDistance
// (margin + tool_radius), repeatedly offset the whole loop set inward by
// step (stepover*tool_d) until the offset fails. At least one ring must
// survive, else PocketTooSmall.
func buildOffsetStack(loops models.LoopSet, startDistance, step float64) ([]Ring, error) {
	rings := make([]Ring, 0, 8)
	for depth := 0; depth < maxRingDepth; depth++ {
		dist := startDistance + float64(depth)*step
		offset, err := geometry.Offset(loops, dist)
		if err != nil {
			break
		}
		rings = append(rings, Ring{
			Loop:     offset[0],
			Islands:  offset[1:],
			Distance: dist,
			Depth:    depth,
		})
	}
	if len(rings) == 0 {
		return nil, errPocketTooSmall("no ring survives at margin + tool_radius")
	}
	return rings, nil
}
