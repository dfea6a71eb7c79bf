package planner

import "github.com/rawblock/luthier-cam/pkg/models"

// enforceOrientation reverses loop when its winding sign disagrees with
// wantCCW (spec §4.B step 3: "Orientation per ring is enforced ... by
// reversing when signed area sign disagrees with desired direction").
func enforceOrientation(loop models.Loop, wantCCW bool) models.Loop {
	if loop.IsCCW() == wantCCW {
		return loop
	}
	return loop.Reversed()
}

// laneDirection is the desired winding for ring index i under Lanes: a
// fixed CCW when climb milling keeps a single consistent direction, else
// alternating per ring (spec §4.B step 3, "Direction alternates per ring
// when climb=false").
func laneDirection(ringIndex int, climb bool) bool {
	if climb {
		return true
	}
	return ringIndex%2 == 0
}

// spiralDirection is the single fixed winding every ring in a stitched
// spiral path is forced to (spec §4.B step 3, "CCW for climb, CW for
// conventional").
func spiralDirection(climb bool) bool { return climb }
