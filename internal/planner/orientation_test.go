package planner

import "testing"

func TestEnforceOrientation(t *testing.T) {
	ccw := rectangle(10, 10)
	cw := ccw.Reversed()

	if got := enforceOrientation(ccw, true); !got.IsCCW() {
		t.Errorf("enforceOrientation(ccw, true) should stay CCW")
	}
	if got := enforceOrientation(ccw, false); got.IsCCW() {
		t.Errorf("enforceOrientation(ccw, false) should flip to CW")
	}
	if got := enforceOrientation(cw, true); !got.IsCCW() {
		t.Errorf("enforceOrientation(cw, true) should flip to CCW")
	}
	if got := enforceOrientation(cw, false); got.IsCCW() {
		t.Errorf("enforceOrientation(cw, false) should stay CW")
	}
}

func TestLaneDirection(t *testing.T) {
	if !laneDirection(0, true) || !laneDirection(5, true) {
		t.Errorf("climb milling should always want CCW regardless of ring index")
	}
	if !laneDirection(0, false) {
		t.Errorf("ring 0 conventional should want CCW")
	}
	if laneDirection(1, false) {
		t.Errorf("ring 1 conventional should want CW (alternating)")
	}
	if !laneDirection(2, false) {
		t.Errorf("ring 2 conventional should want CCW (alternating back)")
	}
}

func TestSpiralDirection(t *testing.T) {
	if !spiralDirection(true) {
		t.Errorf("spiralDirection(true) should be CCW")
	}
	if spiralDirection(false) {
		t.Errorf("spiralDirection(false) should be CW")
	}
}

