package models

import (
	"encoding/json"
	"fmt"
)

// Units is the PlanRequest unit system.
type Units int

const (
	UnitsMM Units = iota
	UnitsInch
)

func (u Units) String() string {
	if u == UnitsInch {
		return "inch"
	}
	return "mm"
}

func (u Units) MarshalJSON() ([]byte, error) { return json.Marshal(u.String()) }

func (u *Units) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "mm":
		*u = UnitsMM
	case "inch":
		*u = UnitsInch
	default:
		return fmt.Errorf("unknown units %q", s)
	}
	return nil
}

// Strategy selects how the planner clears a pocket (spec §4.B).
type Strategy int

const (
	StrategySpiral Strategy = iota
	StrategyLanes
)

func (s Strategy) String() string {
	if s == StrategyLanes {
		return "lanes"
	}
	return "spiral"
}

func (s Strategy) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *Strategy) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v {
	case "spiral", "":
		*s = StrategySpiral
	case "lanes":
		*s = StrategyLanes
	default:
		return fmt.Errorf("unknown strategy %q", v)
	}
	return nil
}

// FeedRates groups the three feed settings a PlanRequest carries (spec §3).
type FeedRates struct {
	XY    float64 `json:"feed_xy"`
	Z     float64 `json:"feed_z"`
	Rapid float64 `json:"rapid"`
}

// CurvatureOptions tunes curvature-driven feed slowdown (spec §4.A, §4.B step 5).
type CurvatureOptions struct {
	CornerRadiusMinMM float64 `json:"corner_radius_min_mm"`
	TargetStepover    float64 `json:"target_stepover"`
	SlowdownFeedPct   float64 `json:"slowdown_feed_pct"`
}

// TrochoidOptions tunes optional trochoidal relief (spec §4.B step 6).
type TrochoidOptions struct {
	UseTrochoids     bool    `json:"use_trochoids"`
	TrochoidRadiusMM float64 `json:"trochoid_radius_mm"`
	TrochoidPitchMM  float64 `json:"trochoid_pitch_mm"`
}

// PlanRequest is the full input to the pocketing planner (spec §3).
type PlanRequest struct {
	Loops LoopSet `json:"loops"`

	Units             Units            `json:"units"`
	ToolDiameterMM    float64          `json:"tool_diameter_mm"`
	Stepover          float64          `json:"stepover"`
	StepdownMM        float64          `json:"stepdown_mm"`
	MarginMM          float64          `json:"margin_mm"`
	Strategy          Strategy         `json:"strategy"`
	SmoothingRadiusMM float64          `json:"smoothing_radius_mm"`
	Climb             bool             `json:"climb"`
	Feeds             FeedRates        `json:"feeds"`
	SafeZMM           float64          `json:"safe_z_mm"`
	ZRoughMM          float64          `json:"z_rough_mm"`
	Curvature         CurvatureOptions `json:"curvature"`
	Trochoid          TrochoidOptions  `json:"trochoid"`

	MachineProfileRef     string  `json:"machine_profile_ref,omitempty"`
	SessionOverrideFactor float64 `json:"session_override_factor,omitempty"`
}

// ToolRadiusMM is tool_diameter_mm / 2.
func (r PlanRequest) ToolRadiusMM() float64 { return r.ToolDiameterMM / 2 }

// EffectiveSessionOverrideFactor clamps the optional override to [0.5, 1.5]
// and defaults to 1.0 when unset (spec §3, §4.B).
func (r PlanRequest) EffectiveSessionOverrideFactor() float64 {
	f := r.SessionOverrideFactor
	if f == 0 {
		return 1.0
	}
	if f < 0.5 {
		return 0.5
	}
	if f > 1.5 {
		return 1.5
	}
	return f
}

// Validate checks the numeric-range invariants of spec §3 that are cheap
// and context-free; the feasibility engine (internal/policy) performs the
// full, policy-aware evaluation. Validate is the hard BadParameter gate
// used by the planner before any geometry work begins.
func (r PlanRequest) Validate() error {
	if err := r.Loops.Validate(); err != nil {
		return err
	}
	if r.ToolDiameterMM < 0.5 || r.ToolDiameterMM > 50 {
		return errBadParameter("tool_diameter_mm out of range [0.5, 50]")
	}
	if r.Stepover < 0.1 || r.Stepover > 0.95 {
		return errBadParameter("stepover out of range [0.1, 0.95]")
	}
	if r.StepdownMM <= 0 {
		return errBadParameter("stepdown_mm must be > 0")
	}
	if r.MarginMM < 0 {
		return errBadParameter("margin_mm must be >= 0")
	}
	if r.SmoothingRadiusMM < 0 {
		return errBadParameter("smoothing_radius_mm must be >= 0")
	}
	if r.Feeds.XY <= 0 || r.Feeds.Z <= 0 || r.Feeds.Rapid <= 0 {
		return errBadParameter("feed rates must all be > 0")
	}
	if r.SafeZMM <= 0 {
		return errBadParameter("safe_z_mm must be > 0")
	}
	if r.ZRoughMM >= 0 {
		return errBadParameter("z_rough_mm must be < 0")
	}
	if r.SessionOverrideFactor != 0 && (r.SessionOverrideFactor < 0.5 || r.SessionOverrideFactor > 1.5) {
		return errBadParameter("session_override_factor out of range [0.5, 1.5]")
	}
	return nil
}
