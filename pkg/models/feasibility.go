package models

import (
	"encoding/json"
	"time"
)

// RiskLevel is the feasibility engine's classification (spec §4.D).
type RiskLevel int

const (
	RiskGreen RiskLevel = iota
	RiskYellow
	RiskRed
	RiskUnknown
	RiskError
)

func (r RiskLevel) String() string {
	switch r {
	case RiskGreen:
		return "GREEN"
	case RiskYellow:
		return "YELLOW"
	case RiskRed:
		return "RED"
	case RiskError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (r RiskLevel) MarshalJSON() ([]byte, error) { return json.Marshal(r.String()) }

func (r *RiskLevel) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "GREEN":
		*r = RiskGreen
	case "YELLOW":
		*r = RiskYellow
	case "RED":
		*r = RiskRed
	case "ERROR":
		*r = RiskError
	default:
		*r = RiskUnknown
	}
	return nil
}

// Score returns the fixed score mapping of spec §4.D: GREEN=100, YELLOW=75,
// RED=25, UNKNOWN/ERROR=50.
func (r RiskLevel) Score() int {
	switch r {
	case RiskGreen:
		return 100
	case RiskYellow:
		return 75
	case RiskRed:
		return 25
	default:
		return 50
	}
}

// FeasibilityResult is the deterministic, server-authoritative risk
// assessment of a PlanRequest (spec §3, §4.D). Immutable once produced.
type FeasibilityResult struct {
	RiskLevel       RiskLevel `json:"risk_level"`
	Score           int       `json:"score"`
	Blocking        bool      `json:"blocking"`
	Warnings        []string  `json:"warnings"`
	BlockingReasons []string  `json:"blocking_reasons"`
	EngineVersion   string    `json:"engine_version"`
	ComputedAtUTC   time.Time `json:"computed_at_utc"`
}

// CanonicalFields returns a copy of the result with ComputedAtUTC zeroed,
// matching spec §4.D's "SHA-256 over canonical-JSON of the result with
// computed_at_utc removed."
func (f FeasibilityResult) CanonicalFields() FeasibilityResult {
	cp := f
	cp.ComputedAtUTC = time.Time{}
	if cp.Warnings == nil {
		cp.Warnings = []string{}
	}
	if cp.BlockingReasons == nil {
		cp.BlockingReasons = []string{}
	}
	return cp
}
