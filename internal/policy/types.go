// Package heuristics implements the deterministic feasibility and policy
// gate of spec §4.D: a pure scoring function over a PlanRequest plus
// whatever side context (machine caps, SVG import flags) the caller gathered
// up front.
package heuristics

// PolicyContext carries the side information Compute needs beyond the
// PlanRequest itself: machine feed caps, a flute-length hint for stepdown
// warnings, and SVG-import content flags (spec §4.D).
type PolicyContext struct {
	EngineVersion string

	MachineFeedCapXYMMMin float64 // 0 means "no cap configured"
	MachineFeedCapZMMMin  float64
	FluteLengthHintMM     float64 // 0 means "no hint available"

	InscribedRadiusMM float64 // pre-computed by the caller via geometry.InscribedRadius

	SVGHasScript        bool
	SVGHasImage         bool
	SVGHasForeignObject bool
	SVGHasText          bool

	AllowUnknownNonBlocking bool // config override: downgrade UNKNOWN to non-blocking
}
