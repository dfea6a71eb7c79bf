package heuristics

import (
	"time"

	"github.com/rawblock/luthier-cam/pkg/models"
)

// ruleHit is one rule's contribution to the overall verdict: level decides
// which hit wins when several fire (the worst RiskLevel observed), and
// reason becomes a warning or a blocking reason depending on blocking.
type ruleHit struct {
	level    models.RiskLevel
	reason   string
	blocking bool
}

// Compute is the pure, deterministic feasibility engine of spec §4.D: same
// PlanRequest + PolicyContext always produce a bit-identical
// FeasibilityResult (modulo ComputedAtUTC, excluded from the hash by
// FeasibilityResult.CanonicalFields).
func Compute(req models.PlanRequest, ctx PolicyContext) models.FeasibilityResult {
	var hits []ruleHit

	// ─── Tool diameter ────────────────────────────────────────────────
	if req.ToolDiameterMM < 0.5 || req.ToolDiameterMM > 50 {
		hits = append(hits, ruleHit{models.RiskRed, "tool_diameter_out_of_range", true})
	}

	// ─── Stepover ─────────────────────────────────────────────────────
	if req.Stepover < 0.1 || req.Stepover > 0.95 {
		hits = append(hits, ruleHit{models.RiskRed, "stepover_out_of_range", true})
	}

	// ─── Pocket too small ─────────────────────────────────────────────
	if ctx.InscribedRadiusMM > 0 {
		required := req.ToolRadiusMM() + req.MarginMM
		if ctx.InscribedRadiusMM <= required {
			hits = append(hits, ruleHit{models.RiskRed, "pocket_too_small", true})
		}
	}

	// ─── Feeds vs machine caps ────────────────────────────────────────
	hits = append(hits, feedCapHits(req, ctx)...)

	// ─── Stepdown vs flute length hint ────────────────────────────────
	if req.StepdownMM <= 0 {
		hits = append(hits, ruleHit{models.RiskRed, "stepdown_not_positive", true})
	} else if ctx.FluteLengthHintMM > 0 && req.StepdownMM > ctx.FluteLengthHintMM {
		hits = append(hits, ruleHit{models.RiskYellow, "stepdown_exceeds_flute_length_hint", false})
	}

	// ─── SVG import content ───────────────────────────────────────────
	if ctx.SVGHasScript || ctx.SVGHasImage || ctx.SVGHasForeignObject {
		hits = append(hits, ruleHit{models.RiskRed, "svg_contains_unsafe_element", true})
	}
	if ctx.SVGHasText {
		hits = append(hits, ruleHit{models.RiskYellow, "svg_contains_text_needs_outlining", false})
	}

	return assemble(hits, ctx.EngineVersion)
}

func feedCapHits(req models.PlanRequest, ctx PolicyContext) []ruleHit {
	var hits []ruleHit
	if req.Feeds.XY <= 0 || req.Feeds.Z <= 0 || req.Feeds.Rapid <= 0 {
		return []ruleHit{{models.RiskRed, "feed_rate_not_positive", true}}
	}
	if ctx.MachineFeedCapXYMMMin > 0 {
		switch {
		case req.Feeds.XY > ctx.MachineFeedCapXYMMMin*1.5:
			hits = append(hits, ruleHit{models.RiskRed, "feed_xy_far_exceeds_machine_cap", true})
		case req.Feeds.XY > ctx.MachineFeedCapXYMMMin:
			hits = append(hits, ruleHit{models.RiskYellow, "feed_xy_exceeds_machine_cap", false})
		}
	}
	if ctx.MachineFeedCapZMMMin > 0 {
		switch {
		case req.Feeds.Z > ctx.MachineFeedCapZMMMin*1.5:
			hits = append(hits, ruleHit{models.RiskRed, "feed_z_far_exceeds_machine_cap", true})
		case req.Feeds.Z > ctx.MachineFeedCapZMMMin:
			hits = append(hits, ruleHit{models.RiskYellow, "feed_z_exceeds_machine_cap", false})
		}
	}
	return hits
}

// assemble folds the rule hits into a single FeasibilityResult: the worst
// RiskLevel observed wins and sets the score via level.Score(), and reasons
// split into warnings (non-blocking) vs blocking_reasons.
func assemble(hits []ruleHit, engineVersion string) models.FeasibilityResult {
	level := models.RiskGreen
	var warnings, blockingReasons []string
	blocking := false

	for _, h := range hits {
		if severityRank(h.level) > severityRank(level) {
			level = h.level
		}
		if h.blocking {
			blocking = true
			blockingReasons = append(blockingReasons, h.reason)
		} else {
			warnings = append(warnings, h.reason)
		}
	}

	return models.FeasibilityResult{
		RiskLevel:       level,
		Score:           level.Score(),
		Blocking:        blocking,
		Warnings:        warnings,
		BlockingReasons: blockingReasons,
		EngineVersion:   engineVersion,
		ComputedAtUTC:   time.Now().UTC(),
	}
}

func severityRank(r models.RiskLevel) int {
	switch r {
	case models.RiskRed, models.RiskError:
		return 3
	case models.RiskUnknown:
		return 2
	case models.RiskYellow:
		return 1
	default:
		return 0
	}
}
