package engine

import "github.com/rawblock/luthier-cam/pkg/models"

// requestSummary builds the RunArtifact's redacted request_summary (spec
// §3): the scalar machining parameters a caller would want to see on a run
// listing, with the loop geometry itself dropped — it is frequently a
// customer's proprietary part outline and is already content-addressed via
// hashes.toolpaths_sha256.
func requestSummary(req models.PlanRequest) map[string]any {
	return map[string]any{
		"units":                   req.Units.String(),
		"tool_diameter_mm":        req.ToolDiameterMM,
		"stepover":                req.Stepover,
		"stepdown_mm":             req.StepdownMM,
		"margin_mm":               req.MarginMM,
		"strategy":                req.Strategy.String(),
		"smoothing_radius_mm":     req.SmoothingRadiusMM,
		"climb":                   req.Climb,
		"safe_z_mm":               req.SafeZMM,
		"z_rough_mm":              req.ZRoughMM,
		"machine_profile_ref":     req.MachineProfileRef,
		"session_override_factor": req.EffectiveSessionOverrideFactor(),
		"loop_count":              len(req.Loops),
		"use_trochoids":           req.Trochoid.UseTrochoids,
	}
}
