package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/rawblock/luthier-cam/internal/canonjson"
	"github.com/rawblock/luthier-cam/internal/gcode"
	"github.com/rawblock/luthier-cam/internal/geometry"
	"github.com/rawblock/luthier-cam/internal/idgen"
	"github.com/rawblock/luthier-cam/internal/motion"
	"github.com/rawblock/luthier-cam/internal/obslog"
	heuristics "github.com/rawblock/luthier-cam/internal/policy"
	"github.com/rawblock/luthier-cam/internal/planner"
	"github.com/rawblock/luthier-cam/pkg/errs"
	"github.com/rawblock/luthier-cam/pkg/models"
)

// PlanAndExport implements the control flow of spec §2: feasibility first,
// then geometry/planning only if the request clears the gate, then timing
// and optional G-code, then persistence. Every path — blocked, a planner
// failure, or a clean success — ends in exactly one runstore.Put call
// before returning, so no governed operation is ever silently dropped.
func (e *Engine) PlanAndExport(req models.PlanRequest, opts PlanOptions, now time.Time) (Result, error) {
	runID := idgen.NewRunID()

	if err := req.Validate(); err != nil {
		return e.writeErrorArtifact(runID, req, opts, now, err)
	}

	policyCtx := opts.Policy
	policyCtx.EngineVersion = e.EngineVersion
	policyCtx.InscribedRadiusMM = geometry.InscribedRadius(req.Loops.Outer())
	policyCtx.AllowUnknownNonBlocking = e.AllowUnknownNonBlocking

	feasibility := heuristics.Compute(req, policyCtx)
	blocked := feasibility.Blocking || heuristics.ShouldBlock(feasibility.RiskLevel, policyCtx.AllowUnknownNonBlocking)

	if blocked {
		return e.writeBlockedArtifact(runID, req, opts, feasibility, now)
	}

	tp, ps, err := planner.Plan(req)
	if err != nil {
		return e.writeErrorArtifact(runID, req, opts, now, err)
	}

	classicSeconds, err := motion.EstimateClassic(tp)
	if err != nil {
		return e.writeErrorArtifact(runID, req, opts, now, err)
	}

	var jerkResult *motion.JerkResult
	if opts.HaveMachineProfile {
		jr, err := motion.EstimateJerkAware(tp, opts.MachineProfile)
		if err != nil {
			return e.writeErrorArtifact(runID, req, opts, now, err)
		}
		jerkResult = &jr
	}

	var gcodeText string
	if opts.PostProcessor != nil {
		gcodeText, err = gcode.Assemble(tp, *opts.PostProcessor, req.Units, now)
		if err != nil {
			return e.writeErrorArtifact(runID, req, opts, now, err)
		}
	}

	return e.writeOKArtifact(runID, req, opts, tp, ps, classicSeconds, jerkResult, gcodeText, feasibility, now)
}

func (e *Engine) writeBlockedArtifact(runID string, req models.PlanRequest, opts PlanOptions, feasibility models.FeasibilityResult, now time.Time) (Result, error) {
	feasibilitySHA, err := canonjson.Hash(feasibility.CanonicalFields())
	if err != nil {
		return Result{}, fmt.Errorf("engine: hash feasibility: %w", err)
	}

	reason := "policy_blocked"
	if len(feasibility.BlockingReasons) > 0 {
		reason = feasibility.BlockingReasons[0]
	}

	artifact := models.RunArtifact{
		RunID:          runID,
		CreatedAtUTC:   now,
		Mode:           opts.Mode,
		ToolID:         opts.ToolID,
		Status:         models.StatusBlocked,
		EventType:      "plan_blocked",
		RequestSummary: requestSummary(req),
		Feasibility:    feasibility,
		Decision: models.Decision{
			RiskLevel:   feasibility.RiskLevel,
			Score:       &feasibility.Score,
			BlockReason: reason,
			Warnings:    feasibility.Warnings,
		},
		Hashes:            models.Hashes{FeasibilitySHA256: feasibilitySHA},
		WorkflowSessionID: opts.WorkflowSessionID,
		SessionID:         opts.SessionID,
		BatchLabel:        opts.BatchLabel,
		ParentPlanRunID:   opts.ParentPlanRunID,
	}

	if err := e.Runs.Put(artifact); err != nil {
		return Result{}, fmt.Errorf("engine: write blocked artifact: %w", err)
	}
	obslog.RunEvent(runID, "plan.blocked").Str("reason", reason).Send()

	return Result{RunID: runID, Status: models.StatusBlocked, Feasibility: feasibility, Artifact: artifact}, nil
}

func (e *Engine) writeErrorArtifact(runID string, req models.PlanRequest, opts PlanOptions, now time.Time, cause error) (Result, error) {
	feasibility := models.FeasibilityResult{
		RiskLevel:     models.RiskError,
		Score:         models.RiskError.Score(),
		Blocking:      true,
		EngineVersion: e.EngineVersion,
		ComputedAtUTC: now,
	}
	feasibilitySHA, hashErr := canonjson.Hash(feasibility.CanonicalFields())
	if hashErr != nil {
		return Result{}, fmt.Errorf("engine: hash feasibility: %w", hashErr)
	}

	artifact := models.RunArtifact{
		RunID:          runID,
		CreatedAtUTC:   now,
		Mode:           opts.Mode,
		ToolID:         opts.ToolID,
		Status:         models.StatusError,
		EventType:      "plan_error",
		RequestSummary: requestSummary(req),
		Feasibility:    feasibility,
		Decision: models.Decision{
			RiskLevel: feasibility.RiskLevel,
			Details:   cause.Error(),
		},
		Hashes:            models.Hashes{FeasibilitySHA256: feasibilitySHA},
		WorkflowSessionID: opts.WorkflowSessionID,
		SessionID:         opts.SessionID,
		BatchLabel:        opts.BatchLabel,
		ParentPlanRunID:   opts.ParentPlanRunID,
	}

	if err := e.Runs.Put(artifact); err != nil {
		return Result{}, fmt.Errorf("engine: write error artifact: %w", err)
	}
	obslog.RunError(runID, "plan.error", cause)

	return Result{RunID: runID, Status: models.StatusError, Feasibility: feasibility, Artifact: artifact}, cause
}

func (e *Engine) writeOKArtifact(
	runID string,
	req models.PlanRequest,
	opts PlanOptions,
	tp models.Toolpath,
	ps planner.PlanStats,
	classicSeconds float64,
	jerk *motion.JerkResult,
	gcodeText string,
	feasibility models.FeasibilityResult,
	now time.Time,
) (Result, error) {
	feasibilitySHA, err := canonjson.Hash(feasibility.CanonicalFields())
	if err != nil {
		return Result{}, fmt.Errorf("engine: hash feasibility: %w", err)
	}
	toolpathSHA, err := canonjson.Hash(tp)
	if err != nil {
		return Result{}, fmt.Errorf("engine: hash toolpath: %w", err)
	}

	hashes := models.Hashes{FeasibilitySHA256: feasibilitySHA, ToolpathsSHA256: toolpathSHA}
	outputs := models.Outputs{}
	var attachments []models.AttachmentRef
	stats := buildStats(req, tp, ps, classicSeconds, jerk)

	if gcodeText != "" {
		gcodeSHA := canonjson.HashBytes([]byte(gcodeText))
		hashes.GcodeSHA256 = gcodeSHA
		if len(gcodeText) <= inlineGcodeLimitBytes {
			outputs.GcodeText = gcodeText
		} else {
			ref, err := e.Attachments.Put([]byte(gcodeText), "gcode", "text/plain", runID+".nc", runID, now)
			if err != nil {
				return Result{}, fmt.Errorf("engine: store gcode attachment: %w", err)
			}
			outputs.GcodePath = ref.SHA256
			attachments = append(attachments, ref)
		}
	}

	artifact := models.RunArtifact{
		RunID:          runID,
		CreatedAtUTC:   now,
		Mode:           opts.Mode,
		ToolID:         opts.ToolID,
		Status:         models.StatusOK,
		EventType:      "plan_export",
		RequestSummary: requestSummary(req),
		Feasibility:    feasibility,
		Decision: models.Decision{
			RiskLevel: feasibility.RiskLevel,
			Score:     &feasibility.Score,
			Warnings:  feasibility.Warnings,
		},
		Hashes:            hashes,
		Outputs:           outputs,
		Attachments:       attachments,
		Meta:              map[string]any{"stats": stats},
		WorkflowSessionID: opts.WorkflowSessionID,
		SessionID:         opts.SessionID,
		BatchLabel:        opts.BatchLabel,
		ParentPlanRunID:   opts.ParentPlanRunID,
	}

	if err := e.Runs.Put(artifact); err != nil {
		return Result{}, fmt.Errorf("engine: write artifact: %w", err)
	}
	obslog.RunEvent(runID, "plan.ok").Int("move_count", len(tp.Moves)).Send()

	return Result{
		RunID:       runID,
		Status:      models.StatusOK,
		Toolpath:    tp,
		Stats:       stats,
		GcodeText:   gcodeText,
		Feasibility: feasibility,
		Artifact:    artifact,
	}, nil
}

// IsGoverned reports whether err is one of the planner's known failure
// kinds (as opposed to a programming error or an I/O failure further down
// the stack) — useful for callers deciding whether to surface err's message
// directly or fall back to a generic one.
func IsGoverned(err error) bool {
	_, ok := errs.KindOf(err)
	return ok || errors.As(err, new(*errs.StitchFailure))
}
