// Package engine wires components D through F into the control flow of
// spec §2: feasibility gates every request, geometry and the planner
// produce a toolpath only when it clears the gate, motion timing and
// optional G-code assembly run over that toolpath, the attachment store
// absorbs anything too large to inline, and every outcome — blocked,
// failed, or successful — is written to the run-artifact store before the
// caller sees a result.
package engine

import (
	"github.com/rawblock/luthier-cam/internal/attachstore"
	"github.com/rawblock/luthier-cam/internal/gcode"
	"github.com/rawblock/luthier-cam/internal/motion"
	heuristics "github.com/rawblock/luthier-cam/internal/policy"
	"github.com/rawblock/luthier-cam/internal/runstore"
	"github.com/rawblock/luthier-cam/pkg/models"
)

// Engine ties the run-artifact store and attachment store to the stateless
// geometry/planner/motion/gcode/policy packages. One Engine per process;
// both stores are already safe for concurrent use.
type Engine struct {
	Runs        *runstore.Store
	Attachments *attachstore.Store

	EngineVersion           string
	AllowUnknownNonBlocking bool
}

// New constructs an Engine over already-opened stores.
func New(runs *runstore.Store, attachments *attachstore.Store, engineVersion string, allowUnknownNonBlocking bool) *Engine {
	return &Engine{
		Runs:                    runs,
		Attachments:             attachments,
		EngineVersion:           engineVersion,
		AllowUnknownNonBlocking: allowUnknownNonBlocking,
	}
}

// PlanOptions carries everything a plan+export request needs beyond the
// PlanRequest itself: operator-authored profiles, policy side-context, and
// the optional workflow/session linkage fields a RunArtifact may carry.
type PlanOptions struct {
	Mode   string // e.g. "plan", "plan_export"
	ToolID string

	MachineProfile     motion.MachineProfile
	HaveMachineProfile bool // EstimateJerkAware is skipped when false

	PostProcessor *gcode.PostProcessorProfile // nil skips G-code assembly

	Policy heuristics.PolicyContext

	WorkflowSessionID string
	SessionID         string
	BatchLabel        string
	ParentPlanRunID   string
}

// inlineGcodeLimitBytes is spec §3's outputs.gcode_text/gcode_path split
// point: text at or under this size is stored inline in the artifact,
// anything larger overflows to the attachment store.
const inlineGcodeLimitBytes = 200 * 1024

// tightSegmentSlowdown is the feed-scale cutoff below which a cutting move
// counts toward stats.tight_segments, mirroring the trochoid trigger
// threshold of spec §4.B step 6 since both describe the same "curvature is
// squeezing feed hard here" condition.
const tightSegmentSlowdown = 0.85

// CapCounts is the plan endpoint's stats.caps breakdown (spec §6): how many
// cutting moves were bound by each physical limit.
type CapCounts struct {
	FeedCap int `json:"feed_cap"`
	Accel   int `json:"accel"`
	Jerk    int `json:"jerk"`
	None    int `json:"none"`
}

// Stats is the plan endpoint's success-output stats object (spec §6).
type Stats struct {
	LengthMM      float64   `json:"length_mm"`
	AreaMM2       float64   `json:"area_mm2"`
	TimeSClassic  float64   `json:"time_s_classic"`
	TimeSJerk     *float64  `json:"time_s_jerk,omitempty"`
	TimeS         float64   `json:"time_s"`
	VolumeMM3     float64   `json:"volume_mm3"`
	MoveCount     int       `json:"move_count"`
	TightSegments int       `json:"tight_segments"`
	TrochoidArcs  int       `json:"trochoid_arcs"`
	Caps          CapCounts `json:"caps"`
}

// Result is what PlanAndExport returns on every path — blocked, errored, or
// successful — so a caller can render the plan endpoint's contract shape
// directly (spec §6: "Blocked output: same shape minus moves").
type Result struct {
	RunID       string
	Status      models.Status
	Toolpath    models.Toolpath
	Stats       Stats
	GcodeText   string
	Feasibility models.FeasibilityResult
	Artifact    models.RunArtifact
}
