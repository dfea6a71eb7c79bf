package models

import "time"

// Status is a RunArtifact's terminal outcome (spec §3).
type Status int

const (
	StatusOK Status = iota
	StatusBlocked
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusBlocked:
		return "BLOCKED"
	default:
		return "ERROR"
	}
}

func (s Status) MarshalJSON() ([]byte, error) { return marshalEnumString(s.String()) }

func (s *Status) UnmarshalJSON(b []byte) error {
	v, err := unmarshalEnumString(b)
	if err != nil {
		return err
	}
	switch v {
	case "OK":
		*s = StatusOK
	case "BLOCKED":
		*s = StatusBlocked
	default:
		*s = StatusError
	}
	return nil
}

// Hashes carries the SHA-256 content hashes a RunArtifact is keyed by
// (spec §3). FeasibilitySHA256 is always required; the rest are present
// depending on Status/outcome.
type Hashes struct {
	FeasibilitySHA256 string `json:"feasibility_sha256"`
	ToolpathsSHA256   string `json:"toolpaths_sha256,omitempty"`
	GcodeSHA256       string `json:"gcode_sha256,omitempty"`
	OpplanSHA256      string `json:"opplan_sha256,omitempty"`
}

// Decision summarizes the feasibility/policy outcome embedded in a
// RunArtifact (spec §3).
type Decision struct {
	RiskLevel   RiskLevel `json:"risk_level"`
	Score       *int      `json:"score,omitempty"`
	BlockReason string    `json:"block_reason,omitempty"`
	Warnings    []string  `json:"warnings,omitempty"`
	Details     string    `json:"details,omitempty"`
}

// Outputs carries the run's produced artifacts (spec §3, §6). GcodeText is
// only populated when the text is <= 200KB; otherwise GcodePath points at
// an attachment.
type Outputs struct {
	GcodeText string `json:"gcode_text,omitempty"`
	GcodePath string `json:"gcode_path,omitempty"`
}

// MutableFields is the narrowly controlled, append-only/update-in-place
// subset of a RunArtifact that may change after the initial write (spec
// §3, §9 design note: "lives in its own sub-struct to make the mutation
// boundary explicit").
type MutableFields struct {
	AdvisoryInputs         []AdvisoryRef          `json:"advisory_inputs,omitempty"`
	ExplanationStatus      string                 `json:"explanation_status,omitempty"`
	AdvisoryReviews        []AdvisoryReview       `json:"advisory_reviews,omitempty"`
	ManufacturingCandidates []ManufacturingCandidate `json:"manufacturing_candidates,omitempty"`
}

// AdvisoryReview records a reviewer decision against an advisory.
type AdvisoryReview struct {
	AdvisoryID string    `json:"advisory_id"`
	Reviewer   string    `json:"reviewer"`
	Verdict    string    `json:"verdict"`
	Notes      string    `json:"notes,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ManufacturingCandidate records one candidate process variant considered
// for the run, updated in place with audit fields as it's refined.
type ManufacturingCandidate struct {
	CandidateID string    `json:"candidate_id"`
	Label       string    `json:"label"`
	Selected    bool      `json:"selected"`
	UpdatedAt   time.Time `json:"updated_at"`
	UpdatedBy   string    `json:"updated_by"`
}

// RunArtifact is the immutable audit record produced for every governed
// operation (spec §3). It is immutable after initial write except for the
// fields in Mutable.
type RunArtifact struct {
	RunID           string         `json:"run_id"`
	CreatedAtUTC    time.Time      `json:"created_at_utc"`
	Mode            string         `json:"mode"`
	ToolID          string         `json:"tool_id"`
	Status          Status         `json:"status"`
	EventType       string         `json:"event_type"`
	RequestSummary  map[string]any `json:"request_summary"`
	Feasibility     FeasibilityResult `json:"feasibility"`
	Decision        Decision       `json:"decision"`
	Hashes          Hashes         `json:"hashes"`
	Outputs         Outputs        `json:"outputs"`
	Attachments     []AttachmentRef `json:"attachments,omitempty"`
	Meta            map[string]any `json:"meta,omitempty"`

	// Optional workflow/session and batch-lineage linkage fields (spec §3).
	WorkflowSessionID       string `json:"workflow_session_id,omitempty"`
	SessionID               string `json:"session_id,omitempty"`
	BatchLabel              string `json:"batch_label,omitempty"`
	ParentPlanRunID         string `json:"parent_plan_run_id,omitempty"`
	ParentBatchPlanArtifactID string `json:"parent_batch_plan_artifact_id,omitempty"`
	ParentBatchSpecArtifactID string `json:"parent_batch_spec_artifact_id,omitempty"`

	Mutable MutableFields `json:"mutable,omitempty"`
}

// Validate checks the write-time invariants of spec §4.F `put`: a required
// 64-char lowercase-hex feasibility hash and a non-empty run_id. It does not
// check the status value, and a missing toolpath/gcode hash on an OK run is
// warn-only, not enforced here (see MissingOutputHashWarning; callers log it).
func (a RunArtifact) Validate() error {
	if len(a.Hashes.FeasibilitySHA256) != 64 || !isHex(a.Hashes.FeasibilitySHA256) {
		return errBadParameter("hashes.feasibility_sha256 must be 64 hex characters")
	}
	if a.RunID == "" {
		return errBadParameter("run_id is required")
	}
	return nil
}

// MissingOutputHashWarning reports whether a status=OK artifact is missing
// both a toolpaths and a gcode hash (spec §4.F: "SHOULD be present (warn
// only)").
func (a RunArtifact) MissingOutputHashWarning() bool {
	return a.Status == StatusOK && a.Hashes.ToolpathsSHA256 == "" && a.Hashes.GcodeSHA256 == ""
}

func isHex(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}
