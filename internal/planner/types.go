// Package planner implements the adaptive pocket-clearing planner (spec
// §4.B): it turns a PlanRequest's 2D loop set into a machine-ready
// Toolpath through a fixed seven-step pipeline — offset stack, ring
// assembly, strategy dispatch (lanes or spiral), smoothing, curvature
// slowdown, optional trochoidal relief, and move emission.
package planner

import "github.com/rawblock/luthier-cam/pkg/models"

// Ring is one offset pass of the pocket-clearing stack (spec §4.B step 1):
// the cuttable contour at cumulative inward Distance from the original
// loop set, plus whatever islands survived at that distance.
type Ring struct {
	Loop     models.Loop
	Islands  []models.Loop
	Distance float64
	Depth    int
}

// PlanStats carries the diagnostic counters a caller (the engine, the CLI)
// reports alongside the Toolpath, without polluting the Toolpath model
// itself with planner-internal bookkeeping.
type PlanStats struct {
	RingCount         int
	CuttingMoveCount  int
	TrochoidLoopCount int
	TotalLengthMM     float64
	Strategy          string
}

// vertex carries a 2D point through steps 4-6 of the pipeline alongside the
// per-vertex feed scale that step 5 attaches, before step 7 turns the
// sequence into Moves. No step sets the trochoid field: step 6 marks its
// relief loops on the emitted Moves (MoveMeta.Trochoid) instead.
type vertex struct {
	p         models.Point
	feedScale float64 // 1.0 until step 5 computes slowdown
	trochoid  bool
	bridge    bool // true at a spiral stitch point (spec §4.B step 4 "stitch points")
}

// segment is one uninterrupted cutting pass: Lanes emits one segment per
// ring (closed), Spiral emits exactly one segment for the whole stitched
// path (open).
type segment struct {
	vertices []vertex
	closed   bool
}
