package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rawblock/luthier-cam/internal/attachstore"
	"github.com/rawblock/luthier-cam/internal/config"
	"github.com/rawblock/luthier-cam/internal/engine"
	"github.com/rawblock/luthier-cam/internal/obslog"
	"github.com/rawblock/luthier-cam/internal/runstore"
	"github.com/rawblock/luthier-cam/pkg/models"
)

// planFlags collects the per-invocation knobs the plan endpoint contract
// (spec §6) needs beyond the PlanRequest body itself.
type planFlags struct {
	requestPath          string
	mode                 string
	toolID               string
	machineProfilePath   string
	postProcessorPath    string
	engineVersion        string
	allowUnknownNonBlock bool
	workflowSessionID    string
	sessionID            string
	batchLabel           string
	parentPlanRunID      string
}

func main() {
	obslog.Init(os.Stderr, zerolog.InfoLevel)

	root := &cobra.Command{
		Use:   "engine",
		Short: "luthier-cam plan+export engine",
		Long:  "Wires the run-artifact store and attachment store to the geometry/planner/motion/gcode/policy packages and exposes the governed plan+export operation.",
	}

	root.AddCommand(planCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func planCmd() *cobra.Command {
	f := &planFlags{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run one governed plan+export operation and print its result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(f)
		},
	}

	cmd.Flags().StringVar(&f.requestPath, "request", "-", "path to a PlanRequest JSON document, or - for stdin")
	cmd.Flags().StringVar(&f.mode, "mode", "plan_export", "run mode recorded on the artifact")
	cmd.Flags().StringVar(&f.toolID, "tool-id", "", "tool identifier recorded on the artifact")
	cmd.Flags().StringVar(&f.machineProfilePath, "machine-profile", "", "path to a MachineProfile YAML document; enables jerk-aware timing")
	cmd.Flags().StringVar(&f.postProcessorPath, "post-processor", "", "path to a PostProcessorProfile YAML document; enables G-code assembly")
	cmd.Flags().StringVar(&f.engineVersion, "engine-version", "luthier-cam-engine/0.1.0", "value recorded in feasibility.engine_version")
	cmd.Flags().BoolVar(&f.allowUnknownNonBlock, "allow-unknown-non-blocking", false, "downgrade RiskUnknown to non-blocking")
	cmd.Flags().StringVar(&f.workflowSessionID, "workflow-session-id", "", "optional workflow session linkage")
	cmd.Flags().StringVar(&f.sessionID, "session-id", "", "optional session linkage")
	cmd.Flags().StringVar(&f.batchLabel, "batch-label", "", "optional batch label")
	cmd.Flags().StringVar(&f.parentPlanRunID, "parent-plan-run-id", "", "optional parent plan run_id")

	return cmd
}

func runPlan(f *planFlags) error {
	cfg := config.Load()

	runs, err := runstore.Open(cfg.StoreRoot, cfg.DeleteRateLimitMax, time.Duration(cfg.DeleteRateLimitWindowSec)*time.Second, cfg.DeleteAllowHard)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	attachments, err := attachstore.Open(cfg.AttachmentRoot)
	if err != nil {
		return fmt.Errorf("open attachment store: %w", err)
	}

	e := engine.New(runs, attachments, f.engineVersion, f.allowUnknownNonBlock)

	req, err := readPlanRequest(f.requestPath)
	if err != nil {
		return err
	}

	opts := engine.PlanOptions{
		Mode:              f.mode,
		ToolID:            f.toolID,
		WorkflowSessionID: f.workflowSessionID,
		SessionID:         f.sessionID,
		BatchLabel:        f.batchLabel,
		ParentPlanRunID:   f.parentPlanRunID,
	}

	if f.machineProfilePath != "" {
		profile, err := config.LoadMachineProfile(f.machineProfilePath)
		if err != nil {
			return err
		}
		opts.MachineProfile = profile
		opts.HaveMachineProfile = true
	}

	if f.postProcessorPath != "" {
		profile, err := config.LoadPostProcessorProfile(f.postProcessorPath)
		if err != nil {
			return err
		}
		opts.PostProcessor = &profile
	}

	result, err := e.PlanAndExport(req, opts, time.Now().UTC())
	if err != nil && result.RunID == "" {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func readPlanRequest(path string) (models.PlanRequest, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return models.PlanRequest{}, fmt.Errorf("open request: %w", err)
		}
		defer f.Close()
		r = f
	}

	var req models.PlanRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return models.PlanRequest{}, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}
