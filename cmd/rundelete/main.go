package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rawblock/luthier-cam/internal/config"
	"github.com/rawblock/luthier-cam/internal/runstore"
	"github.com/rawblock/luthier-cam/pkg/errs"
)

// Exit codes per spec §6: 0 success, 1 not-found or bad input, 2 rate-limited,
// 3 policy-denied.
const (
	exitSuccess      = 0
	exitBadInput     = 1
	exitRateLimited  = 2
	exitPolicyDenied = 3
)

func main() {
	var (
		runID     string
		hard      bool
		reason    string
		actor     string
		requestID string
		cascade   bool
		admin     bool
	)

	root := &cobra.Command{
		Use:   "rundelete",
		Short: "Soft- or hard-delete a run artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			store, err := runstore.Open(cfg.StoreRoot, cfg.DeleteRateLimitMax, time.Duration(cfg.DeleteRateLimitWindowSec)*time.Second, cfg.DeleteAllowHard)
			if err != nil {
				fmt.Fprintln(os.Stderr, "open run store:", err)
				os.Exit(exitBadInput)
			}

			mode := runstore.DeleteSoft
			if hard {
				mode = runstore.DeleteHard
			}

			req := runstore.DeleteRequest{
				RunID:         runID,
				Mode:          mode,
				Reason:        reason,
				Actor:         actor,
				RequestID:     requestID,
				Cascade:       cascade,
				AdminAsserted: admin,
			}

			if err := store.DeleteRun(req, time.Now().UTC()); err != nil {
				fmt.Fprintln(os.Stderr, "delete failed:", err)
				os.Exit(exitCodeFor(err))
			}

			fmt.Printf("deleted %s\n", runID)
			return nil
		},
	}

	root.Flags().StringVar(&runID, "run-id", "", "run_id to delete (required)")
	root.Flags().BoolVar(&hard, "hard", false, "hard delete instead of soft tombstone")
	root.Flags().StringVar(&reason, "reason", "", "reason, at least 6 characters (required)")
	root.Flags().StringVar(&actor, "actor", "", "actor performing the delete")
	root.Flags().StringVar(&requestID, "request-id", "", "idempotency/audit request id")
	root.Flags().BoolVar(&cascade, "cascade", false, "also remove associated advisory files on hard delete")
	root.Flags().BoolVar(&admin, "admin-asserted", false, "assert admin privilege, required for --hard")
	root.MarkFlagRequired("run-id")
	root.MarkFlagRequired("reason")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitBadInput)
	}
	os.Exit(exitSuccess)
}

func exitCodeFor(err error) int {
	kind, ok := errs.KindOf(err)
	if !ok {
		return exitBadInput
	}
	switch kind {
	case errs.KindRateLimited:
		return exitRateLimited
	case errs.KindPolicyDenied:
		return exitPolicyDenied
	case errs.KindNotFound, errs.KindBadParameter:
		return exitBadInput
	default:
		return exitBadInput
	}
}
