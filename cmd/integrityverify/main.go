package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rawblock/luthier-cam/internal/config"
	"github.com/rawblock/luthier-cam/internal/runstore"
)

// Exit codes per spec §6: 0 pass, 2 fail.
const (
	exitPass = 0
	exitFail = 2
)

func main() {
	var deep, repair bool

	root := &cobra.Command{
		Use:   "integrityverify",
		Short: "Verify every non-tombstone run artifact is present (and, with --deep, parseable)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			store, err := runstore.Open(cfg.StoreRoot, cfg.DeleteRateLimitMax, time.Duration(cfg.DeleteRateLimitWindowSec)*time.Second, cfg.DeleteAllowHard)
			if err != nil {
				fmt.Fprintln(os.Stderr, "open run store:", err)
				os.Exit(exitFail)
			}

			report := store.VerifyIntegrity(deep)
			fmt.Printf("entries_checked=%d issues=%d\n", report.EntriesChecked, len(report.Issues))
			for _, issue := range report.Issues {
				fmt.Printf("  %s %s: %s\n", issue.RunID, issue.Kind, issue.Detail)
			}

			if !report.Ok() {
				if repair {
					fmt.Println("repairing: rebuilding index from on-disk artifacts...")
					if err := store.RebuildIndex(); err != nil {
						fmt.Fprintln(os.Stderr, "repair failed:", err)
						os.Exit(exitFail)
					}
					report = store.VerifyIntegrity(deep)
					fmt.Printf("post-repair: entries_checked=%d issues=%d\n", report.EntriesChecked, len(report.Issues))
				}
				if !report.Ok() {
					os.Exit(exitFail)
				}
			}
			return nil
		},
	}

	root.Flags().BoolVar(&deep, "deep", false, "also parse every artifact to confirm it's valid JSON matching the RunArtifact shape")
	root.Flags().BoolVar(&repair, "repair", false, "rebuild the index from on-disk artifacts and re-verify if the first pass finds issues")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitFail)
	}
	os.Exit(exitPass)
}
