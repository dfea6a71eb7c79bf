package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rawblock/luthier-cam/internal/audit"
	"github.com/rawblock/luthier-cam/internal/config"
	"github.com/rawblock/luthier-cam/internal/runstore"
)

// auditexport exports delete-audit trail entries for a time window, for
// compliance tooling. internal/audit.Log.Export already implements exactly
// that query, so this CLI is a thin wrapper over it.
func main() {
	var fromStr, toStr string

	root := &cobra.Command{
		Use:   "auditexport",
		Short: "Export delete-audit log entries within a time window as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := time.Parse(time.RFC3339, fromStr)
			if err != nil {
				return fmt.Errorf("parse --from: %w", err)
			}
			to, err := time.Parse(time.RFC3339, toStr)
			if err != nil {
				return fmt.Errorf("parse --to: %w", err)
			}

			cfg := config.Load()
			log := audit.Open(runstore.AuditLogPath(cfg.StoreRoot))

			entries, err := log.Export(from, to)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		},
	}

	root.Flags().StringVar(&fromStr, "from", "", "RFC3339 window start (required)")
	root.Flags().StringVar(&toStr, "to", "", "RFC3339 window end (required)")
	root.MarkFlagRequired("from")
	root.MarkFlagRequired("to")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
