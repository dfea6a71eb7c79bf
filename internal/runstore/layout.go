package runstore

import (
	"path/filepath"
	"time"
)

const (
	indexFileName          = "_index.json"
	advisoryLookupFileName = "_advisory_lookup.json"
	attachmentMetaFileName = "_attachment_meta.json"
	auditDeletesRelPath    = "_audit/deletes.jsonl"
)

func partitionOf(t time.Time) string { return t.UTC().Format("2006-01-02") }

func indexPath(root string) string          { return filepath.Join(root, indexFileName) }
func advisoryLookupPath(root string) string { return filepath.Join(root, advisoryLookupFileName) }
func attachmentMetaPath(root string) string { return filepath.Join(root, attachmentMetaFileName) }
func auditPath(root string) string          { return filepath.Join(root, auditDeletesRelPath) }

// AuditLogPath returns the delete-audit JSONL path for a store rooted at
// root, so external tools (cmd/auditexport) can open the same file the
// Store itself writes through internal/audit without duplicating the
// layout constant.
func AuditLogPath(root string) string { return auditPath(root) }

// artifactPath is {root}/{partition}/{run_id}.json (spec §4.F layout,
// run_id already carries its own "run_" idgen prefix).
func artifactPath(root, partition, runID string) string {
	return filepath.Join(root, partition, runID+".json")
}

// advisoryLinkPath is {root}/{partition}/{run_id}_advisory_{advisory_id}.json.
func advisoryLinkPath(root, partition, runID, advisoryID string) string {
	return filepath.Join(root, partition, runID+"_advisory_"+advisoryID+".json")
}
