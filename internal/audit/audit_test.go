package audit

import (
	"path/filepath"
	"testing"
	"time"
)

func TestAppendAndExportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	l := Open(filepath.Join(dir, "_audit", "deletes.jsonl"))

	base := time.Unix(1_700_000_000, 0).UTC()
	entries := []Entry{
		{Timestamp: base, RunID: "run_1", Mode: "soft", Reason: "cleanup", Actor: "alice", Outcome: OutcomeSuccess},
		{Timestamp: base.Add(time.Minute), RunID: "run_2", Mode: "hard", Reason: "cleanup", Actor: "alice", Outcome: OutcomeForbidden},
		{Timestamp: base.Add(time.Hour), RunID: "run_3", Mode: "soft", Reason: "cleanup", Actor: "bob", Outcome: OutcomeRateLimited},
	}
	for _, e := range entries {
		if err := l.Append(e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := l.Export(base, base.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Export returned %d entries, want 2", len(got))
	}
	if got[0].RunID != "run_1" || got[1].RunID != "run_2" {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestExportOnMissingFileReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	l := Open(filepath.Join(dir, "_audit", "deletes.jsonl"))
	got, err := l.Export(time.Unix(0, 0), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d entries, want 0", len(got))
	}
}
