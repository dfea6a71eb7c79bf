package runstore

import (
	"encoding/json"
	"os"

	"github.com/rawblock/luthier-cam/pkg/models"
)

// IntegrityIssue is one failure found by VerifyIntegrity.
type IntegrityIssue struct {
	RunID string
	Kind  string // "missing_artifact" | "unparseable_artifact"
	Detail string
}

// IntegrityReport is the result of VerifyIntegrity (spec §4.F "Integrity
// verifier").
type IntegrityReport struct {
	EntriesChecked int
	Issues         []IntegrityIssue
}

// Ok reports whether the report found zero issues.
func (r IntegrityReport) Ok() bool { return len(r.Issues) == 0 }

// VerifyIntegrity walks the index and confirms every non-tombstone entry
// has an artifact file at its declared partition and, when deep is true,
// that the file parses as a valid Artifact (spec §4.F).
func (s *Store) VerifyIntegrity(deep bool) IntegrityReport {
	s.mu.Lock()
	rows := make([]models.IndexEntry, 0, len(s.index))
	for _, e := range s.index {
		rows = append(rows, e)
	}
	root := s.root
	s.mu.Unlock()

	report := IntegrityReport{EntriesChecked: len(rows)}
	for _, e := range rows {
		if e.IsTombstoned() {
			continue
		}
		path := artifactPath(root, e.Partition, e.RunID)
		b, err := os.ReadFile(path)
		if err != nil {
			report.Issues = append(report.Issues, IntegrityIssue{RunID: e.RunID, Kind: "missing_artifact", Detail: path})
			continue
		}
		if deep {
			var artifact models.RunArtifact
			if err := json.Unmarshal(b, &artifact); err != nil {
				report.Issues = append(report.Issues, IntegrityIssue{RunID: e.RunID, Kind: "unparseable_artifact", Detail: err.Error()})
			}
		}
	}
	return report
}
