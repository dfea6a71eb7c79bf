package runstore

import (
	"fmt"
	"strings"
	"time"

	"github.com/rawblock/luthier-cam/pkg/models"
)

// ListFilter is the set of filters spec §4.F list_runs_filtered and
// count_runs_filtered both accept. A zero-value field means "no filter" on
// that dimension; DateFrom/DateTo use the zero time.Time for "unbounded".
type ListFilter struct {
	EventType                 string
	Status                    *models.Status
	ToolID                    string
	Mode                      string
	WorkflowSessionID         string
	BatchLabel                string
	SessionID                 string
	ParentPlanRunID           string
	ParentBatchPlanArtifactID string
	ParentBatchSpecArtifactID string
	DateFrom                  time.Time
	DateTo                    time.Time
}

func (f ListFilter) matches(e models.IndexEntry) bool {
	if e.IsTombstoned() {
		return false
	}
	if f.EventType != "" && e.EventType != f.EventType {
		return false
	}
	if f.Status != nil && e.Status != *f.Status {
		return false
	}
	if f.ToolID != "" && e.ToolID != f.ToolID {
		return false
	}
	if f.Mode != "" && e.Mode != f.Mode {
		return false
	}
	if f.WorkflowSessionID != "" && e.WorkflowSessionID != f.WorkflowSessionID {
		return false
	}
	if f.BatchLabel != "" && e.BatchLabel != f.BatchLabel {
		return false
	}
	if f.SessionID != "" && e.SessionID != f.SessionID {
		return false
	}
	if f.ParentPlanRunID != "" && e.ParentPlanRunID != f.ParentPlanRunID {
		return false
	}
	if f.ParentBatchPlanArtifactID != "" && e.ParentBatchPlanArtifactID != f.ParentBatchPlanArtifactID {
		return false
	}
	if f.ParentBatchSpecArtifactID != "" && e.ParentBatchSpecArtifactID != f.ParentBatchSpecArtifactID {
		return false
	}
	if !f.DateFrom.IsZero() && e.CreatedAtUTC.Before(f.DateFrom) {
		return false
	}
	if !f.DateTo.IsZero() && e.CreatedAtUTC.After(f.DateTo) {
		return false
	}
	return true
}

// RunSummary is the list/query response row of spec §6.
type RunSummary struct {
	RunID             string          `json:"run_id"`
	CreatedAtUTC      time.Time       `json:"created_at_utc"`
	EventType         string          `json:"event_type"`
	Status            models.Status   `json:"status"`
	Mode              string          `json:"mode"`
	ToolID            string          `json:"tool_id"`
	RiskLevel         *models.RiskLevel `json:"risk_level,omitempty"`
	FeasibilitySHA256 string          `json:"feasibility_sha256,omitempty"`
	ToolpathsSHA256   string          `json:"toolpaths_sha256,omitempty"`
	GcodeSHA256       string          `json:"gcode_sha256,omitempty"`
	AdvisoryCount     int             `json:"advisory_count"`
}

func summaryFromIndexEntry(e models.IndexEntry) RunSummary {
	return RunSummary{
		RunID:         e.RunID,
		CreatedAtUTC:  e.CreatedAtUTC,
		EventType:     e.EventType,
		Status:        e.Status,
		Mode:          e.Mode,
		ToolID:        e.ToolID,
		AdvisoryCount: e.Advisories.Count,
	}
}

func (s *Store) filteredSortedLocked(f ListFilter) []models.IndexEntry {
	rows := make([]models.IndexEntry, 0, len(s.index))
	for _, e := range s.index {
		if f.matches(e) {
			rows = append(rows, e)
		}
	}
	sortIndexRows(rows)
	return rows
}

// ListRunsFiltered applies f over the index, sorts desc by
// (created_at_utc, run_id), and paginates with limit/offset (spec §4.F).
func (s *Store) ListRunsFiltered(f ListFilter, limit, offset int) ([]RunSummary, error) {
	s.mu.Lock()
	rows := s.filteredSortedLocked(f)
	s.mu.Unlock()

	if offset < 0 || limit < 0 {
		return nil, errBadParameter("limit and offset must be >= 0")
	}
	if offset >= len(rows) {
		return []RunSummary{}, nil
	}
	end := offset + limit
	if limit == 0 || end > len(rows) {
		end = len(rows)
	}
	page := rows[offset:end]

	summaries := make([]RunSummary, len(page))
	for i, e := range page {
		summaries[i] = summaryFromIndexEntry(e)
	}
	return summaries, nil
}

// CountRunsFiltered counts matching index rows without touching any
// artifact file (spec §4.F count_runs_filtered).
func (s *Store) CountRunsFiltered(f ListFilter) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, e := range s.index {
		if f.matches(e) {
			count++
		}
	}
	return count
}

// Cursor encodes the "<created_at_utc>|<run_id>" pagination position of
// spec §4.F query_recent.
type Cursor struct {
	CreatedAtUTC time.Time
	RunID        string
}

func (c Cursor) String() string {
	return c.CreatedAtUTC.UTC().Format(time.RFC3339Nano) + "|" + c.RunID
}

// ParseCursor parses the "<created_at_utc>|<run_id>" format. An empty
// string yields the zero Cursor (start of the list).
func ParseCursor(s string) (Cursor, error) {
	if s == "" {
		return Cursor{}, nil
	}
	parts := strings.SplitN(s, "|", 2)
	if len(parts) != 2 {
		return Cursor{}, fmt.Errorf("runstore: malformed cursor %q", s)
	}
	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("runstore: malformed cursor timestamp: %w", err)
	}
	return Cursor{CreatedAtUTC: t, RunID: parts[1]}, nil
}

// isOlderThan reports whether e sorts strictly after cursor in
// (created_at_utc desc, run_id desc) order — i.e. e is "older than cursor".
func (c Cursor) isOlderThan(e models.IndexEntry) bool {
	if c.CreatedAtUTC.IsZero() {
		return true
	}
	if !e.CreatedAtUTC.Equal(c.CreatedAtUTC) {
		return e.CreatedAtUTC.Before(c.CreatedAtUTC)
	}
	return e.RunID < c.RunID
}

// QueryRecentResult is the response envelope of spec §4.F query_recent.
type QueryRecentResult struct {
	Items      []RunSummary
	NextCursor string
}

// QueryRecent returns up to limit entries strictly older than cursor in
// (created_at_utc desc, run_id desc) order (spec §4.F, §8 pagination).
func (s *Store) QueryRecent(f ListFilter, limit int, cursor Cursor) (QueryRecentResult, error) {
	if limit <= 0 {
		return QueryRecentResult{}, errBadParameter("limit must be >= 1")
	}
	s.mu.Lock()
	rows := s.filteredSortedLocked(f)
	s.mu.Unlock()

	var page []models.IndexEntry
	for _, e := range rows {
		if cursor.isOlderThan(e) {
			page = append(page, e)
			if len(page) == limit {
				break
			}
		}
	}

	items := make([]RunSummary, len(page))
	for i, e := range page {
		items[i] = summaryFromIndexEntry(e)
	}

	result := QueryRecentResult{Items: items}
	if len(page) == limit {
		last := page[len(page)-1]
		result.NextCursor = Cursor{CreatedAtUTC: last.CreatedAtUTC, RunID: last.RunID}.String()
	}
	return result, nil
}
