package runstore

import "github.com/rawblock/luthier-cam/pkg/models"

// BatchSummary is the batch-grouping rollup: counts by status plus
// aggregate volume/time across every non-tombstoned run sharing a
// batch_label. It is a read-only index projection — batch_label and
// lineage pointers are already carried on every IndexEntry, so no new
// persisted state is needed.
type BatchSummary struct {
	BatchLabel     string  `json:"batch_label"`
	TotalRuns      int     `json:"total_runs"`
	OKCount        int     `json:"ok_count"`
	BlockedCount   int     `json:"blocked_count"`
	ErrorCount     int     `json:"error_count"`
	TotalVolumeMM3 float64 `json:"total_volume_mm3"`
	TotalTimeS     float64 `json:"total_time_s"`
}

// BatchSummary computes the rollup for every non-tombstoned run tagged with
// batchLabel. Volume/time are pulled from each run's stored artifact since
// the index itself only tracks identity and status, not stats; an
// unreadable artifact is skipped rather than failing the whole rollup
// (spec §7's "a single bad record must not block the rest").
func (s *Store) BatchSummary(batchLabel string) (BatchSummary, error) {
	if batchLabel == "" {
		return BatchSummary{}, errBadParameter("batch_label must not be empty")
	}

	s.mu.Lock()
	rows := s.filteredSortedLocked(ListFilter{BatchLabel: batchLabel})
	s.mu.Unlock()

	summary := BatchSummary{BatchLabel: batchLabel}
	for _, e := range rows {
		summary.TotalRuns++
		switch e.Status {
		case models.StatusOK:
			summary.OKCount++
		case models.StatusBlocked:
			summary.BlockedCount++
		case models.StatusError:
			summary.ErrorCount++
		}

		artifact, err := s.Get(e.RunID)
		if err != nil {
			continue
		}
		volume, seconds := statsFromMeta(artifact.Meta)
		summary.TotalVolumeMM3 += volume
		summary.TotalTimeS += seconds
	}
	return summary, nil
}

func statsFromMeta(meta map[string]any) (volumeMM3, timeS float64) {
	stats, ok := meta["stats"].(map[string]any)
	if !ok {
		return 0, 0
	}
	if v, ok := stats["volume_mm3"].(float64); ok {
		volumeMM3 = v
	}
	if v, ok := stats["time_s"].(float64); ok {
		timeS = v
	}
	return volumeMM3, timeS
}

// BatchNode is one entry of a BatchTree: a run plus the run_ids of its
// direct children (runs whose parent_plan_run_id points back to it).
type BatchNode struct {
	RunID        string        `json:"run_id"`
	Status       models.Status `json:"status"`
	CreatedAtUTC string        `json:"created_at_utc"`
	ChildRunIDs  []string      `json:"child_run_ids,omitempty"`
}

// BatchTree builds the parent→child run linkage within a batch_label. Runs
// whose parent_plan_run_id is empty, or points outside the batch, are roots.
func (s *Store) BatchTree(batchLabel string) ([]BatchNode, error) {
	if batchLabel == "" {
		return nil, errBadParameter("batch_label must not be empty")
	}

	s.mu.Lock()
	rows := s.filteredSortedLocked(ListFilter{BatchLabel: batchLabel})
	s.mu.Unlock()

	nodes := make(map[string]*BatchNode, len(rows))
	for _, e := range rows {
		nodes[e.RunID] = &BatchNode{
			RunID:        e.RunID,
			Status:       e.Status,
			CreatedAtUTC: e.CreatedAtUTC.UTC().Format("2006-01-02T15:04:05.999999999Z07:00"),
		}
	}
	for _, e := range rows {
		if e.ParentPlanRunID == "" {
			continue
		}
		if parent, ok := nodes[e.ParentPlanRunID]; ok {
			parent.ChildRunIDs = append(parent.ChildRunIDs, e.RunID)
		}
	}

	out := make([]BatchNode, 0, len(rows))
	for _, e := range rows {
		out = append(out, *nodes[e.RunID])
	}
	return out, nil
}
