// Package runstore implements the date-partitioned, append-mostly
// run-artifact store of spec §4.F: one immutable JSON file per governed
// operation, a single in-memory index for fast listing, advisory links that
// are append-only by construction, and soft/hard delete behind policy and
// rate limiting.
package runstore

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rawblock/luthier-cam/internal/audit"
	"github.com/rawblock/luthier-cam/internal/canonjson"
	"github.com/rawblock/luthier-cam/internal/fsatomic"
	"github.com/rawblock/luthier-cam/internal/obslog"
	"github.com/rawblock/luthier-cam/internal/ratelimit"
	"github.com/rawblock/luthier-cam/pkg/models"
)

// advisoryLookupEntry is one row of the global advisory_id → location index.
type advisoryLookupEntry struct {
	RunID        string    `json:"run_id"`
	SHA256       string    `json:"sha256"`
	Kind         string    `json:"kind"`
	Partition    string    `json:"partition"`
	CreatedAtUTC time.Time `json:"created_at_utc"`
}

// Store is one run-artifact store rooted at a directory. A single mutex
// guards the index and the advisory lookup, per spec §5 "single per-store
// lock held for read-modify-write"; the delete rate limiter is guarded by
// its own lock inside ratelimit.Limiter. One Store per root; multiple roots
// are fully independent.
type Store struct {
	root string

	mu              sync.Mutex
	index           map[string]models.IndexEntry // run_id -> entry
	advisoryLookup  map[string]advisoryLookupEntry
	deleteLimiter   *ratelimit.Limiter
	audit           *audit.Log
	deleteAllowHard bool
}

// Open loads (or initializes) the store rooted at root.
func Open(root string, deleteRateLimitMax int, deleteRateLimitWindow time.Duration, deleteAllowHard bool) (*Store, error) {
	index, err := loadIndex(indexPath(root))
	if err != nil {
		return nil, err
	}
	lookup, err := loadAdvisoryLookup(advisoryLookupPath(root))
	if err != nil {
		return nil, err
	}
	return &Store{
		root:            root,
		index:           index,
		advisoryLookup:  lookup,
		deleteLimiter:   ratelimit.New(deleteRateLimitMax, deleteRateLimitWindow),
		audit:           audit.Open(auditPath(root)),
		deleteAllowHard: deleteAllowHard,
	}, nil
}

func loadIndex(path string) (map[string]models.IndexEntry, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]models.IndexEntry{}, nil
	}
	if err != nil {
		return nil, errIo("read index", err)
	}
	var rows []models.IndexEntry
	if err := json.Unmarshal(b, &rows); err != nil {
		return nil, errIo("parse index", err)
	}
	index := make(map[string]models.IndexEntry, len(rows))
	for _, row := range rows {
		index[row.RunID] = row
	}
	return index, nil
}

func loadAdvisoryLookup(path string) (map[string]advisoryLookupEntry, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]advisoryLookupEntry{}, nil
	}
	if err != nil {
		return nil, errIo("read advisory lookup", err)
	}
	var lookup map[string]advisoryLookupEntry
	if err := json.Unmarshal(b, &lookup); err != nil {
		return nil, errIo("parse advisory lookup", err)
	}
	return lookup, nil
}

// saveIndexLocked persists the index as a sorted (created_at_utc desc, then
// run_id desc) JSON array so on-disk diffs are stable between saves.
func (s *Store) saveIndexLocked() error {
	rows := make([]models.IndexEntry, 0, len(s.index))
	for _, e := range s.index {
		rows = append(rows, e)
	}
	sortIndexRows(rows)
	result, err := canonjson.PutJSON(rows)
	if err != nil {
		return errIo("marshal index", err)
	}
	if err := fsatomic.WriteFile(indexPath(s.root), result.PrettyBytes, 0o644); err != nil {
		return errIo("write index", err)
	}
	return nil
}

func (s *Store) saveAdvisoryLookupLocked() error {
	result, err := canonjson.PutJSON(s.advisoryLookup)
	if err != nil {
		return errIo("marshal advisory lookup", err)
	}
	if err := fsatomic.WriteFile(advisoryLookupPath(s.root), result.PrettyBytes, 0o644); err != nil {
		return errIo("write advisory lookup", err)
	}
	return nil
}

func sortIndexRows(rows []models.IndexEntry) {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAtUTC.Equal(rows[j].CreatedAtUTC) {
			return rows[i].CreatedAtUTC.After(rows[j].CreatedAtUTC)
		}
		return rows[i].RunID > rows[j].RunID
	})
}

// Put writes a new immutable artifact (spec §4.F put). Refuses if the
// artifact file already exists.
func (s *Store) Put(artifact models.RunArtifact) error {
	if err := artifact.Validate(); err != nil {
		return fmt.Errorf("runstore: %w", err)
	}
	if artifact.MissingOutputHashWarning() {
		obslog.RunEvent(artifact.RunID, "put.missing_output_hash").Msg("status=OK without toolpaths or gcode hash")
	}

	partition := partitionOf(artifact.CreatedAtUTC)
	path := artifactPath(s.root, partition, artifact.RunID)

	result, err := canonjson.PutJSON(artifact)
	if err != nil {
		return errIo("marshal artifact", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wrote, err := fsatomic.WriteFileIfAbsent(path, result.PrettyBytes, 0o644)
	if err != nil {
		return errIo("write artifact", err)
	}
	if !wrote {
		return errImmutable(artifact.RunID)
	}

	s.index[artifact.RunID] = indexEntryFromArtifact(artifact, partition)
	if err := s.saveIndexLocked(); err != nil {
		return err
	}

	obslog.RunEvent(artifact.RunID, "put").Str("partition", partition).Msg("artifact written")
	return nil
}

func indexEntryFromArtifact(a models.RunArtifact, partition string) models.IndexEntry {
	advisoryIDs := make([]string, 0, len(a.Mutable.AdvisoryInputs))
	for _, ref := range a.Mutable.AdvisoryInputs {
		advisoryIDs = append(advisoryIDs, ref.AdvisoryID)
	}
	return models.IndexEntry{
		RunID:                     a.RunID,
		CreatedAtUTC:              a.CreatedAtUTC,
		Partition:                 partition,
		EventType:                 a.EventType,
		Status:                    a.Status,
		ToolID:                    a.ToolID,
		Mode:                      a.Mode,
		SessionID:                 a.SessionID,
		BatchLabel:                a.BatchLabel,
		WorkflowSessionID:         a.WorkflowSessionID,
		ParentPlanRunID:           a.ParentPlanRunID,
		ParentBatchPlanArtifactID: a.ParentBatchPlanArtifactID,
		ParentBatchSpecArtifactID: a.ParentBatchSpecArtifactID,
		Advisories:                models.AdvisoryRollup{Count: len(advisoryIDs), AdvisoryIDs: advisoryIDs},
	}
}

// Get locates a run by id via the index, falling back to a reverse
// chronological partition scan if the index is stale, and attaches its
// append-only advisory links. Returns ErrNotFound for tombstoned runs.
func (s *Store) Get(runID string) (models.RunArtifact, error) {
	s.mu.Lock()
	entry, ok := s.index[runID]
	root := s.root
	s.mu.Unlock()

	var partition string
	if ok {
		if entry.IsTombstoned() {
			return models.RunArtifact{}, errNotFound(runID)
		}
		partition = entry.Partition
	} else {
		found, p, err := scanPartitionsForRun(root, runID)
		if err != nil {
			return models.RunArtifact{}, err
		}
		if !found {
			return models.RunArtifact{}, errNotFound(runID)
		}
		partition = p
	}

	artifact, err := readArtifact(root, partition, runID)
	if err != nil {
		return models.RunArtifact{}, err
	}

	links, err := readAdvisoryLinks(root, partition, runID)
	if err != nil {
		return models.RunArtifact{}, err
	}
	if len(links) > 0 {
		artifact.Mutable.AdvisoryInputs = mergeAdvisoryRefs(artifact.Mutable.AdvisoryInputs, links)
	}
	return artifact, nil
}

func mergeAdvisoryRefs(existing []models.AdvisoryRef, links []models.AdvisoryRef) []models.AdvisoryRef {
	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		seen[r.AdvisoryID] = true
	}
	merged := existing
	for _, l := range links {
		if !seen[l.AdvisoryID] {
			merged = append(merged, l)
			seen[l.AdvisoryID] = true
		}
	}
	return merged
}

func readArtifact(root, partition, runID string) (models.RunArtifact, error) {
	b, err := os.ReadFile(artifactPath(root, partition, runID))
	if err != nil {
		if os.IsNotExist(err) {
			return models.RunArtifact{}, errNotFound(runID)
		}
		return models.RunArtifact{}, errIo("read artifact", err)
	}
	var artifact models.RunArtifact
	if err := json.Unmarshal(b, &artifact); err != nil {
		return models.RunArtifact{}, errIo("parse artifact", err)
	}
	return artifact, nil
}
