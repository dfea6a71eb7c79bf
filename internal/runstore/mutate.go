package runstore

import (
	"time"

	"github.com/rawblock/luthier-cam/internal/canonjson"
	"github.com/rawblock/luthier-cam/internal/fsatomic"
	"github.com/rawblock/luthier-cam/internal/obslog"
	"github.com/rawblock/luthier-cam/pkg/models"
)

// UpdateMutableFields rewrites the artifact at runID with a new
// MutableFields value, refusing to touch anything else about the stored
// record (spec §4.F update_mutable_fields).
func (s *Store) UpdateMutableFields(runID string, mutable models.MutableFields) error {
	s.mu.Lock()
	entry, ok := s.index[runID]
	root := s.root
	s.mu.Unlock()

	var partition string
	if ok {
		if entry.IsTombstoned() {
			return errNotFound(runID)
		}
		partition = entry.Partition
	} else {
		found, p, err := scanPartitionsForRun(root, runID)
		if err != nil {
			return err
		}
		if !found {
			return errNotFound(runID)
		}
		partition = p
	}

	artifact, err := readArtifact(root, partition, runID)
	if err != nil {
		return err
	}
	artifact.Mutable = mutable

	result, err := canonjson.PutJSON(artifact)
	if err != nil {
		return errIo("marshal artifact", err)
	}
	if err := fsatomic.WriteFile(artifactPath(root, partition, runID), result.PrettyBytes, 0o644); err != nil {
		return errIo("write artifact", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	advisoryIDs := make([]string, 0, len(mutable.AdvisoryInputs))
	for _, ref := range mutable.AdvisoryInputs {
		advisoryIDs = append(advisoryIDs, ref.AdvisoryID)
	}
	if e, ok := s.index[runID]; ok {
		e.Advisories = models.AdvisoryRollup{Count: len(advisoryIDs), AdvisoryIDs: advisoryIDs}
		s.index[runID] = e
		if err := s.saveIndexLocked(); err != nil {
			return err
		}
	}
	obslog.RunEvent(runID, "update_mutable_fields").Msg("mutable fields rewritten")
	return nil
}

// AttachAdvisory appends an advisory link to runID (spec §4.F
// attach_advisory). Idempotent: a duplicate advisoryID is a no-op that
// returns the existing ref.
func (s *Store) AttachAdvisory(runID, advisoryID, kind, sha256 string, now time.Time) (models.AdvisoryRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.index[runID]
	if !ok || entry.IsTombstoned() {
		return models.AdvisoryRef{}, errNotFound(runID)
	}

	if existing, ok := s.advisoryLookup[advisoryID]; ok {
		return models.AdvisoryRef{AdvisoryID: advisoryID, SHA256: existing.SHA256, Kind: existing.Kind, CreatedAtUTC: existing.CreatedAtUTC}, nil
	}

	ref := models.AdvisoryRef{AdvisoryID: advisoryID, SHA256: sha256, Kind: kind, CreatedAtUTC: now}
	result, err := canonjson.PutJSON(ref)
	if err != nil {
		return models.AdvisoryRef{}, errIo("marshal advisory ref", err)
	}

	path := advisoryLinkPath(s.root, entry.Partition, runID, advisoryID)
	if err := fsatomic.WriteFile(path, result.PrettyBytes, 0o644); err != nil {
		return models.AdvisoryRef{}, errIo("write advisory link", err)
	}

	s.advisoryLookup[advisoryID] = advisoryLookupEntry{
		RunID: runID, SHA256: sha256, Kind: kind, Partition: entry.Partition, CreatedAtUTC: now,
	}
	if err := s.saveAdvisoryLookupLocked(); err != nil {
		return models.AdvisoryRef{}, err
	}

	entry.Advisories.AdvisoryIDs = append(entry.Advisories.AdvisoryIDs, advisoryID)
	entry.Advisories.Count = len(entry.Advisories.AdvisoryIDs)
	s.index[runID] = entry
	if err := s.saveIndexLocked(); err != nil {
		return models.AdvisoryRef{}, err
	}

	obslog.RunEvent(runID, "attach_advisory").Str("advisory_id", advisoryID).Msg("advisory linked")
	return ref, nil
}
