package runstore

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rawblock/luthier-cam/internal/audit"
	"github.com/rawblock/luthier-cam/internal/obslog"
	"github.com/rawblock/luthier-cam/pkg/models"
)

// DeleteMode selects soft (tombstone) or hard (remove) deletion.
type DeleteMode int

const (
	DeleteSoft DeleteMode = iota
	DeleteHard
)

// DeleteRequest carries every input to delete_run (spec §4.F Delete).
type DeleteRequest struct {
	RunID      string
	Mode       DeleteMode
	Reason     string
	Actor      string
	RequestID  string
	Cascade    bool
	AdminAsserted bool
}

const minDeleteReasonLen = 6

// DeleteRun implements spec §4.F's delete_run: reason length check, rate
// limiting, hard-delete policy, soft tombstone or hard removal, and a
// best-effort audit line for the rate-limited, forbidden, not-found and
// success outcomes. A reason shorter than minDeleteReasonLen, and a failed
// removal or index write, return an error without an audit line.
func (s *Store) DeleteRun(req DeleteRequest, now time.Time) error {
	if len(req.Reason) < minDeleteReasonLen {
		return errBadParameter("delete reason must be at least 6 characters")
	}

	if !s.deleteLimiter.Allow(req.Actor, now) {
		s.auditAppend(req, now, audit.OutcomeRateLimited)
		return errRateLimited(req.Actor)
	}

	if req.Mode == DeleteHard {
		if !req.AdminAsserted || !s.deleteAllowHard {
			s.auditAppend(req, now, audit.OutcomeForbidden)
			return errPolicyDenied("hard delete requires admin assertion and delete_allow_hard=true")
		}
	}

	s.mu.Lock()
	entry, ok := s.index[req.RunID]
	s.mu.Unlock()
	if !ok || entry.IsTombstoned() {
		s.auditAppend(req, now, audit.OutcomeNotFound)
		return errNotFound(req.RunID)
	}

	var err error
	if req.Mode == DeleteHard {
		err = s.hardDelete(entry, req.Cascade)
	} else {
		err = s.softDelete(entry, req, now)
	}
	if err != nil {
		return err
	}

	s.auditAppend(req, now, audit.OutcomeSuccess)
	obslog.RunEvent(req.RunID, "delete").Str("mode", deleteModeString(req.Mode)).Msg("run deleted")
	return nil
}

func deleteModeString(m DeleteMode) string {
	if m == DeleteHard {
		return "hard"
	}
	return "soft"
}

func (s *Store) softDelete(entry models.IndexEntry, req DeleteRequest, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.Tombstone = &models.Tombstone{Deleted: true, DeletedAt: now, Reason: req.Reason, Actor: req.Actor}
	s.index[req.RunID] = entry
	return s.saveIndexLocked()
}

func (s *Store) hardDelete(entry models.IndexEntry, cascade bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := artifactPath(s.root, entry.Partition, entry.RunID)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errIo("remove artifact", err)
	}

	if cascade {
		dir := filepath.Join(s.root, entry.Partition)
		prefix := entry.RunID + "_advisory_"
		if entries, err := os.ReadDir(dir); err == nil {
			for _, e := range entries {
				if strings.HasPrefix(e.Name(), prefix) {
					os.Remove(filepath.Join(dir, e.Name()))
				}
			}
		}
		for advisoryID, loc := range s.advisoryLookup {
			if loc.RunID == entry.RunID {
				delete(s.advisoryLookup, advisoryID)
			}
		}
		if err := s.saveAdvisoryLookupLocked(); err != nil {
			return err
		}
	}

	delete(s.index, entry.RunID)
	return s.saveIndexLocked()
}

// auditAppend is best-effort: a failure to write the audit line never
// changes the outcome of the caller's delete attempt (spec §7).
func (s *Store) auditAppend(req DeleteRequest, now time.Time, outcome audit.Outcome) {
	err := s.audit.Append(audit.Entry{
		Timestamp: now,
		RunID:     req.RunID,
		Mode:      deleteModeString(req.Mode),
		Reason:    req.Reason,
		Actor:     req.Actor,
		RequestID: req.RequestID,
		Outcome:   outcome,
	})
	if err != nil {
		obslog.RunError(req.RunID, "delete.audit_failed", err)
	}
}
