// Package attachstore implements the content-addressed attachment store of
// spec §4.E: every byte blob is keyed by its SHA-256, sharded two levels
// deep, written via tmp+fsync+rename, deduplicated by content hash.
package attachstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	cuckoo "github.com/seiflotfy/cuckoofilter"

	"github.com/rawblock/luthier-cam/internal/canonjson"
	"github.com/rawblock/luthier-cam/internal/fsatomic"
	"github.com/rawblock/luthier-cam/pkg/models"
)

const cuckooCapacity = 1_000_000

// Store wraps one attachment root directory. One Store instance is safe for
// concurrent use.
type Store struct {
	root string

	mu     sync.Mutex
	meta   map[string]models.AttachmentMetaEntry
	filter *cuckoo.Filter
}

// Open loads (or initializes) the store rooted at root, rebuilding the
// in-memory cuckoo existence filter from the persisted metadata index.
func Open(root string) (*Store, error) {
	meta, err := loadMeta(metaPath(root))
	if err != nil {
		return nil, err
	}
	s := &Store{root: root, meta: meta, filter: newFilterFromKeys(meta)}
	return s, nil
}

func newFilterFromKeys(meta map[string]models.AttachmentMetaEntry) *cuckoo.Filter {
	f := cuckoo.NewFilter(cuckooCapacity)
	for sha := range meta {
		f.Insert([]byte(sha))
	}
	return f
}

func metaPath(root string) string { return filepath.Join(root, "_attachment_meta.json") }

// Put stores data under its SHA-256, deduplicating identical content, and
// returns the resulting reference (spec §4.E). runID records which run
// first/last referenced this blob in the metadata index.
func (s *Store) Put(data []byte, kind, mime, filename, runID string, now time.Time) (models.AttachmentRef, error) {
	sha := canonjson.HashBytes(data)
	path := s.blobPath(sha, filename)

	s.mu.Lock()
	defer s.mu.Unlock()

	// The cuckoo filter never reports a false negative for a sha this Store
	// has written (always inserted below), so a miss here proves the blob
	// is new and the os.Stat inside WriteFileIfAbsent would be wasted. A
	// false positive still falls through to that real stat.
	var wrote bool
	var err error
	if s.filter.Lookup([]byte(sha)) {
		wrote, err = fsatomic.WriteFileIfAbsent(path, data, 0o644)
	} else {
		err = fsatomic.WriteFile(path, data, 0o644)
		wrote = true
	}
	if err != nil {
		return models.AttachmentRef{}, fmt.Errorf("attachstore: put: %w", err)
	}
	if wrote {
		s.filter.Insert([]byte(sha))
	}

	entry, existed := s.meta[sha]
	if !existed {
		entry = models.AttachmentMetaEntry{
			Kind:           kind,
			Mime:           mime,
			Filename:       filename,
			SizeBytes:      uint64(len(data)),
			CreatedAtUTC:   now,
			FirstSeenRunID: runID,
			FirstSeenAtUTC: now,
		}
	}
	entry.LastSeenRunID = runID
	entry.LastSeenAtUTC = now
	entry.RefCount++
	s.meta[sha] = entry

	if err := s.saveMetaLocked(); err != nil {
		return models.AttachmentRef{}, err
	}

	return models.AttachmentRef{
		SHA256:       sha,
		Kind:         kind,
		Mime:         mime,
		Filename:     filename,
		SizeBytes:    uint64(len(data)),
		CreatedAtUTC: entry.CreatedAtUTC,
	}, nil
}

// PutJSON canonicalizes v (sorted keys, compact form) and stores the
// pretty-printed rendering of that canonical form through Put (spec §4.E
// put_json) — the same dedup/atomic-write path raw blobs use, so a JSON
// document and a raw blob with identical bytes-on-disk collapse to one
// stored copy. The returned sha256 is the hash of the pretty-printed bytes
// as stored; it is not the hash of the compact canonical encoding.
func (s *Store) PutJSON(v any, kind, filename, runID string, now time.Time) (models.AttachmentRef, error) {
	result, err := canonjson.PutJSON(v)
	if err != nil {
		return models.AttachmentRef{}, fmt.Errorf("attachstore: put_json: %w", err)
	}
	return s.Put(result.PrettyBytes, kind, "application/json", filename, runID, now)
}

// LoadJSON reads back the blob for sha and decodes it as JSON into v (spec
// §4.E load_json). It returns ErrNotFound/ErrIntegrityMismatch exactly as
// Get does before ever attempting to decode.
func (s *Store) LoadJSON(sha string, v any) error {
	data, _, err := s.Get(sha)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("attachstore: load_json: decode: %w", err)
	}
	return nil
}

// VerifyReport is the result of Verify (spec §4.E verify).
type VerifyReport struct {
	OK           bool   `json:"ok"`
	ActualSHA256 string `json:"actual_sha256"`
	SizeBytes    uint64 `json:"size_bytes"`
	Error        string `json:"error,omitempty"`
}

// Verify recomputes the sha256 of the blob stored under sha and reports
// whether it still matches (spec §4.E verify, spec §8 "hash round-trips": a
// randomly-mutated byte must flip OK to false). Unlike Get, it reads the raw
// bytes directly rather than discarding them on mismatch, so a corrupted
// blob's actual hash is still reported. A missing blob or metadata entry is
// reported as a non-OK result rather than an error, matching verify's
// "Option"-flavored contract.
func (s *Store) Verify(sha string) (VerifyReport, error) {
	s.mu.Lock()
	entry, ok := s.meta[sha]
	s.mu.Unlock()
	if !ok {
		return VerifyReport{OK: false, Error: ErrNotFound.Error()}, nil
	}

	path := s.blobPath(sha, entry.Filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return VerifyReport{OK: false, Error: ErrNotFound.Error()}, nil
		}
		return VerifyReport{}, fmt.Errorf("attachstore: verify: %w", err)
	}

	actual := canonjson.HashBytes(data)
	if actual != sha {
		return VerifyReport{OK: false, ActualSHA256: actual, SizeBytes: uint64(len(data)), Error: ErrIntegrityMismatch.Error()}, nil
	}
	return VerifyReport{OK: true, ActualSHA256: actual, SizeBytes: uint64(len(data))}, nil
}

// Get reads back the blob for sha, verifying its content still hashes to
// sha (spec §7 IntegrityMismatch).
func (s *Store) Get(sha string) ([]byte, models.AttachmentMetaEntry, error) {
	s.mu.Lock()
	entry, ok := s.meta[sha]
	s.mu.Unlock()
	if !ok {
		return nil, models.AttachmentMetaEntry{}, ErrNotFound
	}

	path := s.blobPath(sha, entry.Filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.AttachmentMetaEntry{}, ErrNotFound
		}
		return nil, models.AttachmentMetaEntry{}, fmt.Errorf("attachstore: read: %w", err)
	}
	if canonjson.HashBytes(data) != sha {
		return nil, models.AttachmentMetaEntry{}, ErrIntegrityMismatch
	}
	return data, entry, nil
}

// Meta returns the metadata entry for sha without reading blob bytes.
func (s *Store) Meta(sha string) (models.AttachmentMetaEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.meta[sha]
	return entry, ok
}

func (s *Store) blobPath(sha, filename string) string {
	ext := filepath.Ext(filename)
	return filepath.Join(s.root, sha[0:2], sha[2:4], sha+ext)
}

func (s *Store) saveMetaLocked() error {
	result, err := canonjson.PutJSON(s.meta)
	if err != nil {
		return fmt.Errorf("attachstore: marshal meta: %w", err)
	}
	if err := fsatomic.WriteFile(metaPath(s.root), result.PrettyBytes, 0o644); err != nil {
		return fmt.Errorf("attachstore: save meta: %w", err)
	}
	return nil
}

func loadMeta(path string) (map[string]models.AttachmentMetaEntry, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]models.AttachmentMetaEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("attachstore: read meta: %w", err)
	}
	var meta map[string]models.AttachmentMetaEntry
	if err := json.Unmarshal(b, &meta); err != nil {
		return nil, fmt.Errorf("attachstore: parse meta: %w", err)
	}
	return meta, nil
}
