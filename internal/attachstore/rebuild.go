package attachstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/karrick/godirwalk"

	"github.com/rawblock/luthier-cam/pkg/models"
)

// Rebuild walks every blob under the store root and recomputes the metadata
// index from scratch, reconciling entries whose on-disk file has vanished
// and discovering blobs the index has forgotten (spec open question (b):
// this is the O(files) fallback path, used when the index is suspected
// corrupt rather than on every startup).
func (s *Store) Rebuild(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rebuilt := make(map[string]models.AttachmentMetaEntry, len(s.meta))

	err := godirwalk.Walk(s.root, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return nil
			}
			base := filepath.Base(path)
			sha := sha256FromFilename(base)
			if sha == "" {
				return nil
			}
			info, err := os.Stat(path)
			if err != nil {
				return nil
			}
			entry := s.meta[sha]
			entry.SizeBytes = uint64(info.Size())
			if entry.CreatedAtUTC.IsZero() {
				entry.CreatedAtUTC = info.ModTime().UTC()
			}
			if entry.Filename == "" {
				entry.Filename = base
			}
			rebuilt[sha] = entry
			return nil
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			return godirwalk.SkipNode
		},
	})
	if err != nil {
		return fmt.Errorf("attachstore: rebuild walk: %w", err)
	}

	s.meta = rebuilt
	s.filter = newFilterFromKeys(rebuilt)
	return s.saveMetaLocked()
}

// sha256FromFilename extracts the hex sha256 prefix of a blob filename
// ("{sha}" or "{sha}.ext"), returning "" if base isn't a 64-hex-char blob
// name.
func sha256FromFilename(base string) string {
	name := base
	if i := strings.IndexByte(base, '.'); i >= 0 {
		name = base[:i]
	}
	if len(name) != 64 {
		return ""
	}
	for _, c := range name {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return ""
		}
	}
	return name
}
