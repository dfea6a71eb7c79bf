package attachstore

import (
	"sort"

	"github.com/rawblock/luthier-cam/pkg/models"
)

// RecentEntry is one row of RecentAttachments: a metadata entry plus the
// sha256 key it's stored under (the map in Store.meta drops the key
// otherwise).
type RecentEntry struct {
	SHA256 string `json:"sha256"`
	models.AttachmentMetaEntry
}

// RecentAttachments lists attachments most-recent-first by LastSeenAtUTC
// (spec §4.E recency index: "fast 'recent attachments' queries"). It is a
// read-only projection over the existing metadata index, not a separate
// persisted structure — the index is already small enough (one row per
// distinct blob) to sort on every call rather than maintain a second
// on-disk ordering. limit <= 0 means "no limit".
func (s *Store) RecentAttachments(limit int) []RecentEntry {
	s.mu.Lock()
	rows := make([]RecentEntry, 0, len(s.meta))
	for sha, entry := range s.meta {
		rows = append(rows, RecentEntry{SHA256: sha, AttachmentMetaEntry: entry})
	}
	s.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].LastSeenAtUTC.Equal(rows[j].LastSeenAtUTC) {
			return rows[i].SHA256 < rows[j].SHA256
		}
		return rows[i].LastSeenAtUTC.After(rows[j].LastSeenAtUTC)
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
