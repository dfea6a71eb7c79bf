package runstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"

	"github.com/rawblock/luthier-cam/pkg/models"
)

// RebuildIndex traverses every partition directory and re-derives
// _index.json from the artifact files on disk, preserving existing
// tombstones unchanged (spec §4.F rebuild_index, §8 "index consistency").
func (s *Store) RebuildIndex() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tombstones := make(map[string]*models.Tombstone, len(s.index))
	for runID, e := range s.index {
		if e.IsTombstoned() {
			tombstones[runID] = e.Tombstone
		}
	}

	partitions, err := listPartitions(s.root)
	if err != nil {
		return err
	}

	rebuilt := make(map[string]models.IndexEntry, len(s.index))
	for _, partition := range partitions {
		dir := filepath.Join(s.root, partition)
		err := godirwalk.Walk(dir, &godirwalk.Options{
			Unsorted: true,
			Callback: func(path string, de *godirwalk.Dirent) error {
				if de.IsDir() {
					return nil
				}
				name := filepath.Base(path)
				if !strings.HasSuffix(name, ".json") || isTempOrLinkFile(name) {
					return nil
				}
				b, err := os.ReadFile(path)
				if err != nil {
					return nil
				}
				var artifact models.RunArtifact
				if err := json.Unmarshal(b, &artifact); err != nil {
					return nil
				}
				entry := indexEntryFromArtifact(artifact, partition)
				if ts, tombstoned := tombstones[artifact.RunID]; tombstoned {
					entry.Tombstone = ts
				}
				rebuilt[artifact.RunID] = entry
				return nil
			},
			ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
				return godirwalk.SkipNode
			},
		})
		if err != nil {
			return errIo("read partition", err)
		}
	}

	s.index = rebuilt
	return s.saveIndexLocked()
}
