package runstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rawblock/luthier-cam/pkg/models"
)

// listPartitions returns every {root}/YYYY-MM-DD directory, newest first.
func listPartitions(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errIo("list partitions", err)
	}
	var partitions []string
	for _, e := range entries {
		if e.IsDir() && isPartitionName(e.Name()) {
			partitions = append(partitions, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(partitions)))
	return partitions, nil
}

func isPartitionName(name string) bool {
	return len(name) == len("2006-01-02") && name[4] == '-' && name[7] == '-'
}

// scanPartitionsForRun falls back to a reverse-chronological directory walk
// when the index doesn't know about runID (spec §4.F get: "else fall back
// to reverse-chronological partition scan").
func scanPartitionsForRun(root, runID string) (found bool, partition string, err error) {
	partitions, err := listPartitions(root)
	if err != nil {
		return false, "", err
	}
	for _, p := range partitions {
		if _, statErr := os.Stat(artifactPath(root, p, runID)); statErr == nil {
			return true, p, nil
		}
	}
	return false, "", nil
}

// readAdvisoryLinks loads every {run_id}_advisory_*.json file in partition
// and returns the AdvisoryRefs they carry.
func readAdvisoryLinks(root, partition, runID string) ([]models.AdvisoryRef, error) {
	dir := filepath.Join(root, partition)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errIo("list partition", err)
	}
	prefix := runID + "_advisory_"
	var refs []models.AdvisoryRef
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		var ref models.AdvisoryRef
		if err := json.Unmarshal(b, &ref); err != nil {
			continue
		}
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].CreatedAtUTC.Before(refs[j].CreatedAtUTC) })
	return refs, nil
}

// isTempOrLinkFile reports whether base is something rebuild_index must
// skip: an in-flight ".tmp" file or an advisory link file (spec §4.F
// rebuild_index: "skip tombstones and temp files and advisory link files").
func isTempOrLinkFile(base string) bool {
	return strings.HasSuffix(base, ".tmp") || strings.Contains(base, "_advisory_")
}
