package attachstore

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutJSONRoundTripsThroughLoadJSON(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	now := time.Unix(1_700_000_000, 0).UTC()

	doc := map[string]any{"b": 2, "a": 1}
	ref, err := s.PutJSON(doc, "advisory", "advisory.json", "run_a", now)
	require.NoError(t, err)
	assert.Equal(t, "application/json", ref.Mime)

	var got map[string]any
	require.NoError(t, s.LoadJSON(ref.SHA256, &got))
	assert.Equal(t, float64(1), got["a"])
	assert.Equal(t, float64(2), got["b"])
}

func TestPutJSONIsKeyOrderStable(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	now := time.Unix(1_700_000_000, 0).UTC()

	ref1, err := s.PutJSON(map[string]any{"b": 2, "a": 1}, "advisory", "x.json", "run_a", now)
	require.NoError(t, err)
	ref2, err := s.PutJSON(map[string]any{"a": 1, "b": 2}, "advisory", "x.json", "run_b", now)
	require.NoError(t, err)

	assert.Equal(t, ref1.SHA256, ref2.SHA256)
}

func TestLoadJSONMissingReturnsNotFound(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	var got map[string]any
	err = s.LoadJSON("0000000000000000000000000000000000000000000000000000000000000000", &got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyOnIntactBlobReportsOK(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	now := time.Unix(1_700_000_000, 0).UTC()

	data := []byte("gcode output")
	ref, err := s.Put(data, "gcode", "text/plain", "out.nc", "run_a", now)
	require.NoError(t, err)

	report, err := s.Verify(ref.SHA256)
	require.NoError(t, err)
	assert.True(t, report.OK)
	assert.Equal(t, ref.SHA256, report.ActualSHA256)
	assert.Equal(t, uint64(len(data)), report.SizeBytes)
	assert.Empty(t, report.Error)
}

func TestVerifyOnMutatedByteReportsNotOK(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root)
	require.NoError(t, err)
	now := time.Unix(1_700_000_000, 0).UTC()

	ref, err := s.Put([]byte("original content"), "gcode", "text/plain", "out.nc", "run_a", now)
	require.NoError(t, err)

	path := s.blobPath(ref.SHA256, "out.nc")
	require.NoError(t, os.WriteFile(path, []byte("tampered content"), 0o644))

	report, err := s.Verify(ref.SHA256)
	require.NoError(t, err)
	assert.False(t, report.OK)
	assert.NotEqual(t, ref.SHA256, report.ActualSHA256)
	assert.NotEmpty(t, report.Error)
}

func TestVerifyOnUnknownSHAReportsNotOK(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	report, err := s.Verify("0000000000000000000000000000000000000000000000000000000000000000")
	require.NoError(t, err)
	assert.False(t, report.OK)
	assert.NotEmpty(t, report.Error)
}

func TestRecentAttachmentsOrdersMostRecentFirst(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	base := time.Unix(1_700_000_000, 0).UTC()

	refOld, err := s.Put([]byte("old"), "gcode", "text/plain", "old.nc", "run_a", base)
	require.NoError(t, err)
	refMid, err := s.Put([]byte("mid"), "gcode", "text/plain", "mid.nc", "run_b", base.Add(time.Minute))
	require.NoError(t, err)
	refNew, err := s.Put([]byte("new"), "gcode", "text/plain", "new.nc", "run_c", base.Add(2*time.Minute))
	require.NoError(t, err)

	rows := s.RecentAttachments(0)
	require.Len(t, rows, 3)
	assert.Equal(t, refNew.SHA256, rows[0].SHA256)
	assert.Equal(t, refMid.SHA256, rows[1].SHA256)
	assert.Equal(t, refOld.SHA256, rows[2].SHA256)
}

func TestRecentAttachmentsRespectsLimit(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	base := time.Unix(1_700_000_000, 0).UTC()

	_, err = s.Put([]byte("one"), "gcode", "text/plain", "one.nc", "run_a", base)
	require.NoError(t, err)
	_, err = s.Put([]byte("two"), "gcode", "text/plain", "two.nc", "run_b", base.Add(time.Minute))
	require.NoError(t, err)

	rows := s.RecentAttachments(1)
	assert.Len(t, rows, 1)
}
