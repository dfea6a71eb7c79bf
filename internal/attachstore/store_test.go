package attachstore

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutDeduplicatesByContent(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	now := time.Unix(1_700_000_000, 0).UTC()

	data := []byte("toolpath preview bytes")
	ref1, err := s.Put(data, "preview", "image/png", "preview.png", "run_a", now)
	require.NoError(t, err)
	ref2, err := s.Put(data, "preview", "image/png", "preview.png", "run_b", now.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, ref1.SHA256, ref2.SHA256)

	entry, ok := s.Meta(ref1.SHA256)
	require.True(t, ok)
	assert.Equal(t, int64(2), entry.RefCount)
	assert.Equal(t, "run_a", entry.FirstSeenRunID)
	assert.Equal(t, "run_b", entry.LastSeenRunID)
}

func TestGetRoundTrips(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	now := time.Unix(1_700_000_000, 0).UTC()

	data := []byte("gcode output")
	ref, err := s.Put(data, "gcode", "text/plain", "out.nc", "run_a", now)
	require.NoError(t, err)

	got, entry, err := s.Get(ref.SHA256)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, "out.nc", entry.Filename)
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	_, _, err = s.Get("0000000000000000000000000000000000000000000000000000000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOnTamperedBlobReturnsIntegrityMismatch(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root)
	require.NoError(t, err)
	now := time.Unix(1_700_000_000, 0).UTC()

	data := []byte("original content")
	ref, err := s.Put(data, "gcode", "text/plain", "out.nc", "run_a", now)
	require.NoError(t, err)

	path := s.blobPath(ref.SHA256, "out.nc")
	require.NoError(t, os.WriteFile(path, []byte("tampered content"), 0o644))

	_, _, err = s.Get(ref.SHA256)
	assert.ErrorIs(t, err, ErrIntegrityMismatch)
}

func TestOpenReloadsExistingMetadata(t *testing.T) {
	root := t.TempDir()
	s1, err := Open(root)
	require.NoError(t, err)
	now := time.Unix(1_700_000_000, 0).UTC()
	ref, err := s1.Put([]byte("payload"), "gcode", "text/plain", "out.nc", "run_a", now)
	require.NoError(t, err)

	s2, err := Open(root)
	require.NoError(t, err)
	entry, ok := s2.Meta(ref.SHA256)
	require.True(t, ok)
	assert.Equal(t, int64(1), entry.RefCount)
}
