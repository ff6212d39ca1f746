package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ipcamctl", "front.jpg")

	require.NoError(t, cacheSnapshot(path, []byte("jpeg-bytes")))

	got := cachedSnapshot(path, time.Minute)
	assert.Equal(t, []byte("jpeg-bytes"), got)
}

func TestCachedSnapshotExpired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "front.jpg")
	require.NoError(t, cacheSnapshot(path, []byte("stale")))

	// Age the entry past the TTL.
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	assert.Nil(t, cachedSnapshot(path, time.Minute))
}

func TestCachedSnapshotMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.jpg")

	assert.Nil(t, cachedSnapshot(path, time.Minute))
}
