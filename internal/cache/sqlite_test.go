// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T, ttl time.Duration, maxEntries int) *SQLite {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "cache.db"), ttl, maxEntries)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLitePutGet(t *testing.T) {
	s := newTestSQLite(t, time.Hour, 0)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "fp1", sampleRecords()))

	got, ok, err := s.Get(ctx, "fp1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleRecords(), got)
}

func TestSQLiteMiss(t *testing.T) {
	s := newTestSQLite(t, time.Hour, 0)
	_, ok, err := s.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteExpiry(t *testing.T) {
	s := newTestSQLite(t, time.Hour, 0)
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "fp1", sampleRecords()))

	now = now.Add(2 * time.Hour)
	_, ok, err := s.Get(ctx, "fp1")
	require.NoError(t, err)
	assert.False(t, ok)

	// The expired row was dropped, not just hidden.
	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM results`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestSQLiteOverwrite(t *testing.T) {
	s := newTestSQLite(t, time.Hour, 0)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "fp1", sampleRecords()))
	require.NoError(t, s.Put(ctx, "fp1", sampleRecords()[:1]))

	got, ok, err := s.Get(ctx, "fp1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got, 1)
}

func TestSQLiteCapTrimsOldest(t *testing.T) {
	s := newTestSQLite(t, time.Hour, 2)
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Put(ctx, fmt.Sprintf("fp%d", i), sampleRecords()))
		now = now.Add(time.Minute)
	}

	_, ok, _ := s.Get(ctx, "fp0")
	assert.False(t, ok)
	_, ok, _ = s.Get(ctx, "fp2")
	assert.True(t, ok)
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	s, err := NewSQLite(path, time.Hour, 0)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "fp1", sampleRecords()))
	require.NoError(t, s.Close())

	s2, err := NewSQLite(path, time.Hour, 0)
	require.NoError(t, err)
	defer s2.Close()

	got, ok, err := s2.Get(ctx, "fp1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleRecords(), got)
}
