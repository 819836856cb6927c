package kv

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, s Store) {
	t.Helper()

	_, ok, err := s.Get("projects")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("projects", `[{"id":"1"}]`))
	v, ok, err := s.Get("projects")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, v)

	require.NoError(t, s.Set("projects", `[]`))
	v, _, _ = s.Get("projects")
	assert.Equal(t, `[]`, v)

	require.NoError(t, s.Remove("projects"))
	require.NoError(t, s.Remove("projects"))
	_, ok, err = s.Get("projects")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory(t *testing.T) {
	testStore(t, NewMemory())
}

func TestMemoryQuota(t *testing.T) {
	m := &Memory{Limit: 10}
	require.NoError(t, m.Set("a", "12345"))
	require.NoError(t, m.Set("a", "1234567890"))

	err := m.Set("b", "x")
	assert.True(t, errors.Is(err, ErrQuotaExceeded))
	assert.Equal(t, 1, m.Len())
}

func TestDir(t *testing.T) {
	d, err := NewDir(t.TempDir(), 0)
	require.NoError(t, err)
	testStore(t, d)
}

func TestDirTTL(t *testing.T) {
	d, err := NewDir(t.TempDir(), time.Hour)
	require.NoError(t, err)
	require.NoError(t, d.Set("tasks_backup", "[]"))

	_, ok, err := d.Get("tasks_backup")
	require.NoError(t, err)
	assert.True(t, ok)

	d.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, ok, err = d.Get("tasks_backup")
	require.NoError(t, err)
	assert.False(t, ok, "expired value should read as missing")
}

func TestDirRejectsBadKeys(t *testing.T) {
	d, err := NewDir(t.TempDir(), 0)
	require.NoError(t, err)

	for _, key := range []string{"", "../etc", `a\b`, ".hidden"} {
		assert.Error(t, d.Set(key, "x"), key)
	}
}

func TestNewDirEmptyRoot(t *testing.T) {
	_, err := NewDir("", 0)
	assert.Error(t, err)
}
