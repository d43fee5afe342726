// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package memo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "cache", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemoryStore() },
		"sqlite": func(t *testing.T) Store { return testSQLite(t) },
	}
	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			_, ok, err := s.Get(ctx, "crossref", "10.1/a")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.PutIfAbsent(ctx, "crossref", "10.1/a", []byte(`{"title":"A"}`)))
			require.NoError(t, s.PutIfAbsent(ctx, "crossref", "10.1/a", []byte(`{"title":"B"}`)))
			require.NoError(t, s.PutIfAbsent(ctx, "altmetric", "10.1/a", []byte(`{"score":5}`)))

			got, ok, err := s.Get(ctx, "crossref", "10.1/a")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, `{"title":"A"}`, string(got))

			got, ok, err = s.Get(ctx, "altmetric", "10.1/a")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, `{"score":5}`, string(got))

			_, ok, err = s.Get(ctx, "crossref", "10.1/b")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestMemoryStore_CopiesValue(t *testing.T) {
	s := NewMemoryStore()
	v := []byte("abc")
	require.NoError(t, s.PutIfAbsent(context.Background(), "crossref", "x", v))
	v[0] = 'z'

	got, _, _ := s.Get(context.Background(), "crossref", "x")
	assert.Equal(t, "abc", string(got))
}

func TestSQLiteStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.PutIfAbsent(ctx, "crossref", "10.1/a", []byte("1")))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	got, ok, err := s.Get(ctx, "crossref", "10.1/a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1", string(got))
}

func TestSQLiteStore_StatsAndClear(t *testing.T) {
	ctx := context.Background()
	s := testSQLite(t)
	for _, doi := range []string{"10.1/a", "10.1/b", "10.1/c"} {
		require.NoError(t, s.PutIfAbsent(ctx, "crossref", doi, []byte("{}")))
	}
	require.NoError(t, s.PutIfAbsent(ctx, "altmetric", "10.1/a", []byte("{}")))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"crossref": 3, "altmetric": 1}, stats)

	n, err := s.Clear(ctx, "crossref")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	stats, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"altmetric": 1}, stats)

	n, err = s.Clear(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
