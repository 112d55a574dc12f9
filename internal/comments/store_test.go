package comments

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "rinblog.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.FileExists(t, path)
}

func TestCreateAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, Comment{
		PostSlug: "example-post",
		Nickname: "Alice",
		Content:  "Hello there!",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	listed, err := s.ListByPost(ctx, "example-post")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Hello there!", listed[0].Content)
	assert.Equal(t, "Alice", listed[0].Nickname)

	other, err := s.ListByPost(ctx, "other-post")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCreate_AnonymousStoredAsNull(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, Comment{PostSlug: "p", Content: "hi"})
	require.NoError(t, err)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Nickname)
	assert.Zero(t, got.ParentID)
}

func TestCreate_WithParent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	parent, err := s.Create(ctx, Comment{PostSlug: "p", Content: "first"})
	require.NoError(t, err)

	reply, err := s.Create(ctx, Comment{PostSlug: "p", Content: "second", ParentID: parent.ID})
	require.NoError(t, err)

	got, err := s.Get(ctx, reply.ID)
	require.NoError(t, err)
	assert.Equal(t, parent.ID, got.ParentID)
}

func TestListByPost_OrderedOldestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three"} {
		_, err := s.Create(ctx, Comment{PostSlug: "p", Content: text})
		require.NoError(t, err)
	}

	listed, err := s.ListByPost(ctx, "p")
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "one", listed[0].Content)
	assert.Equal(t, "three", listed[2].Content)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	require.NoError(t, err)
	_, err = s1.Create(context.Background(), Comment{PostSlug: "p", Content: "persisted"})
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	listed, err := s2.ListByPost(context.Background(), "p")
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}
