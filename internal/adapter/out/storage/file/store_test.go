package file

import (
	"context"
	"os"
	"path/filepath"
	"postboard/internal/adapter/out/storage"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocumentStore_LoadMissing(t *testing.T) {
	t.Parallel()

	st := NewDocumentStore(t.TempDir())

	doc, err := st.Load(context.Background(), storage.CollectionAccounts)
	require.NoError(t, err)
	require.Nil(t, doc)
}

func TestDocumentStore_SaveReplacesWholeFile(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "data")
	st := NewDocumentStore(dir)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, storage.CollectionPosts, []byte(`[{"id":1},{"id":2},{"id":3}]`)))
	require.NoError(t, st.Save(ctx, storage.CollectionPosts, []byte(`[]`)))

	doc, err := st.Load(ctx, storage.CollectionPosts)
	require.NoError(t, err)
	require.Equal(t, `[]`, string(doc))

	raw, err := os.ReadFile(filepath.Join(dir, "posts.json"))
	require.NoError(t, err)
	require.Equal(t, `[]`, string(raw))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestDocumentStore_LoadUnreadable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	st := NewDocumentStore(dir)

	// a directory where the document should be cannot be read as a file
	require.NoError(t, os.Mkdir(filepath.Join(dir, "logs.json"), 0o755))

	_, err := st.Load(context.Background(), storage.CollectionLogs)
	require.ErrorIs(t, err, storage.ErrCorrupt)
}

func TestDocumentStore_SaveUnwritable(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	blocker := filepath.Join(parent, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	st := NewDocumentStore(filepath.Join(blocker, "data"))

	err := st.Save(context.Background(), storage.CollectionLogs, []byte(`[]`))
	require.ErrorIs(t, err, storage.ErrUnavailable)
}

func TestDocumentStore_InvalidCollection(t *testing.T) {
	t.Parallel()

	st := NewDocumentStore(t.TempDir())

	_, err := st.Load(context.Background(), "../secret")
	require.ErrorIs(t, err, storage.ErrBadCollection)
	require.ErrorIs(t, st.Save(context.Background(), "../secret", nil), storage.ErrBadCollection)
}
