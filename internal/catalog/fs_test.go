package catalog

import (
	"context"
	"io"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/Project-Sylos/Cabinet/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTree creates docs/{readme.md, img/logo.png} and top.txt
func buildTree(t *testing.T, cat *Catalog) {
	t.Helper()
	ctx := context.Background()

	docs, err := cat.CreateFolder(ctx, "docs", nil)
	require.NoError(t, err)
	img, err := cat.CreateFolder(ctx, "img", ptr(docs.ID))
	require.NoError(t, err)

	_, err = cat.CreateFile(ctx, upload("readme.md", "# docs", ptr(docs.ID)))
	require.NoError(t, err)
	_, err = cat.CreateFile(ctx, upload("logo.png", "png-bytes", ptr(img.ID)))
	require.NoError(t, err)
	_, err = cat.CreateFile(ctx, upload("top.txt", "top", nil))
	require.NoError(t, err)
}

func TestFSConformance(t *testing.T) {
	cat, _, _ := newTestCatalog(t)
	buildTree(t, cat)

	require.NoError(t, fstest.TestFS(cat.FS(context.Background()), "docs/readme.md", "docs/img/logo.png", "top.txt"))
}

func TestFSReadAndList(t *testing.T) {
	cat, _, _ := newTestCatalog(t)
	buildTree(t, cat)
	fsys := cat.FS(context.Background())

	data, err := fs.ReadFile(fsys, "docs/img/logo.png")
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	entries, err := fs.ReadDir(fsys, ".")
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	assert.Equal(t, []string{"docs", "top.txt"}, names)
	assert.True(t, entries[0].IsDir())

	info, err := fs.Stat(fsys, "top.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Size())
	file, ok := info.Sys().(*types.File)
	require.True(t, ok)
	assert.Equal(t, "text/plain", file.ContentType)

	tests := []string{"missing", "top.txt/child", "docs/nope.md", "/abs", "docs/../top.txt"}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := fsys.Open(name)
			assert.Error(t, err)
		})
	}
}

// TestFSNameShadowing checks folders shadow files and lower ids shadow higher ones
func TestFSNameShadowing(t *testing.T) {
	cat, _, _ := newTestCatalog(t)
	ctx := context.Background()

	_, err := cat.CreateFile(ctx, upload("dup", "file", nil))
	require.NoError(t, err)
	folder, err := cat.CreateFolder(ctx, "dup", nil)
	require.NoError(t, err)
	_, err = cat.CreateFile(ctx, upload("same.txt", "first", nil))
	require.NoError(t, err)
	_, err = cat.CreateFile(ctx, upload("same.txt", "second", nil))
	require.NoError(t, err)

	fsys := cat.FS(ctx)

	info, err := fs.Stat(fsys, "dup")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	f, err := fsys.Open("dup")
	require.NoError(t, err)
	dir, ok := f.(fs.ReadDirFile)
	require.True(t, ok)
	_, err = dir.ReadDir(1)
	assert.ErrorIs(t, err, io.EOF)
	require.NoError(t, f.Close())

	data, err := fs.ReadFile(fsys, "same.txt")
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	entries, err := fs.ReadDir(fsys, ".")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.NotZero(t, folder.ID)
}
