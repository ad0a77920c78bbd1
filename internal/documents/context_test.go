package documents

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildEmptyDirectory(t *testing.T) {
	a := NewAssembler(NewStore(t.TempDir(), newFakeExtractor(), nil), nil)
	got, err := a.Build(context.Background())
	require.NoError(t, err)
	require.True(t, got.Empty())
	require.Equal(t, 0, got.Listed)
	require.Empty(t, got.Documents)
}

func TestBuildLabelsAndOrder(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf")
	touch(t, dir, "b.pdf")
	fx := newFakeExtractor()
	fx.texts["a.pdf"] = "alpha text"
	fx.texts["b.pdf"] = "beta text"

	got, err := NewAssembler(NewStore(dir, fx, nil), nil).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, "[Document: a.pdf]\nalpha text\n\n\n[Document: b.pdf]\nbeta text", got.Text)
	require.Equal(t, []string{"a.pdf", "b.pdf"}, got.Documents)
	require.Equal(t, 2, got.Listed)
}

func TestBuildSkipsFailedDocuments(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "bad.pdf")
	touch(t, dir, "empty.pdf")
	touch(t, dir, "good.pdf")
	fx := newFakeExtractor()
	fx.fail["bad.pdf"] = true
	fx.texts["good.pdf"] = "useful content"

	got, err := NewAssembler(NewStore(dir, fx, nil), nil).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"good.pdf"}, got.Documents)
	require.Equal(t, 3, got.Listed)
	require.Contains(t, got.Text, "useful content")
	require.NotContains(t, got.Text, "bad.pdf")
	require.NotContains(t, got.Text, "empty.pdf")
}

func TestBuildAllFailingIsEmpty(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "bad.pdf")
	fx := newFakeExtractor()
	fx.fail["bad.pdf"] = true

	got, err := NewAssembler(NewStore(dir, fx, nil), nil).Build(context.Background())
	require.NoError(t, err)
	require.True(t, got.Empty())
	require.Equal(t, 1, got.Listed)
}

func TestBuildDoesNotMutateDocumentText(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "long.pdf")
	fx := newFakeExtractor()
	long := strings.Repeat("0123456789", 500)
	fx.texts["long.pdf"] = long

	got, err := NewAssembler(NewStore(dir, fx, nil), nil).Build(context.Background())
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(got.Text, long))
}

func TestBuildUnreadableDirectoryErrors(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := NewAssembler(NewStore(file, newFakeExtractor(), nil), nil).Build(context.Background())
	require.Error(t, err)
}
