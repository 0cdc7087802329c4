package native

import (
	"context"
	"testing"

	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/diff"
	"github.com/jmgilman/gitview/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteBlob_CatFile(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	sha, err := b.WriteBlob(ctx, []byte("test content\n"))
	require.NoError(t, err)
	// same id git hash-object computes
	assert.Equal(t, backend.Sha("d670460b4b4aece5915caf5c68d12f560a9fe3e4"), sha)

	content, err := b.CatFile(ctx, sha)
	require.NoError(t, err)
	assert.Equal(t, "test content\n", string(content))
}

func TestCatFile_Errors(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	_, err := b.CatFile(ctx, "not-a-sha")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = b.CatFile(ctx, "d670460b4b4aece5915caf5c68d12f560a9fe3e4")
	assert.True(t, errors.IsNotFound(err))
}

func TestWriteTree_LoadTree(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	blob, err := b.WriteBlob(ctx, []byte("1\n"))
	require.NoError(t, err)
	sub, err := b.WriteTree(ctx, []backend.TreeEntry{
		{Name: "one.txt", Mode: backend.ModeFile, Kind: backend.KindBlob, Sha: blob},
	})
	require.NoError(t, err)

	root, err := b.WriteTree(ctx, []backend.TreeEntry{
		{Name: "test.txt", Mode: backend.ModeFile, Kind: backend.KindBlob, Sha: blob},
		{Name: "numbers", Mode: backend.ModeDir, Kind: backend.KindTree, Sha: sub},
		{Name: "bin.sh", Mode: backend.ModeExecutable, Kind: backend.KindBlob, Sha: blob},
	})
	require.NoError(t, err)

	entries, err := b.LoadTree(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, []backend.TreeEntry{
		{Name: "bin.sh", Mode: backend.ModeExecutable, Kind: backend.KindBlob, Sha: blob},
		{Name: "numbers", Mode: backend.ModeDir, Kind: backend.KindTree, Sha: sub},
		{Name: "test.txt", Mode: backend.ModeFile, Kind: backend.KindBlob, Sha: blob},
	}, entries)
}

func TestWriteTree_InvalidEntry(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	_, err := b.WriteTree(ctx, []backend.TreeEntry{{Name: "a/b", Mode: backend.ModeFile, Sha: "d670460b4b4aece5915caf5c68d12f560a9fe3e4"}})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = b.WriteTree(ctx, []backend.TreeEntry{{Name: "a", Mode: backend.ModeFile, Sha: "zzz"}})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestCommitMetadata(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	first := commitFiles(t, b, "master", map[string]string{"test.txt": "test content\n"}, "initial")
	second := commitFiles(t, b, "master", map[string]string{
		"test.txt":        "new line\ntest content\nanother line\none more\n",
		"numbers/one.txt": "1",
	}, "second commit\n")

	md, err := b.CommitMetadata(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, second, md.Sha)
	assert.Equal(t, []backend.Sha{first}, md.Parents)
	assert.Equal(t, "Test User", md.Author)
	assert.Equal(t, "test@example.com", md.Email)
	assert.Equal(t, int64(1700000000), md.Timestamp)
	assert.Equal(t, "second commit", md.Message)
	assert.True(t, md.Tree.IsValid())

	tree, err := b.TreeOf(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, md.Tree, tree)

	parsed, err := diff.ParseFiles(md.Patches)
	require.NoError(t, err)
	assert.Equal(t, []string{"numbers/one.txt", "test.txt"}, parsed.Paths())

	var rendered []string
	for _, l := range parsed["test.txt"] {
		rendered = append(rendered, l.String())
	}
	assert.Equal(t, []string{"1+new line\n", "2 test content\n", "3+another line\n", "4+one more\n"}, rendered)
	require.Len(t, parsed["numbers/one.txt"], 1)
	assert.Equal(t, "1", parsed["numbers/one.txt"][0].Text)

	root, err := b.CommitMetadata(ctx, first)
	require.NoError(t, err)
	assert.Empty(t, root.Parents)
	assert.Contains(t, root.Patches, "test.txt")
}

func TestFiles(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	commitFiles(t, b, "master", map[string]string{"a.txt": "a", "gone.txt": "x"}, "initial")
	sha := commitFiles(t, b, "master", map[string]string{"a.txt": "b", "dir/new.txt": "n"}, "change")

	files, err := b.Files(ctx, sha)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "dir/new.txt", "gone.txt"}, files)
}
