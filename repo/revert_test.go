package repo

import (
	"context"
	"testing"

	"github.com/jmgilman/gitview/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevert(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	commitFiles(t, r, fixture, "initial")

	_, err := r.Add(ctx, "new.txt", []byte("new\n"), "")
	require.NoError(t, err)
	_, err = r.Update(ctx, "test.txt", []byte("changed\n"), "")
	require.NoError(t, err)
	_, err = r.Remove(ctx, "numbers/two.txt", "")
	require.NoError(t, err)
	target, err := r.Save(ctx, "several changes")
	require.NoError(t, err)

	commitFiles(t, r, map[string]string{"numbers/one.txt": "one\n"}, "unrelated")

	_, err = r.Revert(ctx, string(target), "")
	require.NoError(t, err)
	assert.Equal(t, map[string]Op{
		"new.txt":         OpDeleted,
		"test.txt":        OpModified,
		"numbers/two.txt": OpAdded,
	}, r.Index())

	_, err = r.Save(ctx, "revert several changes")
	require.NoError(t, err)

	_, err = r.File(ctx, "new.txt")
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, "test content\n", readFile(t, r, "test.txt"))
	assert.Equal(t, "2\n", readFile(t, r, "numbers/two.txt"))
	assert.Equal(t, "one\n", readFile(t, r, "numbers/one.txt"))
}

func TestRevert_RootCommit(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	root := commitFiles(t, r, map[string]string{"a.txt": "a"}, "initial")

	_, err := r.Revert(ctx, string(root), "revert initial")
	require.NoError(t, err)

	tree, err := r.Tree(ctx, "")
	require.NoError(t, err)
	entries, err := tree.Entries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRevert_Conflict(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	commitFiles(t, r, fixture, "initial")
	target := commitFiles(t, r, map[string]string{"test.txt": "second\n"}, "second")
	commitFiles(t, r, map[string]string{"test.txt": "third\n"}, "third")

	_, err := r.Revert(ctx, string(target), "")
	conflict, ok := errors.AsMergeConflict(err)
	require.True(t, ok)
	assert.Equal(t, target.Short(), conflict.Branch())
	assert.Equal(t, []string{"test.txt"}, conflict.Paths())
	assert.Empty(t, r.Index())
}

func TestRevert_DirtyIndex(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	sha := commitFiles(t, r, fixture, "initial")

	_, err := r.Add(ctx, "pending.txt", []byte("p"), "")
	require.NoError(t, err)

	_, err = r.Revert(ctx, string(sha), "")
	assert.True(t, errors.IsInvalidState(err))
	_, err = r.Undo(ctx, string(sha), "")
	assert.True(t, errors.IsInvalidState(err))
}

func TestUndo(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	first := commitFiles(t, r, fixture, "initial")
	commitFiles(t, r, map[string]string{"test.txt": "second\n", "docs/a.md": "a"}, "second")
	_, err := r.Remove(ctx, "numbers", "third")
	require.NoError(t, err)

	_, err = r.Undo(ctx, string(first), "back to initial")
	require.NoError(t, err)

	want, err := r.backend.TreeOf(ctx, first)
	require.NoError(t, err)
	head, err := r.Tree(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, want, head.Sha())

	_, err = r.Undo(ctx, string(first), "")
	assert.True(t, errors.IsInvalidState(err))
}
