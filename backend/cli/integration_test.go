package cli

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/diff"
	"github.com/jmgilman/gitview/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newGitBackend initializes a bare repository in a temp dir using the real
// git binary.
func newGitBackend(t *testing.T) *Backend {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	dir := t.TempDir()
	b, err := Init(dir, true)
	require.NoError(t, err)
	require.NoError(t, b.SetHead(context.Background(), "master"))
	return b
}

func commitFile(t *testing.T, b *Backend, branch, name, content, message string) backend.Sha {
	t.Helper()
	ctx := context.Background()

	blob, err := b.WriteBlob(ctx, []byte(content))
	require.NoError(t, err)
	tree, err := b.WriteTree(ctx, []backend.TreeEntry{
		{Name: name, Mode: backend.ModeFile, Kind: backend.KindBlob, Sha: blob},
	})
	require.NoError(t, err)

	var parents []backend.Sha
	expected := backend.EmptySha
	if head, err := b.Dereference(ctx, branch); err == nil {
		parents = append(parents, head)
		expected = head
	}

	sha, err := b.CreateCommit(ctx, backend.CommitRequest{
		Tree:    tree,
		Parents: parents,
		Message: message,
		Author: backend.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Unix(1700000000, 0).UTC(),
		},
	})
	require.NoError(t, err)
	require.NoError(t, b.UpdateBranch(ctx, branch, sha, expected))
	return sha
}

func TestGit_RoundTrip(t *testing.T) {
	b := newGitBackend(t)
	ctx := context.Background()

	blob, err := b.WriteBlob(ctx, []byte("test content\n"))
	require.NoError(t, err)
	assert.Equal(t, backend.Sha("d670460b4b4aece5915caf5c68d12f560a9fe3e4"), blob)

	first := commitFile(t, b, "master", "test.txt", "test content\n", "initial")
	second := commitFile(t, b, "master", "test.txt", "new line\ntest content\n", "second commit")

	head, err := b.Head(ctx)
	require.NoError(t, err)
	assert.Equal(t, "master", head)

	md, err := b.CommitMetadata(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, []backend.Sha{first}, md.Parents)
	assert.Equal(t, "second commit", md.Message)
	assert.Equal(t, int64(1700000000), md.Timestamp)

	parsed, err := diff.ParseFiles(md.Patches)
	require.NoError(t, err)
	var rendered []string
	for _, l := range parsed["test.txt"] {
		rendered = append(rendered, l.String())
	}
	assert.Equal(t, []string{"1+new line\n", "2 test content\n"}, rendered)

	files, err := b.Files(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, []string{"test.txt"}, files)

	shas, err := b.Log(ctx, "master", backend.LogOptions{})
	require.NoError(t, err)
	assert.Equal(t, []backend.Sha{second, first}, shas)

	err = b.UpdateBranch(ctx, "master", first, first)
	assert.Equal(t, errors.CodeConflict, errors.GetCode(err))
}

func TestGit_Branches(t *testing.T) {
	b := newGitBackend(t)
	ctx := context.Background()
	base := commitFile(t, b, "master", "a.txt", "a\n", "base")

	require.NoError(t, b.CreateBranch(ctx, "feature", base))
	err := b.CreateBranch(ctx, "feature", base)
	assert.True(t, errors.HasCode(err, errors.CodeAlreadyExists))

	side := commitFile(t, b, "feature", "b.txt", "b\n", "side")
	mb, err := b.MergeBase(ctx, base, side)
	require.NoError(t, err)
	assert.Equal(t, base, mb)

	assert.True(t, errors.IsInvalidState(b.DeleteBranch(ctx, "feature", false)))
	require.NoError(t, b.RenameBranch(ctx, "feature", "topic"))

	branches, err := b.ListBranches(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"master", "topic"}, branches)

	require.NoError(t, b.DeleteBranch(ctx, "topic", true))
	_, err = b.Dereference(ctx, "topic")
	assert.True(t, errors.IsNotFound(err))
}
