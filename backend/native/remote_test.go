package native

import (
	"context"
	"os/exec"
	"testing"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/config"
	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRemotePair returns a bare repository on disk and a local repository
// with "origin" pointing at it. The file transport needs real paths and
// shells out to git-upload-pack and git-receive-pack.
func newRemotePair(t *testing.T) (remote *Backend, local *Backend, remoteDir string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	remoteDir = t.TempDir()
	remote, err := Init(remoteDir, WithFilesystem(osfs.New("/")), WithBare())
	require.NoError(t, err)

	local, err = Init(t.TempDir(), WithFilesystem(osfs.New("/")))
	require.NoError(t, err)
	addOrigin(t, local, remoteDir)

	return remote, local, remoteDir
}

func addOrigin(t *testing.T, b *Backend, url string) {
	t.Helper()
	_, err := b.Underlying().CreateRemote(&config.RemoteConfig{
		Name: backend.DefaultRemote,
		URLs: []string{url},
	})
	require.NoError(t, err)
}

func TestPushFetchPull(t *testing.T) {
	ctx := context.Background()
	remote, local, remoteDir := newRemotePair(t)

	first := commitFiles(t, local, "master", map[string]string{"a.txt": "a"}, "first")
	require.NoError(t, local.Push(ctx, backend.RemoteOptions{Branch: "master"}))

	got, err := remote.Dereference(ctx, "master")
	require.NoError(t, err)
	assert.Equal(t, first, got)

	// pushing again is a no-op
	require.NoError(t, local.Push(ctx, backend.RemoteOptions{Branch: "master"}))

	other, err := Init(t.TempDir(), WithFilesystem(osfs.New("/")))
	require.NoError(t, err)
	addOrigin(t, other, remoteDir)

	require.NoError(t, other.Pull(ctx, backend.RemoteOptions{Branch: "master"}))
	got, err = other.Dereference(ctx, "master")
	require.NoError(t, err)
	assert.Equal(t, first, got)

	second := commitFiles(t, local, "master", map[string]string{"a.txt": "b"}, "second")
	require.NoError(t, local.Push(ctx, backend.RemoteOptions{}))

	require.NoError(t, other.Fetch(ctx, backend.RemoteOptions{}))
	got, err = other.Dereference(ctx, "refs/remotes/origin/master")
	require.NoError(t, err)
	assert.Equal(t, second, got)

	// fast-forward
	require.NoError(t, other.Pull(ctx, backend.RemoteOptions{}))
	got, err = other.Dereference(ctx, "master")
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestPull_Diverged(t *testing.T) {
	ctx := context.Background()
	_, local, remoteDir := newRemotePair(t)

	commitFiles(t, local, "master", map[string]string{"a.txt": "a"}, "first")
	require.NoError(t, local.Push(ctx, backend.RemoteOptions{Branch: "master"}))

	other, err := Init(t.TempDir(), WithFilesystem(osfs.New("/")))
	require.NoError(t, err)
	addOrigin(t, other, remoteDir)
	require.NoError(t, other.Pull(ctx, backend.RemoteOptions{Branch: "master"}))

	commitFiles(t, local, "master", map[string]string{"a.txt": "local"}, "local change")
	require.NoError(t, local.Push(ctx, backend.RemoteOptions{Branch: "master"}))
	commitFiles(t, other, "master", map[string]string{"a.txt": "other"}, "other change")

	err = other.Pull(ctx, backend.RemoteOptions{Branch: "master"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeConflict, errors.GetCode(err))
}

func TestFetch_MissingRemote(t *testing.T) {
	b := newTestBackend(t)
	err := b.Fetch(context.Background(), backend.RemoteOptions{Remote: "nowhere"})
	assert.True(t, errors.IsNotFound(err))
}
