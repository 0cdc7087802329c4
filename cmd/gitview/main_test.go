package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/jmgilman/gitview/backend/native"
	"github.com/jmgilman/gitview/config"
	"github.com/jmgilman/gitview/errors"
	"github.com/jmgilman/gitview/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *repo.Repository {
	t.Helper()
	b, err := native.Init("/repo", native.WithFilesystem(memfs.New()))
	require.NoError(t, err)
	r, err := repo.Open(context.Background(), b,
		repo.WithUser("Test User", "test@example.com"),
		repo.WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
	)
	require.NoError(t, err)
	return r
}

// run executes the CLI against r and returns stdout.
func run(t *testing.T, r *repo.Repository, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(&app{repo: r})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestWriteAndRead(t *testing.T) {
	r := newTestRepo(t)

	out, err := run(t, r, "hello\n", "add", "docs/hello.txt", "-m", "add hello")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "[master "))

	out, err = run(t, r, "", "cat", "docs/hello.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)

	out, err = run(t, r, "", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "tree ")
	assert.Contains(t, out, "docs/")

	_, err = run(t, r, "hello again\n", "update", "docs/hello.txt", "-m", "update hello")
	require.NoError(t, err)

	out, err = run(t, r, "", "log", "docs/hello.txt")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "2023-11-14 Test User update hello")

	out, err = run(t, r, "", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "author Test User <test@example.com>")
	assert.Contains(t, out, "1-hello\n")
	assert.Contains(t, out, "1+hello again\n")

	_, err = run(t, r, "", "mv", "docs/hello.txt", "hello.txt", "-m", "move")
	require.NoError(t, err)
	_, err = run(t, r, "", "cat", "docs/hello.txt")
	assert.True(t, errors.IsNotFound(err))

	out, err = run(t, r, "", "log", "--grep", "move")
	require.NoError(t, err)
	assert.Contains(t, out, "move")
}

func TestAdd_FromFile(t *testing.T) {
	r := newTestRepo(t)
	src := filepath.Join(t.TempDir(), "content.txt")
	require.NoError(t, os.WriteFile(src, []byte("from disk\n"), 0o600))

	_, err := run(t, r, "", "add", "a.txt", "--file", src, "-m", "add a")
	require.NoError(t, err)

	out, err := run(t, r, "", "cat", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "from disk\n", out)
}

func TestMessageRequired(t *testing.T) {
	r := newTestRepo(t)
	_, err := run(t, r, "x", "add", "a.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message")
}

func TestBranchAndMerge(t *testing.T) {
	r := newTestRepo(t)
	_, err := run(t, r, "base\n", "add", "a.txt", "-m", "base")
	require.NoError(t, err)

	_, err = run(t, r, "", "branch", "feature")
	require.NoError(t, err)

	out, err := run(t, r, "", "branch")
	require.NoError(t, err)
	assert.Equal(t, "  feature\n* master\n", out)

	_, err = run(t, r, "", "checkout", "feature")
	require.NoError(t, err)
	_, err = run(t, r, "feature\n", "update", "a.txt", "-m", "feature change")
	require.NoError(t, err)
	_, err = run(t, r, "", "checkout", "master")
	require.NoError(t, err)
	_, err = run(t, r, "master\n", "update", "a.txt", "-m", "master change")
	require.NoError(t, err)

	_, err = run(t, r, "", "merge", "--check", "feature")
	assert.True(t, errors.IsMergeConflict(err))

	out, err = run(t, r, "", "conflicts", "feature")
	assert.True(t, errors.IsMergeConflict(err))
	assert.Equal(t, "a.txt\n1-master\n1+feature\n", out)

	_, err = run(t, r, "", "branch", "-d", "master")
	assert.True(t, errors.IsInvalidState(err))
}

func TestPrintError(t *testing.T) {
	err := errors.NewMergeConflict("feature", []string{"a.txt"})

	var text bytes.Buffer
	printError(&text, err, false)
	assert.Contains(t, text.String(), "error: ")
	assert.Contains(t, text.String(), "  conflict: a.txt\n")

	var js bytes.Buffer
	printError(&js, err, true)
	var resp errors.ErrorResponse
	require.NoError(t, json.Unmarshal(js.Bytes(), &resp))
	assert.Equal(t, string(errors.CodeMergeConflict), resp.Code)
}

func TestSession_LoadsConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "gitview.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("path: /content\nbranch: main\n"), 0o600))

	var seen *config.Config
	a := &app{
		configPath: cfgPath,
		branch:     "override",
		open: func(_ context.Context, cfg *config.Config) (*repo.Repository, error) {
			seen = cfg
			return newTestRepo(t), nil
		},
	}

	_, err := a.session(context.Background())
	require.NoError(t, err)
	require.NotNil(t, seen)
	assert.Equal(t, "/content", seen.Path)
	assert.Equal(t, "override", seen.Branch)

	// opened once per invocation
	seen = nil
	_, err = a.session(context.Background())
	require.NoError(t, err)
	assert.Nil(t, seen)
}
