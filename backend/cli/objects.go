//nolint:contextcheck // Context is passed through Executor.WithContext, which the linter cannot follow
package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/diff"
	"github.com/jmgilman/gitview/internal/gitfmt"
)

// diffFlags keep patches stable regardless of user configuration.
var diffFlags = []string{"--no-color", "--no-ext-diff", "--no-renames"}

// CatFile returns the content of a blob.
func (b *Backend) CatFile(ctx context.Context, sha backend.Sha) ([]byte, error) {
	if err := checkSha(sha); err != nil {
		return nil, err
	}
	out, err := b.output(ctx, fmt.Sprintf("failed to read blob %s", sha.Short()), "cat-file", "blob", string(sha))
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// LoadTree returns the entries of a tree. Submodule entries are skipped.
func (b *Backend) LoadTree(ctx context.Context, sha backend.Sha) ([]backend.TreeEntry, error) {
	if err := checkSha(sha); err != nil {
		return nil, err
	}
	out, err := b.output(ctx, fmt.Sprintf("failed to read tree %s", sha.Short()), "ls-tree", string(sha))
	if err != nil {
		return nil, err
	}
	return gitfmt.ParseTree(out)
}

// WriteBlob stores content with `git hash-object -w`.
func (b *Backend) WriteBlob(ctx context.Context, content []byte) (backend.Sha, error) {
	result, err := b.git(ctx).WithStdin(bytes.NewReader(content)).Run("hash-object", "-w", "--stdin")
	if err != nil {
		return backend.EmptySha, wrapError(err, result, "failed to write blob")
	}
	return backend.Sha(strings.TrimSpace(result.Stdout)), nil
}

// WriteTree stores one tree level with `git mktree`, which sorts entries
// itself.
func (b *Backend) WriteTree(ctx context.Context, entries []backend.TreeEntry) (backend.Sha, error) {
	for _, e := range entries {
		if e.Name == "" || strings.ContainsAny(e.Name, "/\t\n") {
			return backend.EmptySha, invalidInput("invalid tree entry name %q", e.Name)
		}
		if err := checkSha(e.Sha); err != nil {
			return backend.EmptySha, err
		}
		if e.Kind == "" {
			return backend.EmptySha, invalidInput("tree entry %q has no kind", e.Name)
		}
	}

	input := gitfmt.FormatTree(entries)
	result, err := b.git(ctx).WithStdin(strings.NewReader(input)).Run("mktree")
	if err != nil {
		return backend.EmptySha, wrapError(err, result, "failed to write tree")
	}
	return backend.Sha(strings.TrimSpace(result.Stdout)), nil
}

// CreateCommit stores a commit with `git commit-tree`. The message is fed
// on stdin so it is recorded verbatim.
func (b *Backend) CreateCommit(ctx context.Context, req backend.CommitRequest) (backend.Sha, error) {
	if err := checkSha(req.Tree); err != nil {
		return backend.EmptySha, err
	}

	args := []string{"commit-tree", string(req.Tree)}
	for _, p := range req.Parents {
		if err := checkSha(p); err != nil {
			return backend.EmptySha, err
		}
		args = append(args, "-p", string(p))
	}

	when := req.Author.When
	if when.IsZero() {
		when = time.Now()
	}
	date := fmt.Sprintf("%d %s", when.Unix(), when.Format("-0700"))
	env := map[string]string{
		"GIT_AUTHOR_NAME":     req.Author.Name,
		"GIT_AUTHOR_EMAIL":    req.Author.Email,
		"GIT_AUTHOR_DATE":     date,
		"GIT_COMMITTER_NAME":  req.Author.Name,
		"GIT_COMMITTER_EMAIL": req.Author.Email,
		"GIT_COMMITTER_DATE":  date,
	}

	result, err := b.git(ctx).
		WithEnv(env).
		WithStdin(strings.NewReader(req.Message)).
		Run(args...)
	if err != nil {
		return backend.EmptySha, wrapError(err, result, "failed to create commit")
	}
	return backend.Sha(strings.TrimSpace(result.Stdout)), nil
}

// TreeOf returns the root tree of a commit.
func (b *Backend) TreeOf(ctx context.Context, sha backend.Sha) (backend.Sha, error) {
	if err := checkSha(sha); err != nil {
		return backend.EmptySha, err
	}
	out, err := b.output(ctx, fmt.Sprintf("failed to read commit %s", sha.Short()),
		"rev-parse", "--verify", string(sha)+"^{tree}")
	if err != nil {
		return backend.EmptySha, err
	}
	return backend.Sha(strings.TrimSpace(out)), nil
}

// CommitMetadata returns a commit's metadata with patches against its first
// parent.
func (b *Backend) CommitMetadata(ctx context.Context, sha backend.Sha) (*backend.RawMetadata, error) {
	if err := checkSha(sha); err != nil {
		return nil, err
	}

	out, err := b.output(ctx, fmt.Sprintf("failed to read commit %s", sha.Short()),
		"show", "-s", "--format="+gitfmt.MetadataFormat, string(sha))
	if err != nil {
		return nil, err
	}
	md, err := gitfmt.ParseMetadata(out)
	if err != nil {
		return nil, err
	}

	patch, err := b.patch(ctx, sha, md.Parents)
	if err != nil {
		return nil, err
	}
	md.Patches = make(map[string]string)
	for _, fp := range diff.Split(patch) {
		md.Patches[fp.Path] = fp.Hunks
	}
	return md, nil
}

// Files returns the paths a commit changed relative to its first parent.
func (b *Backend) Files(ctx context.Context, sha backend.Sha) ([]string, error) {
	if err := checkSha(sha); err != nil {
		return nil, err
	}
	parents, err := b.parents(ctx, sha)
	if err != nil {
		return nil, err
	}

	args := []string{"diff-tree", "-r", "--raw", "--no-renames"}
	if len(parents) == 0 {
		args = append(args, "--root", "--no-commit-id", string(sha))
	} else {
		args = append(args, string(parents[0]), string(sha))
	}
	out, err := b.output(ctx, fmt.Sprintf("failed to list files of %s", sha.Short()), args...)
	if err != nil {
		return nil, err
	}

	changes := gitfmt.ParseRawDiff(out)
	files := make([]string, 0, len(changes))
	for _, c := range changes {
		files = append(files, c.Path)
	}
	return files, nil
}

func (b *Backend) patch(ctx context.Context, sha backend.Sha, parents []backend.Sha) (string, error) {
	var args []string
	if len(parents) == 0 {
		args = append([]string{"diff-tree", "-p", "-r", "--root", "--no-commit-id"}, diffFlags...)
		args = append(args, string(sha))
	} else {
		args = append([]string{"diff"}, diffFlags...)
		args = append(args, string(parents[0]), string(sha))
	}
	return b.output(ctx, fmt.Sprintf("failed to compute patch for %s", sha.Short()), args...)
}

// parents returns the parents of a commit using `git rev-list --parents`.
func (b *Backend) parents(ctx context.Context, sha backend.Sha) ([]backend.Sha, error) {
	out, err := b.output(ctx, fmt.Sprintf("failed to read commit %s", sha.Short()),
		"rev-list", "--parents", "-n", "1", string(sha))
	if err != nil {
		return nil, err
	}
	shas := gitfmt.ParseShaList(strings.ReplaceAll(strings.TrimSpace(out), " ", "\n"))
	if len(shas) == 0 {
		return nil, nil
	}
	return shas[1:], nil
}
