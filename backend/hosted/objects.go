package hosted

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v67/github"
	"github.com/jmgilman/gitview/backend"
)

// CatFile returns the raw content of a blob.
func (b *Backend) CatFile(ctx context.Context, sha backend.Sha) ([]byte, error) {
	if err := checkSha(sha); err != nil {
		return nil, err
	}
	return cached(b, "blob:"+string(sha), func() ([]byte, error) {
		content, resp, err := b.client.Git.GetBlobRaw(ctx, b.owner, b.repo, string(sha))
		if err != nil {
			return nil, wrapError(err, resp, fmt.Sprintf("failed to read blob %s", sha.Short()))
		}
		return content, nil
	})
}

// LoadTree returns the entries of a tree. Submodule entries are skipped.
func (b *Backend) LoadTree(ctx context.Context, sha backend.Sha) ([]backend.TreeEntry, error) {
	if err := checkSha(sha); err != nil {
		return nil, err
	}
	return cached(b, "tree:"+string(sha), func() ([]backend.TreeEntry, error) {
		tree, resp, err := b.client.Git.GetTree(ctx, b.owner, b.repo, string(sha), false)
		if err != nil {
			return nil, wrapError(err, resp, fmt.Sprintf("failed to read tree %s", sha.Short()))
		}

		entries := make([]backend.TreeEntry, 0, len(tree.Entries))
		for _, e := range tree.Entries {
			if e.GetType() == "commit" {
				continue
			}
			mode, err := backend.ParseMode(e.GetMode())
			if err != nil {
				return nil, err
			}
			entries = append(entries, backend.TreeEntry{
				Name: e.GetPath(),
				Mode: mode,
				Kind: backend.ObjectKind(e.GetType()),
				Sha:  backend.Sha(e.GetSHA()),
			})
		}
		return entries, nil
	})
}

// WriteBlob uploads content as a base64 encoded blob.
func (b *Backend) WriteBlob(ctx context.Context, content []byte) (backend.Sha, error) {
	blob, resp, err := b.client.Git.CreateBlob(ctx, b.owner, b.repo, &github.Blob{
		Content:  github.String(base64.StdEncoding.EncodeToString(content)),
		Encoding: github.String("base64"),
	})
	if err != nil {
		return backend.EmptySha, wrapError(err, resp, "failed to write blob")
	}

	sha := backend.Sha(blob.GetSHA())
	b.cache.Add("blob:"+string(sha), content)
	return sha, nil
}

// WriteTree creates a tree from scratch (no base tree).
func (b *Backend) WriteTree(ctx context.Context, entries []backend.TreeEntry) (backend.Sha, error) {
	if len(entries) == 0 {
		return emptyTree, nil
	}

	ghEntries := make([]*github.TreeEntry, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" || strings.Contains(e.Name, "/") {
			return backend.EmptySha, invalidInput("invalid tree entry name %q", e.Name)
		}
		if err := checkSha(e.Sha); err != nil {
			return backend.EmptySha, err
		}
		ghEntries = append(ghEntries, &github.TreeEntry{
			Path: github.String(e.Name),
			Mode: github.String(e.Mode.String()),
			Type: github.String(string(e.Mode.Kind())),
			SHA:  github.String(string(e.Sha)),
		})
	}

	tree, resp, err := b.client.Git.CreateTree(ctx, b.owner, b.repo, "", ghEntries)
	if err != nil {
		return backend.EmptySha, wrapError(err, resp, "failed to write tree")
	}
	return backend.Sha(tree.GetSHA()), nil
}

// CreateCommit creates a commit object. Author and committer are the same.
func (b *Backend) CreateCommit(ctx context.Context, req backend.CommitRequest) (backend.Sha, error) {
	if err := checkSha(req.Tree); err != nil {
		return backend.EmptySha, err
	}

	when := req.Author.When
	if when.IsZero() {
		when = time.Now()
	}
	author := &github.CommitAuthor{
		Name:  github.String(req.Author.Name),
		Email: github.String(req.Author.Email),
		Date:  &github.Timestamp{Time: when},
	}

	commit := &github.Commit{
		Message:   github.String(req.Message),
		Tree:      &github.Tree{SHA: github.String(string(req.Tree))},
		Author:    author,
		Committer: author,
	}
	for _, p := range req.Parents {
		if err := checkSha(p); err != nil {
			return backend.EmptySha, err
		}
		commit.Parents = append(commit.Parents, &github.Commit{SHA: github.String(string(p))})
	}

	created, resp, err := b.client.Git.CreateCommit(ctx, b.owner, b.repo, commit, nil)
	if err != nil {
		return backend.EmptySha, wrapError(err, resp, "failed to create commit")
	}
	return backend.Sha(created.GetSHA()), nil
}

// TreeOf returns the root tree of a commit.
func (b *Backend) TreeOf(ctx context.Context, sha backend.Sha) (backend.Sha, error) {
	if err := checkSha(sha); err != nil {
		return backend.EmptySha, err
	}
	return cached(b, "treeof:"+string(sha), func() (backend.Sha, error) {
		commit, resp, err := b.client.Git.GetCommit(ctx, b.owner, b.repo, string(sha))
		if err != nil {
			return backend.EmptySha, wrapError(err, resp, fmt.Sprintf("failed to read commit %s", sha.Short()))
		}
		return backend.Sha(commit.GetTree().GetSHA()), nil
	})
}

// CommitMetadata returns a commit's metadata. GitHub reports per-file
// patches relative to the first parent, which is exactly what is needed.
func (b *Backend) CommitMetadata(ctx context.Context, sha backend.Sha) (*backend.RawMetadata, error) {
	rc, err := b.repositoryCommit(ctx, sha)
	if err != nil {
		return nil, err
	}

	commit := rc.GetCommit()
	md := &backend.RawMetadata{
		Sha:       backend.Sha(rc.GetSHA()),
		Tree:      backend.Sha(commit.GetTree().GetSHA()),
		Author:    commit.GetAuthor().GetName(),
		Email:     commit.GetAuthor().GetEmail(),
		Timestamp: commit.GetAuthor().GetDate().Unix(),
		Message:   strings.TrimRight(commit.GetMessage(), "\n"),
		Patches:   make(map[string]string, len(rc.Files)),
	}
	for _, p := range rc.Parents {
		md.Parents = append(md.Parents, backend.Sha(p.GetSHA()))
	}
	for _, f := range rc.Files {
		patch := f.GetPatch()
		if patch != "" && !strings.HasSuffix(patch, "\n") {
			patch += "\n"
		}
		md.Patches[f.GetFilename()] = patch
	}
	return md, nil
}

// Files returns the paths a commit changed relative to its first parent.
func (b *Backend) Files(ctx context.Context, sha backend.Sha) ([]string, error) {
	rc, err := b.repositoryCommit(ctx, sha)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(rc.Files))
	for _, f := range rc.Files {
		files = append(files, f.GetFilename())
	}
	return files, nil
}

func (b *Backend) repositoryCommit(ctx context.Context, sha backend.Sha) (*github.RepositoryCommit, error) {
	if err := checkSha(sha); err != nil {
		return nil, err
	}
	return cached(b, "commit:"+string(sha), func() (*github.RepositoryCommit, error) {
		rc, resp, err := b.client.Repositories.GetCommit(ctx, b.owner, b.repo, string(sha), nil)
		if err != nil {
			return nil, wrapError(err, resp, fmt.Sprintf("failed to read commit %s", sha.Short()))
		}
		return rc, nil
	})
}
