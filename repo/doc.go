// Package repo provides a file-oriented view over a git repository.
//
// A Repository reads directory snapshots (Tree), file contents and their
// history (Blob), and commits (Commit) from any backend.Backend. Changes are
// staged in an in-memory index and committed with Save, and branches can be
// checked for conflicts and merged without a worktree.
//
// Objects are resolved lazily: a Tree loads its entries, a Blob its content
// and a Commit its metadata on first access, each in a single backend round
// trip, and cache the result for their lifetime. Resolved objects never
// change, so they may be shared freely.
//
// A Repository itself holds session state (the current branch, the index and
// the commit author) and is not safe for concurrent mutation. Callers must
// serialize writes against one instance.
//
// Example:
//
//	b, _ := native.Open("/srv/content")
//	r, _ := repo.Open(ctx, b, repo.WithUser("Jane", "jane@example.com"))
//
//	blob, err := r.File(ctx, "docs/readme.md")
//	if err != nil {
//	    return err
//	}
//	content, _ := blob.Content(ctx)
//
//	sha, err := r.Update(ctx, "docs/readme.md", append(content, "more\n"...), "Expand readme")
package repo
