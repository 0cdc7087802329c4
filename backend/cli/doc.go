// Package cli implements backend.Backend by shelling out to the git binary.
//
// Every operation maps to one or two plumbing commands (cat-file, ls-tree,
// mktree, commit-tree, update-ref and friends) run against the repository
// directory. Output is parsed with internal/gitfmt. The executor is
// injectable so tests can run without git installed.
package cli
