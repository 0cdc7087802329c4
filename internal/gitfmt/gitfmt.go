// Package gitfmt parses and renders the plain-text formats exchanged with the
// git binary: tree listings, ref listings, commit metadata records and raw
// diff output. Each grammar has its own function so it can be tested in
// isolation.
package gitfmt

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/errors"
)

var (
	treeLine    = regexp.MustCompile(`^([0-7]{6}) (blob|tree|commit) ([0-9a-f]{40})\t(.+)$`)
	rawDiffLine = regexp.MustCompile(`^:[0-7]{6} [0-7]{6} [0-9a-f]{40} [0-9a-f]{40} ([ACDMRTUX])[0-9]{0,3}\t(.+)$`)
)

// ParseTree parses `git ls-tree` output. Submodule (commit) entries are
// skipped since they cannot be read through the object graph.
func ParseTree(out string) ([]backend.TreeEntry, error) {
	var entries []backend.TreeEntry
	for _, line := range lines(out) {
		m := treeLine.FindStringSubmatch(line)
		if m == nil {
			return nil, errors.WithContext(
				errors.New(errors.CodeBackend, "unrecognized tree listing line"),
				"line", line,
			)
		}
		if m[2] == "commit" {
			continue
		}
		mode, err := backend.ParseMode(m[1])
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeBackend, "unrecognized tree entry mode")
		}
		entries = append(entries, backend.TreeEntry{
			Name: unquote(m[4]),
			Mode: mode,
			Kind: backend.ObjectKind(m[2]),
			Sha:  backend.Sha(m[3]),
		})
	}
	return entries, nil
}

// FormatTree renders entries in the `git mktree` input format.
func FormatTree(entries []backend.TreeEntry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s %s %s\t%s\n", e.Mode, e.Kind, e.Sha, e.Name)
	}
	return b.String()
}

// ParseRefs parses `git show-ref` output and returns the names below prefix
// (for example "refs/heads/"), sorted.
func ParseRefs(out, prefix string) []string {
	var names []string
	for _, line := range lines(out) {
		// "<40 hex sha> <refname>"
		if len(line) < 41 {
			continue
		}
		name := line[41:]
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		names = append(names, strings.TrimPrefix(name, prefix))
	}
	slices.Sort(names)
	return names
}

// MetadataFormat is the --format string understood by ParseMetadata. Fields
// are NUL separated so names and subjects may contain any printable text.
const MetadataFormat = "%H%x00%T%x00%P%x00%aN%x00%aE%x00%at%x00%B"

// ParseMetadata parses one record produced with MetadataFormat.
func ParseMetadata(out string) (*backend.RawMetadata, error) {
	fields := strings.SplitN(out, "\x00", 7)
	if len(fields) != 7 {
		return nil, errors.Newf(errors.CodeBackend, "malformed commit record: expected 7 fields, got %d", len(fields))
	}

	timestamp, err := strconv.ParseInt(fields[5], 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeBackend, "malformed commit timestamp")
	}

	md := &backend.RawMetadata{
		Sha:       backend.Sha(strings.TrimSpace(fields[0])),
		Tree:      backend.Sha(fields[1]),
		Author:    fields[3],
		Email:     fields[4],
		Timestamp: timestamp,
		Message:   strings.TrimRight(fields[6], "\n"),
	}
	for _, p := range strings.Fields(fields[2]) {
		md.Parents = append(md.Parents, backend.Sha(p))
	}
	return md, nil
}

// Change is one entry of `git diff-tree --raw` output.
type Change struct {
	Status byte
	Path   string
}

// ParseRawDiff parses `git diff-tree -r --raw` output. For renames and
// copies the destination path is reported.
func ParseRawDiff(out string) []Change {
	var changes []Change
	for _, line := range lines(out) {
		m := rawDiffLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		path := m[2]
		if i := strings.LastIndex(path, "\t"); i >= 0 {
			path = path[i+1:]
		}
		changes = append(changes, Change{Status: m[1][0], Path: unquote(path)})
	}
	return changes
}

// ParseShaList parses one Sha per line, ignoring anything else.
func ParseShaList(out string) []backend.Sha {
	var shas []backend.Sha
	for _, line := range lines(out) {
		if sha := backend.Sha(strings.TrimSpace(line)); sha.IsValid() {
			shas = append(shas, sha)
		}
	}
	return shas
}

func lines(out string) []string {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// unquote undoes git's C-style quoting of unusual path names.
func unquote(path string) string {
	if len(path) < 2 || path[0] != '"' {
		return path
	}
	if s, err := strconv.Unquote(path); err == nil {
		return s
	}
	return path
}
