// Package diff parses unified diff text into per-line records.
//
// A hunk starts with a header of the form
//
//	@@ -oldStart[,oldLen] +newStart[,newLen] @@[ section]
//
// followed by body lines prefixed with '+', '-' or a space. Every body line
// becomes a Line carrying the old and new line numbers it occupies. The
// "\ No newline at end of file" marker produces no record of its own; it
// strips the trailing newline from the record before it.
package diff

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/jmgilman/gitview/errors"
)

// Kind classifies a diff line.
type Kind int

const (
	// Context lines exist on both sides.
	Context Kind = iota
	// Added lines exist only on the new side.
	Added
	// Removed lines exist only on the old side.
	Removed
)

// Prefix returns the unified diff prefix for the kind.
func (k Kind) Prefix() string {
	switch k {
	case Added:
		return "+"
	case Removed:
		return "-"
	default:
		return " "
	}
}

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "context"
	}
}

// Line is a single record of a hunk body. Old and New are 1-based line
// numbers; zero means the line has no position on that side.
type Line struct {
	Old  int
	New  int
	Kind Kind
	// Text is the line content without its prefix. It ends in "\n" unless
	// the line was followed by the no-newline marker.
	Text string
}

// Number returns the line number shown next to the record: the old number
// for removals and the new number otherwise.
func (l Line) Number() int {
	if l.Kind == Removed {
		return l.Old
	}
	return l.New
}

// String renders the record as number, prefix and text, e.g. "3+another line\n".
func (l Line) String() string {
	return strconv.Itoa(l.Number()) + l.Kind.Prefix() + l.Text
}

// Diff maps a file path to the records of its hunks.
type Diff map[string][]Line

// Paths returns the file paths in sorted order.
func (d Diff) Paths() []string {
	paths := make([]string, 0, len(d))
	for path := range d {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}

const noNewlineMarker = `\`

var hunkHeader = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// ParseHunks parses the hunks of a single file. Text before the first hunk
// header (such as "---" and "+++" lines) is ignored.
func ParseHunks(text string) ([]Line, error) {
	var (
		lines            []Line
		oldLine, newLine int
		oldLeft, newLeft int
		inHunk           bool
	)

	for _, raw := range strings.Split(text, "\n") {
		if strings.HasPrefix(raw, "@@") {
			m := hunkHeader.FindStringSubmatch(raw)
			if m == nil {
				return nil, errors.WithContext(
					errors.New(errors.CodeInvalidInput, "malformed hunk header"),
					"header", raw,
				)
			}
			oldLine, oldLeft = atoi(m[1], 0), atoi(m[2], 1)
			newLine, newLeft = atoi(m[3], 0), atoi(m[4], 1)
			inHunk = true
			continue
		}
		if !inHunk {
			continue
		}

		if strings.HasPrefix(raw, noNewlineMarker) {
			if n := len(lines); n > 0 {
				lines[n-1].Text = strings.TrimSuffix(lines[n-1].Text, "\n")
			}
			continue
		}
		if oldLeft <= 0 && newLeft <= 0 {
			continue
		}

		var prefix byte = ' '
		body := raw
		if raw != "" {
			prefix, body = raw[0], raw[1:]
		}

		line := Line{Text: body + "\n"}
		switch prefix {
		case '+':
			line.Kind, line.New = Added, newLine
			newLine++
			newLeft--
		case '-':
			line.Kind, line.Old = Removed, oldLine
			oldLine++
			oldLeft--
		default:
			line.Kind, line.Old, line.New = Context, oldLine, newLine
			oldLine++
			newLine++
			oldLeft--
			newLeft--
		}
		lines = append(lines, line)
	}

	return lines, nil
}

// ParseFiles parses a set of per-file hunk texts keyed by path.
func ParseFiles(files map[string]string) (Diff, error) {
	result := make(Diff, len(files))
	for path, hunks := range files {
		lines, err := ParseHunks(hunks)
		if err != nil {
			return nil, errors.WithContext(err, "path", path)
		}
		result[path] = lines
	}
	return result, nil
}

// Parse parses a multi-file "diff --git" patch.
func Parse(patch string) (Diff, error) {
	files := make(map[string]string)
	for _, fp := range Split(patch) {
		files[fp.Path] = fp.Hunks
	}
	return ParseFiles(files)
}

func atoi(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
