package backend

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Sha is a 40 character lowercase hex object identifier.
type Sha string

// EmptySha is the zero Sha. Backends return it where no object exists, such
// as the merge base of unrelated histories.
const EmptySha Sha = ""

var shaPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// IsValid reports whether s has the shape of an object identifier.
func (s Sha) IsValid() bool {
	return shaPattern.MatchString(string(s))
}

// IsZero reports whether s is empty.
func (s Sha) IsZero() bool {
	return s == EmptySha
}

// Short returns the first seven characters of s.
func (s Sha) Short() string {
	if len(s) <= 7 {
		return string(s)
	}
	return string(s[:7])
}

func (s Sha) String() string {
	return string(s)
}

// ObjectKind is the type of a tree entry.
type ObjectKind string

const (
	KindBlob ObjectKind = "blob"
	KindTree ObjectKind = "tree"
)

// Mode is a git file mode.
type Mode uint32

const (
	ModeFile       Mode = 0o100644
	ModeExecutable Mode = 0o100755
	ModeSymlink    Mode = 0o120000
	ModeDir        Mode = 0o040000
	ModeSubmodule  Mode = 0o160000
)

// ParseMode parses an octal mode string such as "100644".
func ParseMode(s string) (Mode, error) {
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid file mode %q: %w", s, err)
	}
	return Mode(n), nil
}

// String renders the mode as six octal digits.
func (m Mode) String() string {
	return fmt.Sprintf("%06o", uint32(m))
}

// Kind returns the object kind a mode refers to.
func (m Mode) Kind() ObjectKind {
	if m == ModeDir {
		return KindTree
	}
	return KindBlob
}

// TreeEntry is one child of a tree object.
type TreeEntry struct {
	Name string
	Mode Mode
	Kind ObjectKind
	Sha  Sha
}

// Signature identifies the author of a commit.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// RawMetadata is a commit's metadata as reported by a backend.
type RawMetadata struct {
	Sha       Sha
	Tree      Sha
	Parents   []Sha
	Author    string
	Email     string
	Timestamp int64
	Message   string
	// Patches maps each changed path to its unified diff hunks, relative to
	// the first parent (or to the empty tree for a root commit).
	Patches map[string]string
}

// CommitRequest describes a commit to create.
type CommitRequest struct {
	Tree    Sha
	Parents []Sha
	Message string
	Author  Signature
}

// LogOptions narrows a history walk.
type LogOptions struct {
	// Path restricts the walk to commits touching this path. When empty the
	// walk follows first parents.
	Path string
	// Limit caps the number of commits returned; zero means no limit.
	Limit int
}

// RemoteOptions configures push, pull and fetch.
type RemoteOptions struct {
	// Remote defaults to "origin".
	Remote string
	// Branch is the branch to transfer; empty means all branches for fetch.
	Branch string
	Force  bool
}

// DefaultRemote is used when RemoteOptions.Remote is empty.
const DefaultRemote = "origin"

// RemoteName returns the configured remote or DefaultRemote.
func (o RemoteOptions) RemoteName() string {
	if o.Remote == "" {
		return DefaultRemote
	}
	return o.Remote
}
