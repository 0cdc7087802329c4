package gitfmt

import (
	"testing"

	"github.com/jmgilman/gitview/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	shaA = "3b18e512dba79e4c8300dd08aeb37f8e728b8dad"
	shaB = "d00491fd7e5bb6fa28c517a0bb32b8b506539d4d"
	shaC = "c6d9bc2e3b4d2f8a1f6e5d4c3b2a19081726354a"
)

func TestParseTree(t *testing.T) {
	out := "100644 blob " + shaA + "\ttest.txt\n" +
		"040000 tree " + shaB + "\tnumbers\n" +
		"160000 commit " + shaC + "\tvendor/lib\n" +
		"100755 blob " + shaC + "\t\"with\\ttab.sh\"\n"

	entries, err := ParseTree(out)
	require.NoError(t, err)
	assert.Equal(t, []backend.TreeEntry{
		{Name: "test.txt", Mode: backend.ModeFile, Kind: backend.KindBlob, Sha: shaA},
		{Name: "numbers", Mode: backend.ModeDir, Kind: backend.KindTree, Sha: shaB},
		{Name: "with\ttab.sh", Mode: backend.ModeExecutable, Kind: backend.KindBlob, Sha: shaC},
	}, entries)
}

func TestParseTree_Invalid(t *testing.T) {
	_, err := ParseTree("garbage\n")
	require.Error(t, err)

	entries, err := ParseTree("")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFormatTree(t *testing.T) {
	out := FormatTree([]backend.TreeEntry{
		{Name: "test.txt", Mode: backend.ModeFile, Kind: backend.KindBlob, Sha: shaA},
		{Name: "numbers", Mode: backend.ModeDir, Kind: backend.KindTree, Sha: shaB},
	})
	assert.Equal(t, "100644 blob "+shaA+"\ttest.txt\n040000 tree "+shaB+"\tnumbers\n", out)

	// round trip through the listing parser
	entries, err := ParseTree(out)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestParseRefs(t *testing.T) {
	out := shaA + " refs/heads/master\n" +
		shaB + " refs/heads/feature\n" +
		shaC + " refs/tags/v1.0.0\n" +
		shaC + " refs/heads/team/topic\n"

	assert.Equal(t, []string{"feature", "master", "team/topic"}, ParseRefs(out, "refs/heads/"))
	assert.Equal(t, []string{"v1.0.0"}, ParseRefs(out, "refs/tags/"))
	assert.Empty(t, ParseRefs("", "refs/heads/"))
}

func TestParseMetadata(t *testing.T) {
	record := shaA + "\x00" + shaB + "\x00" + shaB + " " + shaC + "\x00Jane, Doe\x00jane@example.com\x001700000000\x00Merge feature into master\n\nbody line\n\n"

	md, err := ParseMetadata(record)
	require.NoError(t, err)
	assert.Equal(t, backend.Sha(shaA), md.Sha)
	assert.Equal(t, backend.Sha(shaB), md.Tree)
	assert.Equal(t, []backend.Sha{shaB, shaC}, md.Parents)
	assert.Equal(t, "Jane, Doe", md.Author)
	assert.Equal(t, "jane@example.com", md.Email)
	assert.Equal(t, int64(1700000000), md.Timestamp)
	assert.Equal(t, "Merge feature into master\n\nbody line", md.Message)
}

func TestParseMetadata_RootCommit(t *testing.T) {
	md, err := ParseMetadata(shaA + "\x00" + shaB + "\x00\x00A\x00a@b.c\x001\x00initial\n")
	require.NoError(t, err)
	assert.Empty(t, md.Parents)
}

func TestParseMetadata_Malformed(t *testing.T) {
	_, err := ParseMetadata("only,commas,here")
	require.Error(t, err)

	_, err = ParseMetadata(shaA + "\x00" + shaB + "\x00\x00A\x00a@b.c\x00notanumber\x00msg")
	require.Error(t, err)
}

func TestParseRawDiff(t *testing.T) {
	out := ":100644 100644 " + shaA + " " + shaB + " M\ttest.txt\n" +
		":000000 100644 " + zero + " " + shaB + " A\tnumbers/one.txt\n" +
		":100644 000000 " + shaA + " " + zero + " D\tgone.txt\n" +
		":100644 100644 " + shaA + " " + shaA + " R100\told.txt\tnew.txt\n"

	assert.Equal(t, []Change{
		{Status: 'M', Path: "test.txt"},
		{Status: 'A', Path: "numbers/one.txt"},
		{Status: 'D', Path: "gone.txt"},
		{Status: 'R', Path: "new.txt"},
	}, ParseRawDiff(out))
}

const zero = "0000000000000000000000000000000000000000"

func TestParseShaList(t *testing.T) {
	out := shaA + "\n" + shaB + "\n\nnot-a-sha\n"
	assert.Equal(t, []backend.Sha{shaA, shaB}, ParseShaList(out))
}
