package diff

import (
	"testing"

	"github.com/jmgilman/gitview/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.String())
	}
	return out
}

func TestParseHunks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Line
	}{
		{
			name:  "added around context",
			input: "@@ -1,1 +1,4 @@\n+new line\n test content\n+another line\n+one more\n",
			want: []Line{
				{New: 1, Kind: Added, Text: "new line\n"},
				{Old: 1, New: 2, Kind: Context, Text: "test content\n"},
				{New: 3, Kind: Added, Text: "another line\n"},
				{New: 4, Kind: Added, Text: "one more\n"},
			},
		},
		{
			name:  "missing lengths default to one",
			input: "@@ -3 +3 @@\n-three\n+3\n",
			want: []Line{
				{Old: 3, Kind: Removed, Text: "three\n"},
				{New: 3, Kind: Added, Text: "3\n"},
			},
		},
		{
			name:  "no newline marker strips previous terminator",
			input: "@@ -1,1 +1,1 @@\n-old\n\\ No newline at end of file\n+new\n\\ No newline at end of file\n",
			want: []Line{
				{Old: 1, Kind: Removed, Text: "old"},
				{New: 1, Kind: Added, Text: "new"},
			},
		},
		{
			name:  "multiple hunks restart counters",
			input: "@@ -1,2 +1,2 @@\n a\n-b\n+B\n@@ -10,1 +10,2 @@ func main() {\n x\n+y\n",
			want: []Line{
				{Old: 1, New: 1, Kind: Context, Text: "a\n"},
				{Old: 2, Kind: Removed, Text: "b\n"},
				{New: 2, Kind: Added, Text: "B\n"},
				{Old: 10, New: 10, Kind: Context, Text: "x\n"},
				{New: 11, Kind: Added, Text: "y\n"},
			},
		},
		{
			name:  "file headers before the first hunk are ignored",
			input: "--- a/test.txt\n+++ b/test.txt\n@@ -0,0 +1 @@\n+content\n",
			want: []Line{
				{New: 1, Kind: Added, Text: "content\n"},
			},
		},
		{
			name:  "empty context line without prefix",
			input: "@@ -1,3 +1,3 @@\n a\n\n-c\n+d\n",
			want: []Line{
				{Old: 1, New: 1, Kind: Context, Text: "a\n"},
				{Old: 2, New: 2, Kind: Context, Text: "\n"},
				{Old: 3, Kind: Removed, Text: "c\n"},
				{New: 3, Kind: Added, Text: "d\n"},
			},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHunks(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHunks_MalformedHeader(t *testing.T) {
	_, err := ParseHunks("@@ -x +1 @@\n+a\n")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestLineString(t *testing.T) {
	lines, err := ParseHunks("@@ -1,4 +1,4 @@\n new line\n test content\n-another line\n one more\n+new line\n")
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"1 new line\n", "2 test content\n", "3-another line\n", "3 one more\n", "4+new line\n"},
		render(lines),
	)
}

func TestParse(t *testing.T) {
	patch := `diff --git a/test.txt b/test.txt
index 3b18e51..c6d9bc2 100644
--- a/test.txt
+++ b/test.txt
@@ -1 +1,2 @@
 test content
+more
diff --git a/numbers/one.txt b/numbers/one.txt
new file mode 100644
index 0000000..d00491f
--- /dev/null
+++ b/numbers/one.txt
@@ -0,0 +1 @@
+1
diff --git a/gone.txt b/gone.txt
deleted file mode 100644
index d00491f..0000000
--- a/gone.txt
+++ /dev/null
@@ -1 +0,0 @@
-bye
\ No newline at end of file
`

	d, err := Parse(patch)
	require.NoError(t, err)
	assert.Equal(t, []string{"gone.txt", "numbers/one.txt", "test.txt"}, d.Paths())
	assert.Equal(t, []string{"1 test content\n", "2+more\n"}, render(d["test.txt"]))
	assert.Equal(t, []string{"1+1\n"}, render(d["numbers/one.txt"]))
	assert.Equal(t, []string{"1-bye"}, render(d["gone.txt"]))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "+", Added.Prefix())
	assert.Equal(t, "-", Removed.Prefix())
	assert.Equal(t, " ", Context.Prefix())
	assert.Equal(t, "added", Added.String())
}
