package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	patch := "diff --git a/a.txt b/a.txt\n" +
		"index 1..2 100644\n" +
		"--- a/a.txt\n" +
		"+++ b/a.txt\n" +
		"@@ -1 +1 @@\n" +
		"-x\n" +
		"+--- y\n" +
		"diff --git a/old.txt b/new.txt\n" +
		"similarity index 100%\n" +
		"rename from old.txt\n" +
		"rename to new.txt\n" +
		"diff --git a/bin.png b/bin.png\n" +
		"new file mode 100644\n" +
		"Binary files /dev/null and b/bin.png differ\n"

	files := Split(patch)
	require.Len(t, files, 3)

	assert.Equal(t, FilePatch{
		Path:    "a.txt",
		OldPath: "a.txt",
		Hunks:   "@@ -1 +1 @@\n-x\n+--- y\n",
	}, files[0])

	assert.Equal(t, "new.txt", files[1].Path)
	assert.Equal(t, "old.txt", files[1].OldPath)
	assert.Empty(t, files[1].Hunks)

	assert.Equal(t, "bin.png", files[2].Path)
	assert.Empty(t, files[2].Hunks)
}

func TestSplit_Deleted(t *testing.T) {
	files := Split("diff --git a/gone.txt b/gone.txt\ndeleted file mode 100644\n--- a/gone.txt\n+++ /dev/null\n@@ -1 +0,0 @@\n-bye\n")
	require.Len(t, files, 1)
	assert.Equal(t, "gone.txt", files[0].Path)
	assert.Equal(t, "@@ -1 +0,0 @@\n-bye\n", files[0].Hunks)
}

func TestSplit_Empty(t *testing.T) {
	assert.Empty(t, Split(""))
	assert.Empty(t, Split("not a patch\n"))
}
