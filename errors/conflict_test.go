package errors

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeConflictError(t *testing.T) {
	err := NewMergeConflict("feature", []string{"test.txt", "numbers/three.txt", "test.txt"})

	assert.Equal(t, "feature", err.Branch())
	assert.Equal(t, []string{"numbers/three.txt", "test.txt"}, err.Paths())
	assert.Equal(t, CodeMergeConflict, err.Code())
	assert.Equal(t, ClassificationPermanent, err.Classification())
	assert.Equal(t,
		"[MERGE_CONFLICT] merging feature conflicts on 2 path(s): numbers/three.txt, test.txt",
		err.Error(),
	)

	paths := err.Paths()
	paths[0] = "mutated"
	assert.Equal(t, "numbers/three.txt", err.Paths()[0])
}

func TestAsMergeConflict(t *testing.T) {
	conflict := NewMergeConflict("feature", []string{"a.txt"})
	wrapped := fmt.Errorf("merge failed: %w", conflict)

	got, ok := AsMergeConflict(wrapped)
	require.True(t, ok)
	assert.Same(t, conflict, got)
	assert.True(t, IsMergeConflict(wrapped))
	assert.Equal(t, CodeMergeConflict, GetCode(wrapped))

	_, ok = AsMergeConflict(New(CodeInvalidState, "dirty index"))
	assert.False(t, ok)
}

func TestToJSON(t *testing.T) {
	assert.Nil(t, ToJSON(nil))

	t.Run("platform error", func(t *testing.T) {
		err := WithContext(New(CodeBackend, "update-ref failed"), "exit_code", 128)
		resp := ToJSON(err)

		assert.Equal(t, "BACKEND_ERROR", resp.Code)
		assert.Equal(t, "update-ref failed", resp.Message)
		assert.Equal(t, "PERMANENT", resp.Classification)
		assert.Equal(t, 128, resp.Context["exit_code"])
	})

	t.Run("standard error", func(t *testing.T) {
		resp := ToJSON(fmt.Errorf("plain"))
		assert.Equal(t, "UNKNOWN", resp.Code)
		assert.Equal(t, "plain", resp.Message)
	})

	t.Run("marshal merge conflict", func(t *testing.T) {
		data, err := json.Marshal(NewMergeConflict("feature", []string{"a.txt"}))
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"code":"MERGE_CONFLICT","message":"merging feature conflicts on 1 path(s)","classification":"PERMANENT","context":{"branch":"feature","paths":["a.txt"]}}`,
			string(data),
		)
	})

	t.Run("marshal platform error", func(t *testing.T) {
		data, err := json.Marshal(New(CodeNotFound, "file not found"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"code":"NOT_FOUND","message":"file not found","classification":"PERMANENT"}`, string(data))
	})
}
