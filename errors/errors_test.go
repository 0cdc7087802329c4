package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		code      ErrorCode
		message   string
		wantClass ErrorClassification
		wantText  string
	}{
		{
			name:      "not found is permanent",
			code:      CodeNotFound,
			message:   "file not found",
			wantClass: ClassificationPermanent,
			wantText:  "[NOT_FOUND] file not found",
		},
		{
			name:      "network is retryable",
			code:      CodeNetwork,
			message:   "connection reset",
			wantClass: ClassificationRetryable,
			wantText:  "[NETWORK_ERROR] connection reset",
		},
		{
			name:      "unknown code defaults to permanent",
			code:      ErrorCode("SOMETHING_ELSE"),
			message:   "odd",
			wantClass: ClassificationPermanent,
			wantText:  "[SOMETHING_ELSE] odd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message)
			assert.Equal(t, tt.code, err.Code())
			assert.Equal(t, tt.wantClass, err.Classification())
			assert.Equal(t, tt.message, err.Message())
			assert.Equal(t, tt.wantText, err.Error())
			assert.Nil(t, err.Context())
			assert.Nil(t, err.Unwrap())
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CodeInvalidInput, "invalid ref %q", "a..b")
	assert.Equal(t, `[INVALID_INPUT] invalid ref "a..b"`, err.Error())
}

func TestWrap(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, CodeBackend, "x"))
		assert.Nil(t, Wrapf(nil, CodeBackend, "x %d", 1))
		assert.Nil(t, WrapWithContext(nil, CodeBackend, "x", nil))
	})

	t.Run("standard error keeps chain", func(t *testing.T) {
		cause := stderrors.New("exit status 128")
		err := Wrap(cause, CodeBackend, "git cat-file failed")

		assert.Equal(t, "[BACKEND_ERROR] git cat-file failed: exit status 128", err.Error())
		assert.True(t, stderrors.Is(err, cause))
		assert.Equal(t, ClassificationPermanent, err.Classification())
	})

	t.Run("platform cause keeps classification", func(t *testing.T) {
		cause := New(CodeRateLimit, "slow down")
		err := Wrap(cause, CodeBackend, "hosted request failed")

		assert.Equal(t, CodeBackend, err.Code())
		assert.True(t, err.Classification().IsRetryable())
	})

	t.Run("context is copied", func(t *testing.T) {
		ctx := map[string]interface{}{"exit_code": 128}
		err := WrapWithContext(stderrors.New("boom"), CodeBackend, "failed", ctx)
		ctx["exit_code"] = 1

		assert.Equal(t, 128, err.Context()["exit_code"])
	})
}

func TestWithContext(t *testing.T) {
	err := WithContext(New(CodeNotFound, "file not found"), "path", "a.txt")
	err = WithContext(err, "branch", "master")

	assert.Equal(t, CodeNotFound, err.Code())
	assert.Equal(t, map[string]interface{}{"path": "a.txt", "branch": "master"}, err.Context())

	t.Run("standard error becomes unknown", func(t *testing.T) {
		err := WithContext(stderrors.New("plain"), "k", "v")
		assert.Equal(t, CodeUnknown, err.Code())
		assert.Equal(t, "plain", err.Message())
	})

	t.Run("override", func(t *testing.T) {
		err := WithContextMap(New(CodeBackend, "x"), map[string]interface{}{"status": 500})
		err = WithContextMap(err, map[string]interface{}{"status": 502})
		assert.Equal(t, 502, err.Context()["status"])
	})

	t.Run("returned context is a copy", func(t *testing.T) {
		err := WithContext(New(CodeBackend, "x"), "k", "v")
		err.Context()["k"] = "changed"
		assert.Equal(t, "v", err.Context()["k"])
	})
}

func TestWithClassification(t *testing.T) {
	err := WithClassification(New(CodeBackend, "flaky"), ClassificationRetryable)
	assert.True(t, IsRetryable(err))
	assert.Nil(t, WithClassification(nil, ClassificationRetryable))
}

func TestHasCode(t *testing.T) {
	notFound := New(CodeNotFound, "reference not found")
	wrapped := fmt.Errorf("failed to resolve %q: %w", "feature", notFound)
	outer := Wrap(wrapped, CodeBackend, "load branch")

	assert.Equal(t, CodeBackend, GetCode(outer))
	assert.True(t, HasCode(outer, CodeNotFound))
	assert.True(t, IsNotFound(outer))
	assert.False(t, IsInvalidState(outer))
	assert.False(t, HasCode(nil, CodeNotFound))
	assert.Equal(t, CodeUnknown, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
}

func TestIsAndAs(t *testing.T) {
	sentinel := New(CodeInvalidState, "dirty index")
	wrapped := fmt.Errorf("merge: %w", sentinel)

	require.True(t, Is(wrapped, sentinel))

	var platformErr PlatformError
	require.True(t, As(wrapped, &platformErr))
	assert.Equal(t, CodeInvalidState, platformErr.Code())
	assert.True(t, IsInvalidState(wrapped))
}
