package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	plain := NotFound("principal not found")
	assert.Equal(t, "principal not found", plain.Error())

	cause := stderrors.New("connection refused")
	wrapped := Wrap(cause, ErrCodeInternal, "commit credential update")
	assert.Equal(t, "commit credential update: connection refused", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	wrapped := Wrap(cause, ErrCodeInternal, "outer")
	assert.True(t, stderrors.Is(wrapped, cause))
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
	assert.Nil(t, Wrapf(nil, ErrCodeInternal, "ignored %d", 1))
}

func TestCodePredicates(t *testing.T) {
	assert.True(t, IsNotFound(NotFoundf("no principal %q", "X")))
	assert.True(t, IsConflict(Conflict("dup")))
	assert.True(t, IsValidation(Validation("bad")))
	assert.True(t, IsInternal(Internal("oops")))
	assert.False(t, IsNotFound(Internal("oops")))
	assert.False(t, IsNotFound(stderrors.New("plain")))
}

func TestGetCode(t *testing.T) {
	require.Equal(t, ErrCodeConflict, GetCode(Conflict("dup")))
	assert.Equal(t, ErrorCode(""), GetCode(stderrors.New("plain")))

	// Code survives wrapping in plain fmt errors.
	wrapped := Wrapf(Conflict("dup"), ErrCodeInternal, "outer")
	assert.Equal(t, ErrCodeInternal, GetCode(wrapped))
}
