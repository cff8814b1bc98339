package dberr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		check    func(error) bool
	}{
		{"sql", SQLf("no from in sql"), ErrSQL, IsSQL},
		{"index", IndexOutOfBoundsf("bind index %d", 4), ErrIndexOutOfBounds, IsIndexOutOfBounds},
		{"conversion", Conversionf("column %q", "price"), ErrConversion, IsConversion},
		{"library", Libraryf("short read"), ErrLibrary, IsLibrary},
		{"connection", Connectionf("refused"), ErrConnection, IsConnection},
		{"unknown", Unknownf("?"), ErrUnknown, IsUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.True(t, tt.check(tt.err))
			assert.True(t, tt.check(fmt.Errorf("wrapped: %w", tt.err)))
		})
	}

	assert.False(t, IsSQL(Conversionf("x")))
	assert.False(t, IsConversion(errors.New("plain")))
}

func TestErrorFormatting(t *testing.T) {
	err := SQLf("no limit in sql")
	assert.Equal(t, "dengine: sql error: no limit in sql", err.Error())

	withOp := WithOp("select", err)
	assert.Equal(t, "dengine: sql error: select: no limit in sql", withOp.Error())
	assert.Equal(t, "", err.Op, "WithOp must not mutate its argument")
}

func TestWithOp(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, WithOp("exec", nil))
	})

	t.Run("keeps the innermost op", func(t *testing.T) {
		err := WithOp("outer", WithOp("inner", Libraryf("boom")))
		var de *Error
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "inner", de.Op)
	})

	t.Run("foreign errors become unknown", func(t *testing.T) {
		err := WithOp("exec", errors.New("strange"))
		assert.True(t, IsUnknown(err))
		assert.Equal(t, Unknown, KindOf(err))
	})

	t.Run("context errors stay unwrappable", func(t *testing.T) {
		err := WithOp("value", context.DeadlineExceeded)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
		assert.True(t, IsUnknown(err))
	})
}

func TestFromContext(t *testing.T) {
	assert.Nil(t, FromContext(errors.New("other")))

	err := FromContext(fmt.Errorf("query: %w", context.Canceled))
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, Unknown, err.Kind)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "sql error", SQL.String())
	assert.Equal(t, "connection error", Connection.String())
	assert.Equal(t, "unknown error", Kind(99).String())
}
