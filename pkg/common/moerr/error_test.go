// Copyright 2024 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package moerr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMoErrCode(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		err      error
		code     uint16
		expected bool
	}{
		{
			name:     "nil error is ok",
			err:      nil,
			code:     Ok,
			expected: true,
		},
		{
			name:     "nil error is not oom",
			err:      nil,
			code:     ErrOOM,
			expected: false,
		},
		{
			name:     "oom",
			err:      NewOOM(ctx),
			code:     ErrOOM,
			expected: true,
		},
		{
			name:     "wrapped out of range",
			err:      fmt.Errorf("erase: %w", NewOutOfRangeNoCtx("position", "%d not in [0, %d)", 5, 3)),
			code:     ErrOutOfRange,
			expected: true,
		},
		{
			name:     "plain go error",
			err:      errors.New("boom"),
			code:     ErrInternal,
			expected: false,
		},
		{
			name:     "code mismatch",
			err:      NewInvalidStateNoCtx("vector is not initialized"),
			code:     ErrInvalidArg,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsMoErrCode(tt.err, tt.code))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := NewInvalidArgNoCtx("capacity", -1)
	require.Equal(t, "invalid argument capacity, bad value -1", err.Error())
	require.Equal(t, ErrInvalidArg, err.ErrorCode())
	require.False(t, err.Succeeded())

	err = NewOutOfRangeNoCtx("position", "%d not in [0, %d]", 7, 3)
	require.Equal(t, "data out of range: position, 7 not in [0, 3]", err.Error())
}

func TestNewOOMWithCause(t *testing.T) {
	cause := errors.New("cannot allocate memory")
	err := NewOOMWithCause(context.Background(), cause)
	require.True(t, IsMoErrCode(err, ErrOOM))
	require.ErrorIs(t, err, cause)
	require.Equal(t, "error: out of memory: cannot allocate memory", err.Display())
}

func TestConvertGoError(t *testing.T) {
	ctx := context.Background()
	require.Nil(t, ConvertGoError(ctx, nil))

	oom := NewOOM(ctx)
	require.Equal(t, error(oom), ConvertGoError(ctx, oom))

	err := ConvertGoError(ctx, io.EOF)
	require.True(t, IsMoErrCode(err, ErrInternal))
	require.ErrorIs(t, err, io.EOF)
}

func TestConvertPanicError(t *testing.T) {
	ctx := context.Background()
	oom := NewOOM(ctx)
	require.Same(t, oom, ConvertPanicError(ctx, oom))
	require.True(t, IsMoErrCode(ConvertPanicError(ctx, "bad"), ErrInternal))
}

func TestDowncastError(t *testing.T) {
	oom := NewOOMNoCtx()
	require.Same(t, oom, DowncastError(fmt.Errorf("wrap: %w", oom)))
	require.Equal(t, ErrInternal, DowncastError(errors.New("x")).ErrorCode())
}

func TestNewErrorUnknownCodePanics(t *testing.T) {
	require.Panics(t, func() {
		_ = newError(context.Background(), 12345)
	})
}

func TestNoCtxConstructors(t *testing.T) {
	tests := []struct {
		err  *Error
		code uint16
	}{
		{NewInternalErrorNoCtx("bad %d", 1), ErrInternal},
		{NewNotSupportedNoCtx("mmap on %s", "plan9"), ErrNotSupported},
		{NewOOMNoCtx(), ErrOOM},
		{NewOutOfRangeNoCtx("position", "%d not in [0, %d]", 5, 3), ErrOutOfRange},
		{NewInvalidArgNoCtx("capacity", -1), ErrInvalidArg},
		{NewBadConfigNoCtx("kind %q", "x"), ErrBadConfig},
		{NewInvalidStateNoCtx("not initialized"), ErrInvalidState},
	}
	for _, tt := range tests {
		require.Equal(t, tt.code, tt.err.ErrorCode())
		_, ok := errorMsgRefer[tt.code]
		require.True(t, ok)
	}
	// every code in the table is one of the above, plus the range markers
	require.Len(t, errorMsgRefer, len(tests)+2)
}
