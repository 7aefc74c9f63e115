/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package safemem

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/safemem/apis"
	"dirpx.dev/safemem/code"
	"dirpx.dev/safemem/reason"
)

func spaceViolation() *Violation {
	return NewViolation(apis.Report{
		Code:    code.InsufficientSpace,
		Reason:  reason.DestSpace,
		Side:    apis.SideDest,
		Op:      "copy8",
		Message: "element count exceeds dest capacity",
		Addr:    0x1000,
		Cleared: 8,
	})
}

func TestViolation_Error(t *testing.T) {
	assert.Equal(t,
		"safemem: copy8: insufficient_space:dest.space: element count exceeds dest capacity",
		spaceViolation().Error())
	assert.Equal(t, "safemem: null_pointer: null pointer", ErrNullPointer.Error())

	var nilV *Violation
	assert.Equal(t, "<nil>", nilV.Error())
}

func TestViolation_Is(t *testing.T) {
	v := spaceViolation()

	assert.ErrorIs(t, v, ErrInsufficientSpace)
	assert.NotErrorIs(t, v, ErrIllegalOverlap)
	assert.ErrorIs(t, v, &Violation{Code: code.InsufficientSpace, Reason: reason.DestSpace})
	assert.NotErrorIs(t, v, &Violation{Code: code.InsufficientSpace, Reason: reason.Overlap})

	wrapped := fmt.Errorf("write frame: %w", v)
	assert.ErrorIs(t, wrapped, ErrInsufficientSpace)
}

func TestViolation_Unwrap(t *testing.T) {
	cause := errors.New("frame too large")
	v := spaceViolation().WithCause(cause)

	assert.ErrorIs(t, v, cause)
	assert.Same(t, v, v.WithCause(nil))
}

func TestViolation_WithHelpersCopy(t *testing.T) {
	base := spaceViolation().WithDetail("a", 1)

	withMsg := base.WithMessage("other")
	withDetail := base.WithDetail("b", 2)
	withDetails := base.WithDetails(map[string]any{"a": 3, "c": 4})

	assert.Equal(t, "element count exceeds dest capacity", base.Message)
	assert.Equal(t, "other", withMsg.Message)
	assert.Equal(t, map[string]any{"a": 1}, base.Details)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, withDetail.Details)
	assert.Equal(t, map[string]any{"a": 3, "c": 4}, withDetails.Details)
	assert.Same(t, base, base.WithDetails(nil))
}

func TestViolation_ErrorDetails_Sorted(t *testing.T) {
	v := spaceViolation().WithDetails(map[string]any{
		"width":         uintptr(1),
		"dest.declared": uintptr(8),
	})

	got := v.ErrorDetails()
	require.Len(t, got, 2)
	assert.Equal(t, apis.Detail{Type: "size", Field: "dest.declared", Info: map[string]string{"value": "8"}}, got[0])
	assert.Equal(t, "width", got[1].Field)
	assert.Nil(t, spaceViolation().ErrorDetails())
}

func TestViolation_Report_RoundTrips(t *testing.T) {
	v := spaceViolation()
	assert.Equal(t, v, NewViolation(v.Report()))
}

func TestCodeOfAndErrno(t *testing.T) {
	c, ok := CodeOf(nil)
	assert.True(t, ok)
	assert.Equal(t, code.OK, c)
	assert.Equal(t, 0, Errno(nil))

	c, ok = CodeOf(fmt.Errorf("ctx: %w", spaceViolation()))
	assert.True(t, ok)
	assert.Equal(t, code.InsufficientSpace, c)
	assert.Equal(t, -406, Errno(spaceViolation()))

	_, ok = CodeOf(errors.New("plain"))
	assert.False(t, ok)
	assert.Equal(t, ErrnoUnknown, Errno(errors.New("plain")))
	assert.Equal(t, ErrnoUnknown, Errno(ErrInvalidWidth))
}

func TestSentinels_Errno(t *testing.T) {
	tests := map[*Violation]int{
		ErrNullPointer:            -400,
		ErrZeroCapacity:           -401,
		ErrCapacityExceedsMaximum: -403,
		ErrStaticSizeOverflow:     -75,
		ErrDeclaredSizeMismatch:   -410,
		ErrInsufficientSpace:      -406,
		ErrIllegalOverlap:         -404,
	}
	for v, want := range tests {
		assert.Equal(t, want, v.Errno(), v.Code.String())
	}
}
