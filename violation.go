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
	"sort"

	"dirpx.dev/safemem/apis"
	"dirpx.dev/safemem/code"
	"dirpx.dev/safemem/reason"
)

// Violation is the error returned by every primitive that rejects a request.
//
// It carries:
//   - Code: the violation class (never code.OK);
//   - Reason: the check that fired, e.g. "dest.space";
//   - Side: the buffer the check looked at;
//   - Op: the primitive that was called, e.g. "copy32";
//   - Message: a static description;
//   - Addr, Cleared: the offending address and the bytes zero-filled;
//   - Details: the sizes and limits that were compared;
//   - Cause: an optional wrapped error.
//
// All WithX helpers return a shallow copy, so a Violation can be shared
// between goroutines and annotated in a functional style.
type Violation struct {
	Code    code.Code
	Reason  reason.Reason
	Side    apis.Side
	Op      string
	Message string
	Addr    uintptr
	Cleared uintptr

	// Details is treated as immutable: WithDetail/WithDetails copy it.
	Details map[string]any

	Cause error
}

// Sentinel violations for errors.Is. A Violation matches a sentinel with
// the same Code; the sentinel's Reason, when set, must match too.
var (
	ErrNullPointer            = &Violation{Code: code.NullPointer, Message: "null pointer"}
	ErrZeroCapacity           = &Violation{Code: code.ZeroCapacity, Message: "zero capacity"}
	ErrCapacityExceedsMaximum = &Violation{Code: code.CapacityExceedsMaximum, Message: "capacity exceeds maximum"}
	ErrStaticSizeOverflow     = &Violation{Code: code.StaticSizeOverflow, Message: "static size overflow"}
	ErrDeclaredSizeMismatch   = &Violation{Code: code.DeclaredSizeMismatch, Message: "declared size mismatch"}
	ErrInsufficientSpace      = &Violation{Code: code.InsufficientSpace, Message: "insufficient space"}
	ErrIllegalOverlap         = &Violation{Code: code.IllegalOverlap, Message: "illegal overlap"}
)

// ErrInvalidWidth is returned, without invoking the handler, for requests
// whose element width is not 1, 2 or 4. Typed entry points cannot produce it.
var ErrInvalidWidth = errors.New("safemem: invalid element width")

var (
	_ apis.CodedError     = (*Violation)(nil)
	_ apis.ReasonedError  = (*Violation)(nil)
	_ apis.DetailedError  = (*Violation)(nil)
	_ apis.ReportingError = (*Violation)(nil)
)

// NewViolation builds a Violation from a handler report.
func NewViolation(r apis.Report) *Violation {
	return &Violation{
		Code:    r.Code,
		Reason:  r.Reason,
		Side:    r.Side,
		Op:      r.Op,
		Message: r.Message,
		Addr:    r.Addr,
		Cleared: r.Cleared,
	}
}

// Error implements the error interface.
//
// The format is:
//
//	safemem: <op>: <code>:<reason>: <message>
//
// with the op and reason parts omitted when empty.
func (v *Violation) Error() string {
	if v == nil {
		return "<nil>"
	}
	head := "safemem: "
	if v.Op != "" {
		head += v.Op + ": "
	}
	if v.Reason != "" {
		return fmt.Sprintf("%s%s:%s: %s", head, v.Code, v.Reason, v.Message)
	}
	return fmt.Sprintf("%s%s: %s", head, v.Code, v.Message)
}

// Unwrap returns the wrapped cause.
func (v *Violation) Unwrap() error { return v.Cause }

// Is matches sentinel violations by code, and by reason when the target
// names one.
func (v *Violation) Is(target error) bool {
	t, ok := target.(*Violation)
	if !ok || t == nil || v == nil {
		return false
	}
	if t.Code != v.Code {
		return false
	}
	return t.Reason == reason.Empty || t.Reason == v.Reason
}

// ErrorCode implements apis.CodedError.
func (v *Violation) ErrorCode() code.Code { return v.Code }

// ErrorReason implements apis.ReasonedError.
func (v *Violation) ErrorReason() reason.Reason { return v.Reason }

// Errno returns the negative errno form of the code.
func (v *Violation) Errno() int { return v.Code.Errno() }

// Report rebuilds the report handed to the handler.
func (v *Violation) Report() apis.Report {
	return apis.Report{
		Code:    v.Code,
		Reason:  v.Reason,
		Side:    v.Side,
		Op:      v.Op,
		Message: v.Message,
		Addr:    v.Addr,
		Cleared: v.Cleared,
	}
}

// ErrorDetails implements apis.DetailedError. Details are returned sorted by
// key so the output is stable.
func (v *Violation) ErrorDetails() []apis.Detail {
	if len(v.Details) == 0 {
		return nil
	}
	keys := make([]string, 0, len(v.Details))
	for k := range v.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]apis.Detail, 0, len(keys))
	for _, k := range keys {
		out = append(out, apis.Detail{
			Type:  "size",
			Field: k,
			Info:  map[string]string{"value": fmt.Sprint(v.Details[k])},
		})
	}
	return out
}

// WithMessage returns a copy of v with a replaced message.
func (v *Violation) WithMessage(msg string) *Violation {
	cp := *v
	cp.Message = msg
	return &cp
}

// WithDetail returns a copy of v with one extra key/value in Details.
func (v *Violation) WithDetail(k string, val any) *Violation {
	cp := *v
	if len(cp.Details) == 0 {
		cp.Details = map[string]any{k: val}
		return &cp
	}
	m := make(map[string]any, len(cp.Details)+1)
	for k0, v0 := range cp.Details {
		m[k0] = v0
	}
	m[k] = val
	cp.Details = m
	return &cp
}

// WithDetails returns a copy of v with kv merged into Details; kv wins on
// conflicts.
func (v *Violation) WithDetails(kv map[string]any) *Violation {
	if len(kv) == 0 {
		return v
	}
	cp := *v
	m := make(map[string]any, len(cp.Details)+len(kv))
	for k0, v0 := range cp.Details {
		m[k0] = v0
	}
	for k, val := range kv {
		m[k] = val
	}
	cp.Details = m
	return &cp
}

// WithCause returns a copy of v wrapping err. A nil err returns v unchanged.
func (v *Violation) WithCause(err error) *Violation {
	if err == nil {
		return v
	}
	cp := *v
	cp.Cause = err
	return &cp
}

// CodeOf extracts the violation code from err. It returns code.OK and true
// for a nil error, and false for errors outside the taxonomy.
func CodeOf(err error) (code.Code, bool) {
	if err == nil {
		return code.OK, true
	}
	var ce apis.CodedError
	if errors.As(err, &ce) {
		return ce.ErrorCode(), true
	}
	return code.OK, false
}

// ErrnoUnknown is what Errno returns for errors outside the taxonomy.
const ErrnoUnknown = -1

// Errno returns the errno-style integer for err: zero for nil, the negative
// code for violations, ErrnoUnknown otherwise.
func Errno(err error) int {
	c, ok := CodeOf(err)
	if !ok {
		return ErrnoUnknown
	}
	return c.Errno()
}
