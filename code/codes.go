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

package code

// Taxonomy of transfer outcomes.
//
// The errno values mirror the bounds-checking library conventions (ES*
// numbers in the 400 range, EOVERFLOW for static-size overflows), negated so
// that every failure is negative and success is zero.
const (
	// OK indicates the transfer was performed, or that the element count was
	// zero and no memory was touched.
	OK Code = 0

	// NullPointer indicates that the destination or the source is nil.
	// Checked before any size arithmetic; no memory is touched.
	//
	// Can be mapped to an HTTP 400.
	NullPointer Code = -400

	// ZeroCapacity indicates that the destination declared a capacity of
	// zero bytes.
	//
	// Can be mapped to an HTTP 400.
	ZeroCapacity Code = -401

	// CapacityExceedsMaximum indicates that the declared destination
	// capacity exceeds the byte ceiling, or the element count exceeds the
	// per-width element ceiling, or the byte length of the request does not
	// fit the platform size type.
	//
	// Can be mapped to an HTTP 413.
	CapacityExceedsMaximum Code = -403

	// StaticSizeOverflow indicates that a size exceeds the statically known
	// extent of a buffer: the declared destination capacity is larger than
	// the destination, or the requested bytes are more than the source holds.
	//
	// Can be mapped to an HTTP 400.
	StaticSizeOverflow Code = -75

	// DeclaredSizeMismatch indicates, in strict mode only, that the declared
	// destination capacity differs from the statically known one.
	//
	// Can be mapped to an HTTP 400.
	DeclaredSizeMismatch Code = -410

	// InsufficientSpace indicates that the requested bytes do not fit into
	// the (clamped) destination capacity.
	//
	// Can be mapped to an HTTP 413.
	InsufficientSpace Code = -406

	// IllegalOverlap indicates that a copy was requested between overlapping
	// ranges that do not start at the same address.
	//
	// Can be mapped to an HTTP 409.
	IllegalOverlap Code = -404
)

// order is the check precedence. First match wins; reordering changes which
// code a request violating several constraints reports.
var order = [...]Code{
	OK,
	NullPointer,
	ZeroCapacity,
	CapacityExceedsMaximum,
	StaticSizeOverflow,
	DeclaredSizeMismatch,
	InsufficientSpace,
	IllegalOverlap,
}

var names = map[Code]string{
	OK:                     "ok",
	NullPointer:            "null_pointer",
	ZeroCapacity:           "zero_capacity",
	CapacityExceedsMaximum: "capacity_exceeds_maximum",
	StaticSizeOverflow:     "static_size_overflow",
	DeclaredSizeMismatch:   "declared_size_mismatch",
	InsufficientSpace:      "insufficient_space",
	IllegalOverlap:         "illegal_overlap",
}

var byName = func() map[string]Code {
	m := make(map[string]Code, len(names))
	for c, n := range names {
		m[n] = c
	}
	return m
}()

// All returns every code in precedence order, starting with OK.
func All() []Code {
	out := make([]Code, len(order))
	copy(out, order[:])
	return out
}

// Violations returns the failure codes in precedence order.
func Violations() []Code {
	return All()[1:]
}
