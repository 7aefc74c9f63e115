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
	"dirpx.dev/safemem/apis"
	"dirpx.dev/safemem/code"
	"dirpx.dev/safemem/reason"
)

// verdict is the outcome of the precondition checks for one request.
type verdict struct {
	code   code.Code
	reason reason.Reason
	side   apis.Side
	msg    string
	addr   uintptr
	// clear is the number of destination bytes to zero-fill. It never
	// exceeds Dest.Capacity().
	clear uintptr
}

func (v verdict) failed() bool { return v.code != code.OK }

// classify runs the checks in precedence order and returns the first
// failure, or an OK verdict together with the number of bytes to move.
//
// The order below is a contract: a request violating several constraints
// reports the first one.
func (g *Guard) classify(req Request) (verdict, uintptr) {
	dst, src := req.Dest, req.Src

	// 1. Zero-length transfers succeed without touching memory.
	if req.Count == 0 {
		return verdict{}, 0
	}

	// 2. Null pointers, before any size arithmetic. Nothing is cleared.
	if dst.IsNull() {
		return verdict{code: code.NullPointer, reason: reason.DestNull, side: apis.SideDest,
			msg: "dest is null"}, 0
	}
	if src.IsNull() {
		return verdict{code: code.NullPointer, reason: reason.SrcNull, side: apis.SideSrc,
			msg: "src is null"}, 0
	}

	// 3. Zero destination capacity.
	if dst.Declared() == 0 {
		return verdict{code: code.ZeroCapacity, reason: reason.DestCapacityZero, side: apis.SideDest,
			msg: "dest capacity is zero", addr: dst.Addr()}, 0
	}

	// 4. Sanity ceilings. An oversized declared capacity is untrusted, so
	// only a known static extent may be cleared.
	static, known := dst.Static()
	if uint64(dst.Declared()) > g.limits.MaxBytes {
		v := verdict{code: code.CapacityExceedsMaximum, reason: reason.DestCapacityMax, side: apis.SideDest,
			msg: "dest capacity exceeds maximum", addr: dst.Addr()}
		if known {
			v.clear = dst.Capacity()
		}
		return v, 0
	}
	if uint64(req.Count) > g.limits.MaxElements(req.Width) {
		return verdict{code: code.CapacityExceedsMaximum, reason: reason.SrcCountMax, side: apis.SideSrc,
			msg: "element count exceeds maximum", addr: src.Addr(), clear: dst.Capacity()}, 0
	}
	n, ok := req.Bytes()
	if !ok {
		return verdict{code: code.CapacityExceedsMaximum, reason: reason.SrcCountWrap, side: apis.SideSrc,
			msg: "element count overflows size", addr: src.Addr(), clear: dst.Capacity()}, 0
	}

	// 5. Static extents, when the descriptors know them.
	if known && dst.Declared() > static {
		return verdict{code: code.StaticSizeOverflow, reason: reason.DestStaticOverflow, side: apis.SideDest,
			msg: "dest capacity exceeds dest size", addr: dst.Addr(), clear: static}, 0
	}
	if srcStatic, srcKnown := src.Static(); srcKnown && n > srcStatic {
		return verdict{code: code.StaticSizeOverflow, reason: reason.SrcStaticOverflow, side: apis.SideSrc,
			msg: "element count exceeds src size", addr: src.Addr(), clear: dst.Capacity()}, 0
	}

	// 6. Strict mode: the declared capacity must be the real one.
	if g.strict && known && dst.Declared() != static {
		return verdict{code: code.DeclaredSizeMismatch, reason: reason.DestDeclaredMismatch, side: apis.SideDest,
			msg: "dest capacity differs from dest size", addr: dst.Addr(), clear: dst.Capacity()}, 0
	}

	// 7. Space.
	capacity := dst.Capacity()
	if n > capacity {
		return verdict{code: code.InsufficientSpace, reason: reason.DestSpace, side: apis.SideDest,
			msg: "element count exceeds dest capacity", addr: dst.Addr(), clear: capacity}, 0
	}

	// 8. Overlap, for copies only.
	if req.Policy == Forbidden &&
		Overlap(Range{Start: dst.Addr(), Len: capacity}, Range{Start: src.Addr(), Len: n}) {
		return verdict{code: code.IllegalOverlap, reason: reason.Overlap, side: apis.SideDest,
			msg: "src overlaps dest", addr: dst.Addr(), clear: capacity}, 0
	}

	return verdict{}, n
}
