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

// Range is a half-open byte range [Start, Start+Len).
type Range struct {
	Start uintptr
	Len   uintptr
}

// End returns Start+Len, saturating at the top of the address space.
func (r Range) End() uintptr {
	end := r.Start + r.Len
	if end < r.Start {
		return ^uintptr(0)
	}
	return end
}

// Overlap reports whether dst and src intersect.
//
// Ranges that start at the same address are never overlapping: copying a
// buffer onto itself is an idempotent no-op. Empty ranges intersect nothing.
func Overlap(dst, src Range) bool {
	if dst.Start == src.Start {
		return false
	}
	if dst.Len == 0 || src.Len == 0 {
		return false
	}
	return dst.Start < src.End() && src.Start < dst.End()
}
