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

import "math/bits"

// Policy selects how a transfer treats overlapping ranges.
type Policy uint8

const (
	// Forbidden rejects overlapping ranges with IllegalOverlap (copy).
	Forbidden Policy = iota
	// Tolerant accepts any overlap (move).
	Tolerant
)

// String returns "copy" or "move".
func (p Policy) String() string {
	if p == Tolerant {
		return "move"
	}
	return "copy"
}

// Request is a fully described transfer. The typed entry points (Copy, Move,
// Guard.Copy32, ...) build it; Guard.Do and Guard.Check accept it directly.
type Request struct {
	// Op names the primitive for reports, e.g. "copy32". Derived from Policy
	// and Width when empty.
	Op string
	// Dest receives the elements.
	Dest Descriptor
	// Src provides the elements.
	Src Descriptor
	// Count is the number of elements to move.
	Count uintptr
	// Width is the element size in bytes.
	Width Width
	// Policy selects copy or move semantics.
	Policy Policy
}

// Bytes returns Count*Width and whether the product fits in a uintptr.
func (r Request) Bytes() (uintptr, bool) {
	hi, lo := bits.Mul64(uint64(r.Count), uint64(r.Width))
	if hi != 0 || lo > uint64(^uintptr(0)) {
		return 0, false
	}
	return uintptr(lo), true
}

func (r Request) op() string {
	if r.Op != "" {
		return r.Op
	}
	return opName(r.Policy, r.Width)
}

func opName(p Policy, w Width) string {
	switch {
	case p == Forbidden && w == Width8:
		return "copy8"
	case p == Forbidden && w == Width16:
		return "copy16"
	case p == Forbidden && w == Width32:
		return "copy32"
	case p == Tolerant && w == Width8:
		return "move8"
	case p == Tolerant && w == Width16:
		return "move16"
	case p == Tolerant && w == Width32:
		return "move32"
	}
	return p.String()
}
