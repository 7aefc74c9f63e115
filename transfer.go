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

import "unsafe"

// movers moves count elements of the indexed width. The built-in copy has
// memmove semantics, so the same routine serves copies (already proven
// disjoint) and moves (any overlap).
var movers = [...]func(dst, src unsafe.Pointer, count uintptr){
	Width8:  moveElems[uint8],
	Width16: moveElems[uint16],
	Width32: moveElems[uint32],
}

func moveElems[E Element](dst, src unsafe.Pointer, count uintptr) {
	copy(unsafe.Slice((*E)(dst), count), unsafe.Slice((*E)(src), count))
}

// Transfer validates and performs a transfer of n elements from src to dst
// with the given overlap policy. A nil g uses the package default guard.
func Transfer[E Element](g *Guard, p Policy, dst, src Buffer[E], n uintptr) error {
	if g == nil {
		g = Default()
	}
	w := WidthOf[E]()
	return g.Do(Request{
		Op:     opName(p, w),
		Dest:   dst.d,
		Src:    src.d,
		Count:  n,
		Width:  w,
		Policy: p,
	})
}

// Copy copies n elements from src to dst. Overlapping ranges are rejected
// with IllegalOverlap unless both start at the same address, which succeeds
// without touching memory.
func Copy[E Element](g *Guard, dst, src Buffer[E], n uintptr) error {
	return Transfer(g, Forbidden, dst, src, n)
}

// Move moves n elements from src to dst. Any overlap is allowed; the result
// equals copying through an independent temporary buffer.
func Move[E Element](g *Guard, dst, src Buffer[E], n uintptr) error {
	return Transfer(g, Tolerant, dst, src, n)
}

// CopySlice copies all of src into dst, both described with Slice.
func CopySlice[E Element](g *Guard, dst, src []E) error {
	return Copy(g, Slice(dst), Slice(src), uintptr(len(src)))
}

// MoveSlice moves all of src into dst, both described with Slice.
func MoveSlice[E Element](g *Guard, dst, src []E) error {
	return Move(g, Slice(dst), Slice(src), uintptr(len(src)))
}

// Copy8 copies n bytes.
func (g *Guard) Copy8(dst, src Buffer[uint8], n uintptr) error { return Copy(g, dst, src, n) }

// Copy16 copies n 16-bit elements.
func (g *Guard) Copy16(dst, src Buffer[uint16], n uintptr) error { return Copy(g, dst, src, n) }

// Copy32 copies n 32-bit elements.
func (g *Guard) Copy32(dst, src Buffer[uint32], n uintptr) error { return Copy(g, dst, src, n) }

// Move8 moves n bytes.
func (g *Guard) Move8(dst, src Buffer[uint8], n uintptr) error { return Move(g, dst, src, n) }

// Move16 moves n 16-bit elements.
func (g *Guard) Move16(dst, src Buffer[uint16], n uintptr) error { return Move(g, dst, src, n) }

// Move32 moves n 32-bit elements.
func (g *Guard) Move32(dst, src Buffer[uint32], n uintptr) error { return Move(g, dst, src, n) }

// Copy8 copies n bytes using the default guard.
func Copy8(dst, src Buffer[uint8], n uintptr) error { return Copy(nil, dst, src, n) }

// Copy16 copies n 16-bit elements using the default guard.
func Copy16(dst, src Buffer[uint16], n uintptr) error { return Copy(nil, dst, src, n) }

// Copy32 copies n 32-bit elements using the default guard.
func Copy32(dst, src Buffer[uint32], n uintptr) error { return Copy(nil, dst, src, n) }

// Move8 moves n bytes using the default guard.
func Move8(dst, src Buffer[uint8], n uintptr) error { return Move(nil, dst, src, n) }

// Move16 moves n 16-bit elements using the default guard.
func Move16(dst, src Buffer[uint16], n uintptr) error { return Move(nil, dst, src, n) }

// Move32 moves n 32-bit elements using the default guard.
func Move32(dst, src Buffer[uint32], n uintptr) error { return Move(nil, dst, src, n) }
