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
	"unsafe"

	"github.com/awnumar/memguard"
)

// Element constrains the element types a transfer can move: 8, 16 and 32 bit
// unsigned integers and types derived from them.
type Element interface {
	~uint8 | ~uint16 | ~uint32
}

// Width is the size of one element in bytes.
type Width uintptr

const (
	Width8  Width = 1
	Width16 Width = 2
	Width32 Width = 4
)

// Valid reports whether w is one of the supported widths.
func (w Width) Valid() bool {
	return w == Width8 || w == Width16 || w == Width32
}

// Bits returns the width in bits.
func (w Width) Bits() int { return int(w) * 8 }

// WidthOf returns the width of E.
func WidthOf[E Element]() Width {
	var e E
	return Width(unsafe.Sizeof(e))
}

// Descriptor describes one side of a transfer: where the memory starts, how
// many bytes the caller declared, and, when the descriptor was built from a
// slice, how many bytes really exist there.
//
// The zero Descriptor is the null pointer.
type Descriptor struct {
	ptr      unsafe.Pointer
	declared uintptr
	static   uintptr
	known    bool
}

// IsNull reports whether the descriptor has no backing memory.
func (d Descriptor) IsNull() bool { return d.ptr == nil }

// Addr returns the start address as an integer, for range arithmetic and
// diagnostics only.
func (d Descriptor) Addr() uintptr { return uintptr(d.ptr) }

// Declared returns the capacity the caller declared, in bytes.
func (d Descriptor) Declared() uintptr { return d.declared }

// Static returns the statically known capacity in bytes and whether it is
// known at all.
func (d Descriptor) Static() (uintptr, bool) { return d.static, d.known }

// Capacity returns the number of bytes a transfer may write:
// min(declared, static) when the static capacity is known, declared otherwise.
func (d Descriptor) Capacity() uintptr {
	if d.known && d.static < d.declared {
		return d.static
	}
	return d.declared
}

// bytes views the first n bytes of the descriptor. Callers guarantee that n
// has been validated against Capacity or the request size.
func (d Descriptor) bytes(n uintptr) []byte {
	return unsafe.Slice((*byte)(d.ptr), n)
}

// Buffer is a Descriptor tagged with its element type, so a 32-bit transfer
// cannot be handed byte buffers by accident.
type Buffer[E Element] struct {
	d Descriptor
}

// Descriptor returns the untyped descriptor.
func (b Buffer[E]) Descriptor() Descriptor { return b.d }

// Null returns the null buffer.
func Null[E Element]() Buffer[E] { return Buffer[E]{} }

// Slice describes s with declared == static == len(s) elements. A nil slice
// is the null pointer; a non-nil empty slice has zero capacity.
func Slice[E Element](s []E) Buffer[E] {
	if s == nil {
		return Buffer[E]{}
	}
	n := uintptr(len(s)) * uintptr(WidthOf[E]())
	return Buffer[E]{d: Descriptor{
		ptr:      unsafe.Pointer(unsafe.SliceData(s)),
		declared: n,
		static:   n,
		known:    true,
	}}
}

// Sized describes s with a caller-declared capacity of dmax bytes. The
// static capacity is len(s) elements; a dmax larger than that is reported as
// a static size overflow, never honored.
func Sized[E Element](s []E, dmax uintptr) Buffer[E] {
	b := Slice(s)
	if !b.d.IsNull() {
		b.d.declared = dmax
	}
	return b
}

// Raw describes memory Go cannot size, such as C or mmap'd regions: p is the
// first element and dmax the declared capacity in bytes. The caller vouches
// that dmax bytes starting at p are addressable.
func Raw[E Element](p *E, dmax uintptr) Buffer[E] {
	if p == nil {
		return Buffer[E]{}
	}
	return Buffer[E]{d: Descriptor{
		ptr:      unsafe.Pointer(p),
		declared: dmax,
	}}
}

// Locked describes the contents of a memguard buffer. Destroyed or nil
// buffers are the null pointer. A buffer used as a destination must be
// mutable (see memguard's Melt).
func Locked(b *memguard.LockedBuffer) Buffer[byte] {
	if b == nil || !b.IsAlive() {
		return Buffer[byte]{}
	}
	return Slice(b.Bytes())
}
