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
)

// DefaultMaxBytes is the default sanity ceiling for a declared destination
// capacity: 256 MiB.
const DefaultMaxBytes uint64 = 256 << 20

// Limits are the sanity ceilings checked before any size comparison is
// trusted. Byte and element ceilings are distinct: MaxBytes bounds declared
// capacities, the element ceilings bound the element count of 16 and 32 bit
// transfers. Byte transfers use MaxBytes as their element ceiling.
//
// A zero element ceiling is derived from MaxBytes divided by the width.
type Limits struct {
	MaxBytes      uint64 `yaml:"max_bytes"`
	MaxElements16 uint64 `yaml:"max_elements16"`
	MaxElements32 uint64 `yaml:"max_elements32"`
}

// ErrInvalidLimits is returned by Limits.Validate.
var ErrInvalidLimits = errors.New("safemem: invalid limits")

// DefaultLimits returns the ceilings used when none are configured.
func DefaultLimits() Limits {
	return Limits{MaxBytes: DefaultMaxBytes}.normalized()
}

// MaxElements returns the element-count ceiling for w.
func (l Limits) MaxElements(w Width) uint64 {
	switch w {
	case Width16:
		if l.MaxElements16 != 0 {
			return l.MaxElements16
		}
	case Width32:
		if l.MaxElements32 != 0 {
			return l.MaxElements32
		}
	case Width8:
		return l.MaxBytes
	default:
		return 0
	}
	return l.MaxBytes / uint64(w)
}

// Validate rejects ceilings that would let an element count exceed the byte
// ceiling once multiplied by its width.
func (l Limits) Validate() error {
	if l.MaxBytes == 0 {
		return fmt.Errorf("%w: max_bytes must be positive", ErrInvalidLimits)
	}
	for _, w := range []Width{Width16, Width32} {
		if l.MaxElements(w) > l.MaxBytes/uint64(w) {
			return fmt.Errorf("%w: %d-bit element ceiling %d exceeds max_bytes %d",
				ErrInvalidLimits, w.Bits(), l.MaxElements(w), l.MaxBytes)
		}
	}
	return nil
}

func (l Limits) normalized() Limits {
	if l.MaxBytes == 0 {
		l.MaxBytes = DefaultMaxBytes
	}
	if l.MaxElements16 == 0 {
		l.MaxElements16 = l.MaxBytes / uint64(Width16)
	}
	if l.MaxElements32 == 0 {
		l.MaxElements32 = l.MaxBytes / uint64(Width32)
	}
	return l
}
