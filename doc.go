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

// Package safemem provides bounds-checked memory transfer primitives.
//
// Every primitive validates its preconditions before touching memory and
// reports violations through one classified channel: the returned error is a
// *Violation carrying a code.Code from a closed taxonomy, and the same
// violation is handed to the Guard's constraint handler.
//
// # Buffers
//
// A transfer names its buffers with descriptors. Slice-backed descriptors
// know the true extent of the memory (the static capacity); raw-pointer
// descriptors only carry the capacity the caller declared:
//
//	dst := safemem.Sized(buf, 16)              // declared 16 bytes, static len(buf)
//	src := safemem.Slice(words)                // declared == static
//	raw := safemem.Raw((*uint32)(cptr), 64)    // declared 64 bytes, static unknown
//
// When a static capacity is known it is authoritative: no path writes past
// min(declared, static) bytes of the destination.
//
// # Protocol
//
// Checks run in the precedence order of package code. The first failing
// check wins. On failure the destination is zero-filled up to its trusted
// capacity, a memory barrier is issued, the handler runs, and the violation
// is returned. On success the elements are moved.
//
//	g := safemem.New(safemem.WithHandler(handler.Log(logger)))
//	if err := g.Copy32(safemem.Sized(dst, 16), safemem.Slice(src), 3); err != nil {
//	    // errors.Is(err, safemem.ErrInsufficientSpace), safemem.Errno(err), ...
//	}
//
// Copy forbids overlapping ranges (identical start addresses are a no-op
// success); Move tolerates any overlap.
//
// # Concurrency
//
// A Guard is immutable and safe for concurrent use. The package default guard
// may be replaced with SetDefault or InstallConstraintHandler only during
// initialization, before transfers run concurrently.
package safemem
