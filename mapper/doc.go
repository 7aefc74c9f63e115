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

// Package mapper turns safemem violations into transport statuses for HTTP
// and gRPC.
//
// # Overview
//
// A violation is described by two parts:
//
//  1. a Code, the violation class (e.g. code.InsufficientSpace);
//  2. a Reason naming the check that fired (e.g. "dest.space").
//
// Services that copy request data into fixed buffers need to answer the
// client when such a transfer is rejected. A Mapper is an immutable
// snapshot that resolves the pair to an HTTP status and a gRPC code.
//
// # Resolution model
//
//  1. exact override for the Code;
//  2. per-Code longest-prefix-match on the Reason;
//  3. per-Code default;
//  4. fallback (500 / codes.Internal).
//
// Prefix rules are segment-aware and "*" matches exactly one segment:
//
//	WithHTTPPrefix(code.StaticSizeOverflow, "src", http.StatusBadRequest)
//	WithHTTPPrefix(code.CapacityExceedsMaximum, "*.count", http.StatusRequestEntityTooLarge)
//
// # Library defaults
//
// Size violations map to 413 / OutOfRange, null and empty inputs to
// 400 / InvalidArgument and aliasing to 409 / FailedPrecondition.
// Destination-side null pointers and static overflows are the service's own
// bug and map to 500 / Internal.
//
// # Diagnostics
//
// Mapper.Explain renders which tier matched, and for prefix matches which
// pattern. cmd/safememctl exposes it on the command line.
package mapper
