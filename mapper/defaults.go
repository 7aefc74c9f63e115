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

package mapper

import (
	"net/http"

	"google.golang.org/grpc/codes"

	"dirpx.dev/safemem/code"
)

// defaultHTTP maps each violation class to the status a service returns
// when a transfer it performed on behalf of a request was rejected.
// Callers override these at the edge where HTTP is produced.
var defaultHTTP = map[code.Code]int{
	code.OK: http.StatusOK,

	// Input the caller controls.
	code.NullPointer:  http.StatusBadRequest, // No buffer where one was required.
	code.ZeroCapacity: http.StatusBadRequest, // Destination cannot hold anything.

	// Sizes.
	code.CapacityExceedsMaximum: http.StatusRequestEntityTooLarge, // Above the sanity ceiling.
	code.StaticSizeOverflow:     http.StatusBadRequest,            // Count or capacity larger than the real buffer.
	code.InsufficientSpace:      http.StatusRequestEntityTooLarge, // Payload does not fit.

	// Programming errors in the service itself.
	code.DeclaredSizeMismatch: http.StatusInternalServerError,
	code.IllegalOverlap:       http.StatusConflict, // Source and destination alias.
}

// defaultGRPC is the gRPC counterpart of defaultHTTP.
var defaultGRPC = map[code.Code]codes.Code{
	code.OK: codes.OK,

	code.NullPointer:  codes.InvalidArgument,
	code.ZeroCapacity: codes.InvalidArgument,

	code.CapacityExceedsMaximum: codes.OutOfRange,
	code.StaticSizeOverflow:     codes.OutOfRange,
	code.InsufficientSpace:      codes.OutOfRange,

	code.DeclaredSizeMismatch: codes.Internal,
	code.IllegalOverlap:       codes.FailedPrecondition,
}

// defaultRule refines a default by reason prefix.
type defaultRule struct {
	code   code.Code
	prefix string
	http   int
	grpc   codes.Code
}

// defaultRules single out destination-side failures, which describe buffers
// the service owns rather than input the client sent.
var defaultRules = []defaultRule{
	{code.NullPointer, "dest", http.StatusInternalServerError, codes.Internal},
	{code.StaticSizeOverflow, "dest", http.StatusInternalServerError, codes.Internal},
}
