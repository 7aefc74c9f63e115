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
	"google.golang.org/grpc/codes"

	"dirpx.dev/safemem/code"
)

// freeze copies src into a fresh map, converting values on the way. Empty
// maps become nil.
func freeze[V any](src map[code.Code]int, conv func(int) V) map[code.Code]V {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[code.Code]V, len(src))
	for k, v := range src {
		dst[k] = conv(v)
	}
	return dst
}

func identity(v int) int { return v }

func toGRPC(v int) codes.Code { return codes.Code(v) }
