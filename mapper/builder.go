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

type prefixRule struct {
	// prefix is the raw reason prefix, possibly with "*". It is normalized
	// when the trie is built.
	prefix string
	// val is the status to apply. gRPC codes are kept as int until New.
	val int
}

type builder struct {
	httpDefaults map[code.Code]int
	grpcDefaults map[code.Code]int

	httpOverride map[code.Code]int
	grpcOverride map[code.Code]int

	httpPrefixes map[code.Code][]prefixRule
	grpcPrefixes map[code.Code][]prefixRule

	fallbackHTTP int
	fallbackGRPC codes.Code
}

func newBuilder() *builder {
	return &builder{
		httpDefaults: make(map[code.Code]int, len(defaultHTTP)),
		grpcDefaults: make(map[code.Code]int, len(defaultGRPC)),
		httpOverride: make(map[code.Code]int),
		grpcOverride: make(map[code.Code]int),
		httpPrefixes: make(map[code.Code][]prefixRule),
		grpcPrefixes: make(map[code.Code][]prefixRule),
		fallbackHTTP: http.StatusInternalServerError,
		fallbackGRPC: codes.Internal,
	}
}

// seedDefaults copies the package defaults into builder-owned maps, so
// options never mutate package state.
func (b *builder) seedDefaults() {
	for k, v := range defaultHTTP {
		b.httpDefaults[k] = v
	}
	for k, v := range defaultGRPC {
		b.grpcDefaults[k] = int(v)
	}
	for _, r := range defaultRules {
		b.httpPrefixes[r.code] = append(b.httpPrefixes[r.code], prefixRule{r.prefix, r.http})
		b.grpcPrefixes[r.code] = append(b.grpcPrefixes[r.code], prefixRule{r.prefix, int(r.grpc)})
	}
}
