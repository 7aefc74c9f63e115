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

// Option configures the Mapper at build time.
type Option func(*builder)

// WithHTTPDefault replaces the default HTTP status for c.
func WithHTTPDefault(c code.Code, http int) Option {
	return func(b *builder) { b.httpDefaults[c] = http }
}

// WithGRPCDefault replaces the default gRPC status for c.
func WithGRPCDefault(c code.Code, grpc int) Option {
	return func(b *builder) { b.grpcDefaults[c] = grpc }
}

// WithHTTPOverride registers an exact HTTP status for c. Overrides beat
// both prefix rules and defaults.
func WithHTTPOverride(c code.Code, http int) Option {
	return func(b *builder) { b.httpOverride[c] = http }
}

// WithGRPCOverride registers an exact gRPC status for c.
func WithGRPCOverride(c code.Code, grpc int) Option {
	return func(b *builder) { b.grpcOverride[c] = grpc }
}

// WithHTTPPrefix adds an HTTP longest-prefix-match rule for c. The rule is
// evaluated against the dot-separated reason; "*" matches one segment.
func WithHTTPPrefix(c code.Code, prefix string, http int) Option {
	return func(b *builder) { b.httpPrefixes[c] = append(b.httpPrefixes[c], prefixRule{prefix, http}) }
}

// WithGRPCPrefix adds a gRPC longest-prefix-match rule for c.
func WithGRPCPrefix(c code.Code, prefix string, grpc int) Option {
	return func(b *builder) { b.grpcPrefixes[c] = append(b.grpcPrefixes[c], prefixRule{prefix, grpc}) }
}

// WithSide maps every violation of c raised on one side ("dest" or "src")
// to the given statuses, on both transports.
func WithSide(c code.Code, side string, http int, grpc codes.Code) Option {
	return func(b *builder) {
		b.httpPrefixes[c] = append(b.httpPrefixes[c], prefixRule{side, http})
		b.grpcPrefixes[c] = append(b.grpcPrefixes[c], prefixRule{side, int(grpc)})
	}
}

// WithFallback sets the statuses used for codes with no default at all.
func WithFallback(http int, grpc codes.Code) Option {
	return func(b *builder) {
		b.fallbackHTTP = http
		b.fallbackGRPC = grpc
	}
}
