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
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"

	"dirpx.dev/safemem/apis"
	"dirpx.dev/safemem/code"
	"dirpx.dev/safemem/mapper/internal/segmenttrie"
	"dirpx.dev/safemem/reason"
)

// New constructs an immutable apis.Mapper snapshot.
//
// Build process:
//
//  1. Seed the builder with the library defaults and default reason rules.
//  2. Apply user options on top.
//  3. Normalize and validate every reason prefix.
//  4. Build per-code segment tries for HTTP and gRPC.
//  5. Copy everything into fresh maps owned by the mapper.
//
// Errors indicate invalid prefixes.
func New(opts ...Option) (apis.Mapper, error) {
	b := newBuilder()
	b.seedDefaults()

	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	httpTrie, err := buildTries(b.httpPrefixes, func(v int) int { return v }, "HTTP")
	if err != nil {
		return nil, err
	}
	grpcTrie, err := buildTries(b.grpcPrefixes, func(v int) codes.Code { return codes.Code(v) }, "gRPC")
	if err != nil {
		return nil, err
	}

	return &mapper{
		httpDefault:  freeze(b.httpDefaults, identity),
		grpcDefault:  freeze(b.grpcDefaults, toGRPC),
		httpOverride: freeze(b.httpOverride, identity),
		grpcOverride: freeze(b.grpcOverride, toGRPC),
		httpTrie:     httpTrie,
		grpcTrie:     grpcTrie,
		fallbackHTTP: b.fallbackHTTP,
		fallbackGRPC: b.fallbackGRPC,
	}, nil
}

// MustNew is like New but panics on error. Intended for package-level
// variables built from constant rules.
func MustNew(opts ...Option) apis.Mapper {
	m, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return m
}

func buildTries[T any](rules map[code.Code][]prefixRule, conv func(int) T, transport string) (map[code.Code]*segmenttrie.Trie[T], error) {
	out := make(map[code.Code]*segmenttrie.Trie[T], len(rules))
	for c, rs := range rules {
		if len(rs) == 0 {
			continue
		}
		t := segmenttrie.New[T]()
		for _, r := range rs {
			p, err := normalizeAndValidatePrefix(r.prefix)
			if err != nil {
				return nil, fmt.Errorf("mapper: invalid %s reason-prefix %q for code %q: %w", transport, r.prefix, c, err)
			}
			if err := t.Insert(p, conv(r.val)); err != nil {
				return nil, fmt.Errorf("mapper: cannot insert %s prefix %q for code %q: %w", transport, p, c, err)
			}
		}
		out[c] = t
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// mapper combines per-code defaults, exact overrides and reason prefix
// tries. Safe for concurrent use once constructed.
type mapper struct {
	httpDefault  map[code.Code]int
	grpcDefault  map[code.Code]codes.Code
	httpOverride map[code.Code]int
	grpcOverride map[code.Code]codes.Code

	// httpTrie and grpcTrie resolve statuses by reason prefix, with "*"
	// matching one segment.
	httpTrie map[code.Code]*segmenttrie.Trie[int]
	grpcTrie map[code.Code]*segmenttrie.Trie[codes.Code]

	// fallbackHTTP and fallbackGRPC answer for codes with no entry at all.
	fallbackHTTP int
	fallbackGRPC codes.Code
}

// HTTPStatus resolves an HTTP status for the given code and reason.
//
// Resolution order (highest to lowest):
//  1. exact per-code override;
//  2. per-code longest-prefix-match on the reason;
//  3. per-code default;
//  4. fallback (500).
func (m *mapper) HTTPStatus(c code.Code, r reason.Reason) int {
	v, _, _ := resolve(c, r, m.httpOverride, m.httpTrie, m.httpDefault, m.fallbackHTTP)
	return v
}

// GRPCStatus resolves a gRPC status with the same precedence as HTTPStatus.
func (m *mapper) GRPCStatus(c code.Code, r reason.Reason) codes.Code {
	v, _, _ := resolve(c, r, m.grpcOverride, m.grpcTrie, m.grpcDefault, m.fallbackGRPC)
	return v
}

// Status resolves both transports from the same inputs.
func (m *mapper) Status(c code.Code, r reason.Reason) apis.Status {
	return apis.Status{
		HTTP: m.HTTPStatus(c, r),
		GRPC: m.GRPCStatus(c, r),
	}
}

// Explain produces a textual trace of how the mapper resolved both
// statuses for a (code, reason) pair.
//
// Example output:
//
//	code="insufficient_space" errno=-406 reason="dest.space"
//	http: source=default -> 413
//	grpc: source=default -> OUT_OF_RANGE(11)
//
// source is one of override, prefix, default or fallback. The output is
// meant for people, not for parsing.
func (m *mapper) Explain(c code.Code, r reason.Reason) string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "code=%q errno=%d reason=%q\n", c, c.Errno(), r)

	hv, hsrc, hpat := resolve(c, r, m.httpOverride, m.httpTrie, m.httpDefault, m.fallbackHTTP)
	_, _ = fmt.Fprintf(&b, "http: %s -> %d\n", sourceOf(hsrc, hpat), hv)

	gv, gsrc, gpat := resolve(c, r, m.grpcOverride, m.grpcTrie, m.grpcDefault, m.fallbackGRPC)
	_, _ = fmt.Fprintf(&b, "grpc: %s -> %s(%d)", sourceOf(gsrc, gpat), grpcName(gv), int(gv))

	return b.String()
}

// grpcName renders a gRPC code the way the protocol spells it, e.g.
// OUT_OF_RANGE for codes.OutOfRange.
func grpcName(c codes.Code) string {
	s := c.String()
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if i > 0 && ch >= 'A' && ch <= 'Z' && s[i-1] >= 'a' && s[i-1] <= 'z' {
			b.WriteByte('_')
		}
		b.WriteByte(ch)
	}
	return strings.ToUpper(b.String())
}

// source names the tier that produced a status.
type source string

const (
	sourceOverride source = "override"
	sourcePrefix   source = "prefix"
	sourceDefault  source = "default"
	sourceFallback source = "fallback"
)

func sourceOf(s source, pattern string) string {
	if s == sourcePrefix {
		return fmt.Sprintf("source=%s pattern=%q", s, pattern)
	}
	return "source=" + string(s)
}

func resolve[T any](
	c code.Code,
	r reason.Reason,
	override map[code.Code]T,
	tries map[code.Code]*segmenttrie.Trie[T],
	defaults map[code.Code]T,
	fallback T,
) (T, source, string) {
	if v, ok := override[c]; ok {
		return v, sourceOverride, ""
	}
	if t := tries[c]; t != nil {
		if v, ok, pat := t.MatchWithPattern(string(r)); ok {
			return v, sourcePrefix, pat
		}
	}
	if v, ok := defaults[c]; ok {
		return v, sourceDefault, ""
	}
	return fallback, sourceFallback, ""
}

// normalizeAndValidatePrefix returns the canonical form of a reason prefix.
// Empty prefixes and prefixes made only of "*" are rejected.
func normalizeAndValidatePrefix(raw string) (string, error) {
	p := reason.Normalize(raw)
	if p == "" {
		return "", fmt.Errorf("empty prefix")
	}
	allWild := true
	for _, seg := range strings.Split(p, ".") {
		if !validPrefixSegment(seg) {
			return "", fmt.Errorf("invalid segment %q", seg)
		}
		if seg != "*" {
			allWild = false
		}
	}
	if allWild {
		return "", fmt.Errorf("prefix cannot consist of '*' only")
	}
	return p, nil
}

// validPrefixSegment accepts "*" or [a-z][a-z0-9_]*.
func validPrefixSegment(seg string) bool {
	if seg == "" {
		return false
	}
	if seg == "*" {
		return true
	}
	if seg[0] < 'a' || seg[0] > 'z' {
		return false
	}
	for i := 1; i < len(seg); i++ {
		c := seg[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			continue
		}
		return false
	}
	return true
}
