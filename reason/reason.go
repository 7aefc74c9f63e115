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

package reason

import (
	"bytes"
	"encoding"
	"errors"
	"regexp"
	"strings"
)

// Reason names the exact check that produced a violation.
//
// Reasons are dot-separated identifiers. The first segment names the buffer
// the check looked at ("dest" or "src") or the relation between them
// ("overlap"); the remaining segments name the property that failed:
//
//   - "dest.null"
//   - "dest.capacity.max"
//   - "src.static.overflow"
//   - "overlap"
//
// The code answers "what kind of violation"; the reason answers "which check".
type Reason string

// MinLength and MaxLength define the allowed length range for a non-empty
// reason.
const (
	// MinLength is the minimum length for a non-empty reason.
	MinLength = 3

	// MaxLength is the maximum length for a reason.
	MaxLength = 128
)

const (
	// reasonFmt accepts 1 to 4 dot-separated segments, each starting with a
	// lowercase ASCII letter and continuing with [a-z0-9_].
	//
	// Matches:    "dest.null", "src.count.wrap", "overlap"
	// Rejects:    "Dest.null", "dest..null", "dest/null", "1dest"
	reasonFmt = `^[a-z][a-z0-9_]*(\.[a-z][a-z0-9_]*){0,3}$`
)

var (
	reasonRe = regexp.MustCompile(reasonFmt)
)

var (
	// ErrReasonInvalidFormat is returned when a reason does not conform to
	// the expected format.
	ErrReasonInvalidFormat = errors.New("safemem: invalid reason format")
	// ErrReasonInvalidLength is returned when a reason is too short or too long.
	ErrReasonInvalidLength = errors.New("safemem: invalid reason length")
)

var (
	_ encoding.TextMarshaler   = (*Reason)(nil)
	_ encoding.TextUnmarshaler = (*Reason)(nil)
)

// Empty is the "no reason provided" value. It is valid to store, and mappers
// fall back to the code-level rule when they see it.
var Empty Reason = ""

// Normalize performs conservative, non-lossy clean-up:
//
//   - trim spaces;
//   - lower-case;
//   - convert "/" to ".";
//   - replace "-" with "_".
//
// It does NOT guarantee validity.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "/", ".")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// Parse normalizes and validates s. The empty string yields Empty without
// error.
func Parse(s string) (Reason, error) {
	s = Normalize(s)
	if s == "" {
		return Empty, nil
	}
	if err := validate(s); err != nil {
		return Empty, err
	}
	return Reason(s), nil
}

// MustParse is the panic-on-error variant of Parse. Unlike Parse it rejects
// the empty string.
func MustParse(s string) Reason {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	if r == Empty {
		panic("safemem: empty reason in MustParse")
	}
	return r
}

// Validate checks whether r is in canonical form. Empty is valid.
func Validate(r Reason) error {
	if r == Empty {
		return nil
	}
	return validate(string(r))
}

// String returns the reason as a string.
func (r Reason) String() string {
	return string(r)
}

// Segments splits the reason on dots. Empty yields nil.
func (r Reason) Segments() []string {
	if r == Empty {
		return nil
	}
	return strings.Split(string(r), ".")
}

// Side returns the first segment of the reason, which names the buffer the
// failing check inspected.
func (r Reason) Side() string {
	s := string(r)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i]
	}
	return s
}

// HasPrefix reports whether r starts with the segments of p. Matching is
// segment-aware: "dest.cap" is not a prefix of "dest.capacity.max".
func (r Reason) HasPrefix(p Reason) bool {
	if p == Empty {
		return true
	}
	s, ps := string(r), string(p)
	if !strings.HasPrefix(s, ps) {
		return false
	}
	return len(s) == len(ps) || s[len(ps)] == '.'
}

// MarshalText implements encoding.TextMarshaler.
func (r Reason) MarshalText() ([]byte, error) {
	if err := Validate(r); err != nil {
		return nil, err
	}
	return []byte(r), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Whitespace-only input
// produces Empty.
func (r *Reason) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(bytes.TrimSpace(text)))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func validate(s string) error {
	if len(s) < MinLength || len(s) > MaxLength {
		return ErrReasonInvalidLength
	}
	if !reasonRe.MatchString(s) {
		return ErrReasonInvalidFormat
	}
	return nil
}
