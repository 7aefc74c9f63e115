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

package code

import (
	"bytes"
	"encoding"
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Code is the canonical classification of a transfer outcome.
//
// The underlying integer is the errno-style value surfaced to callers that
// want a plain number: zero means success, every violation is negative. The
// set of codes is closed; values outside it never leave this package.
type Code int

// MinLength and MaxLength bound the textual form of a code name.
//
// Names follow the same shape everywhere they appear (logs, config, CLI,
// transport payloads), so the limits live next to the pattern.
const (
	// MinLength is the minimum length of a code name.
	MinLength = 2

	// MaxLength is the maximum length of a code name.
	MaxLength = 64
)

const (
	// nameFmt is the canonical pattern for code names.
	//
	//	^ - start of string;
	//	[a-z] - first character must be a lowercase ASCII letter;
	//	[a-z0-9_]{1,63} - lowercase letters, digits or underscore, giving a
	//	                  total length of 2..64 characters;
	//	$ - end of string.
	//
	// IMPORTANT: the quantifier is tied to MinLength / MaxLength above.
	nameFmt = `^[a-z][a-z0-9_]{1,63}$`
)

var (
	// nameRe is the compiled form of nameFmt.
	nameRe = regexp.MustCompile(nameFmt)
)

var (
	// ErrCodeInvalid is returned when a value cannot be parsed or validated
	// as a code of the taxonomy.
	ErrCodeInvalid = errors.New("safemem: invalid code")
)

// Ensure Code implements encoding.TextMarshaler / encoding.TextUnmarshaler
// so it can be embedded into config and API structs.
var (
	_ encoding.TextMarshaler   = (*Code)(nil)
	_ encoding.TextUnmarshaler = (*Code)(nil)
)

// Parse takes a user-provided code name or errno value, normalizes it and
// resolves it against the taxonomy.
//
// Accepted inputs:
//
//	"insufficient_space", "Insufficient-Space", "-406", "ok", "0"
func Parse(s string) (Code, error) {
	s = Normalize(s)
	if n, err := strconv.Atoi(s); err == nil {
		if c, ok := FromErrno(n); ok {
			return c, nil
		}
		return OK, ErrCodeInvalid
	}
	if !nameRe.MatchString(s) {
		return OK, ErrCodeInvalid
	}
	c, ok := byName[s]
	if !ok {
		return OK, ErrCodeInvalid
	}
	return c, nil
}

// MustParse is the panic-on-error variant of Parse.
func MustParse(s string) Code {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Normalize brings an arbitrary string closer to the canonical name form:
//
//   - trims surrounding spaces;
//   - lowercases the value;
//   - replaces '-' and ' ' with '_'.
//
// It does NOT guarantee that the result names a code.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	// errno values keep their sign
	if strings.HasPrefix(s, "_") && len(s) > 1 && s[1] >= '0' && s[1] <= '9' {
		s = "-" + s[1:]
	}
	return s
}

// Validate reports whether c belongs to the taxonomy.
func Validate(c Code) error {
	if _, ok := names[c]; !ok {
		return ErrCodeInvalid
	}
	return nil
}

// FromErrno maps an errno-style integer back to its Code.
func FromErrno(n int) (Code, bool) {
	c := Code(n)
	if _, ok := names[c]; !ok {
		return OK, false
	}
	return c, true
}

// String returns the canonical name of the code, or "code(<n>)" for values
// outside the taxonomy.
func (c Code) String() string {
	if s, ok := names[c]; ok {
		return s
	}
	return "code(" + strconv.Itoa(int(c)) + ")"
}

// Errno returns the integer surfaced to callers: zero on success, negative on
// failure.
func (c Code) Errno() int { return int(c) }

// Failed reports whether c is a violation.
func (c Code) Failed() bool { return c != OK }

// Precedence returns the 1-based position of c in the check order. Lower
// values are checked first. Unknown codes return 0.
func (c Code) Precedence() int {
	for i, v := range order {
		if v == c {
			return i + 1
		}
	}
	return 0
}

// MarshalText implements encoding.TextMarshaler.
func (c Code) MarshalText() ([]byte, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Code) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(bytes.TrimSpace(text)))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
