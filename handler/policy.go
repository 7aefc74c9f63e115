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

package handler

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"dirpx.dev/safemem/apis"
)

// Policy names a built-in handler.
type Policy string

const (
	PolicyAbort  Policy = "abort"
	PolicyLog    Policy = "log"
	PolicyIgnore Policy = "ignore"
	PolicyPanic  Policy = "panic"
)

// Policies lists the built-in policies.
func Policies() []Policy {
	return []Policy{PolicyAbort, PolicyLog, PolicyIgnore, PolicyPanic}
}

// ParsePolicy normalizes s and resolves it to a Policy. The empty string
// selects PolicyAbort.
func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return PolicyAbort, nil
	}
	for _, known := range Policies() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("safemem: unknown handler policy %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ForPolicy builds the handler for p.
func ForPolicy(p Policy, log *zap.Logger) (apis.Handler, error) {
	switch p {
	case PolicyAbort, "":
		return Abort(log), nil
	case PolicyLog:
		return Log(log), nil
	case PolicyIgnore:
		return Ignore(), nil
	case PolicyPanic:
		return Panic(), nil
	}
	return nil, fmt.Errorf("safemem: unknown handler policy %q", string(p))
}
