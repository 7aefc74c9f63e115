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

package apis

import (
	"dirpx.dev/safemem/code"
	"dirpx.dev/safemem/reason"
)

// Side names which buffer of a transfer request a violation concerns.
type Side uint8

const (
	// SideNone is used for violations that are not attributable to a single
	// buffer.
	SideNone Side = iota
	// SideDest is the destination buffer.
	SideDest
	// SideSrc is the source buffer.
	SideSrc
)

// String returns "dest", "src" or "none".
func (s Side) String() string {
	switch s {
	case SideDest:
		return "dest"
	case SideSrc:
		return "src"
	default:
		return "none"
	}
}

// ParseSide is the inverse of Side.String. Unknown input yields SideNone.
func ParseSide(s string) Side {
	switch s {
	case "dest":
		return SideDest
	case "src":
		return SideSrc
	default:
		return SideNone
	}
}

// Report describes a single constraint violation at the moment it is handed
// to a Handler. It is built on the violation path and never retained by the
// transfer core.
type Report struct {
	// Code is the violation class.
	Code code.Code
	// Reason names the check that failed.
	Reason reason.Reason
	// Side is the buffer the failing check looked at.
	Side Side
	// Op is the primitive that was called, e.g. "copy32" or "move8".
	Op string
	// Message is a static, human-readable description.
	Message string
	// Addr is the address of the offending buffer, or zero when it is nil.
	// It is an opaque token for diagnostics and must not be dereferenced.
	Addr uintptr
	// Cleared is the number of destination bytes zero-filled before the
	// handler ran.
	Cleared uintptr
}

// Handler receives every constraint violation.
//
// Handle runs after the destination has been cleared and after the memory
// barrier. It may log, count, panic or terminate the process; when it returns
// the violation is also returned to the caller of the transfer.
//
// Implementations must be safe for concurrent use: the same handler serves
// every goroutine that shares a guard.
type Handler interface {
	Handle(r Report)
}

// HandlerFunc adapts an ordinary function to Handler.
type HandlerFunc func(r Report)

// Handle calls f(r).
func (f HandlerFunc) Handle(r Report) { f(r) }
