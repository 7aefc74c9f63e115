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
	"sync"

	"dirpx.dev/safemem/apis"
	"dirpx.dev/safemem/code"
	"dirpx.dev/safemem/reason"
)

// Ignore returns a handler that does nothing. The violation is still
// returned to the caller.
func Ignore() apis.Handler {
	return apis.HandlerFunc(func(apis.Report) {})
}

// RaisedError is the panic value of the Panic handler.
type RaisedError struct {
	Report apis.Report
}

var (
	_ apis.CodedError    = (*RaisedError)(nil)
	_ apis.ReasonedError = (*RaisedError)(nil)
)

func (e *RaisedError) Error() string {
	return fmt.Sprintf("safemem: %s: %s:%s: %s", e.Report.Op, e.Report.Code, e.Report.Reason, e.Report.Message)
}

// ErrorCode implements apis.CodedError.
func (e *RaisedError) ErrorCode() code.Code { return e.Report.Code }

// ErrorReason implements apis.ReasonedError.
func (e *RaisedError) ErrorReason() reason.Reason { return e.Report.Reason }

// Panic returns a handler that panics with a *RaisedError. Useful where a
// violation must unwind to an application-level recover.
func Panic() apis.Handler {
	return apis.HandlerFunc(func(r apis.Report) {
		panic(&RaisedError{Report: r})
	})
}

// Chain returns a handler calling each non-nil handler in order.
func Chain(hs ...apis.Handler) apis.Handler {
	list := make([]apis.Handler, 0, len(hs))
	for _, h := range hs {
		if h != nil {
			list = append(list, h)
		}
	}
	return apis.HandlerFunc(func(r apis.Report) {
		for _, h := range list {
			h.Handle(r)
		}
	})
}

// Recorder keeps every report it handles. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	reports []apis.Report
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Handle implements apis.Handler.
func (r *Recorder) Handle(rep apis.Report) {
	r.mu.Lock()
	r.reports = append(r.reports, rep)
	r.mu.Unlock()
}

// Reports returns a copy of the recorded reports, oldest first.
func (r *Recorder) Reports() []apis.Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]apis.Report, len(r.reports))
	copy(out, r.reports)
	return out
}

// Last returns the most recent report.
func (r *Recorder) Last() (apis.Report, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.reports) == 0 {
		return apis.Report{}, false
	}
	return r.reports[len(r.reports)-1], true
}

// Len returns the number of recorded reports.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports)
}

// Reset drops all recorded reports.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.reports = nil
	r.mu.Unlock()
}
