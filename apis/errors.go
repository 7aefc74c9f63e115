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

// CodedError is an error classified by the violation taxonomy.
//
// Adapters use the code to choose transport statuses. Errors that do not
// implement CodedError are treated as internal failures at the boundary.
type CodedError interface {
	error

	// ErrorCode returns the violation class. It never returns code.OK.
	ErrorCode() code.Code
}

// ReasonedError exposes the check that produced a violation.
//
// While the code answers "what kind of violation is this?", the reason answers
// "which check fired?". The returned value MAY be empty.
type ReasonedError interface {
	error

	ErrorReason() reason.Reason
}

// DetailedError exposes zero or more structured details. Returning nil is
// allowed and means "no extra details".
type DetailedError interface {
	error

	ErrorDetails() []Detail
}

// ReportingError can rebuild the Report that was handed to the handler when
// the error was produced.
type ReportingError interface {
	error

	Report() Report
}
