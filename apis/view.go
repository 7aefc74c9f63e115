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

// ErrorView is the serializable shape of a violation exposed over the wire
// or written to logs. It deliberately omits addresses.
type ErrorView struct {
	// Code is the violation name, e.g. "insufficient_space".
	Code string `json:"code"`
	// Errno is the negative integer form of Code.
	Errno int `json:"errno"`
	// Reason is the failing check, e.g. "dest.space".
	Reason string `json:"reason,omitempty"`
	// Side is "dest", "src" or "none".
	Side string `json:"side,omitempty"`
	// Op is the primitive that was called.
	Op string `json:"op,omitempty"`
	// Message is a human-readable description.
	Message string `json:"message,omitempty"`
	// Details lists the sizes and limits involved.
	Details []Detail `json:"details,omitempty"`
}

// ErrorDescriptor is a flat description of a violation together with the
// transport statuses resolved for it. Intended for structured logging and
// message bus propagation.
type ErrorDescriptor struct {
	Code       string `json:"code"`
	Errno      int    `json:"errno"`
	Reason     string `json:"reason,omitempty"`
	HTTPStatus int    `json:"http_status,omitempty"`
	GRPCCode   int    `json:"grpc_code,omitempty"`
	Message    string `json:"message,omitempty"`
}
