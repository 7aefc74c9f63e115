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

// Detail is a single structured piece of information attached to a
// violation: the buffer involved, the sizes that were compared, the limit
// that was exceeded.
type Detail struct {
	// Type is a short classifier, e.g. "buffer", "limit", "range".
	Type string `json:"type,omitempty"`

	// Field names the property, e.g. "dest.declared" or "src.bytes".
	Field string `json:"field,omitempty"`

	// Reason is a short explanation of why the detail is relevant.
	Reason string `json:"reason,omitempty"`

	// Info carries values that survive JSON/proto round-trips, e.g.
	// {"value": "16", "limit": "8"}.
	Info map[string]string `json:"info,omitempty"`
}
