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

// Package code defines the closed taxonomy of bounds-checked transfer
// outcomes.
//
// A Code is both a name ("insufficient_space") and an errno-style integer
// (-406). The name is what logs, configuration and transport payloads carry;
// the integer is what C-style callers compare against. Both forms round-trip
// through Parse.
//
// Codes are ordered: All returns them in the exact order the validator checks
// them. That order is part of the contract, because a request that violates
// several constraints at once reports only the first one.
package code
