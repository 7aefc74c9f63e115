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

// Package reason refines a violation code with the exact check that fired.
//
// Where Code answers "what kind of violation is this?" (null_pointer,
// insufficient_space, ...), Reason answers "which buffer and which property":
//
//   - "dest.null"
//   - "src.static.overflow"
//   - "dest.space"
//
// Reasons are optional at the type level: the zero value ("") is allowed and
// means no refinement. The validator always attaches one of Known().
package reason
