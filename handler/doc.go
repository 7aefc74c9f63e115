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

// Package handler provides constraint handlers for safemem guards.
//
// A handler runs on every violation, after the destination has been cleared.
// The built-in policies are:
//
//   - Abort: log the violation and terminate the process (the default);
//   - Log: log the violation and let the caller handle the returned error;
//   - Ignore: do nothing beyond returning the error;
//   - Panic: raise the violation as a panic carrying a *RaisedError.
//
// Decorators add behavior around any handler: Chain fans out, Counting
// exports Prometheus counters, Recorder keeps reports for inspection.
package handler
