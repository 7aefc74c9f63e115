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

package safemem

import (
	"testing"

	"dirpx.dev/safemem/handler"
)

// newGuard builds a guard that records violations instead of aborting.
func newGuard(t *testing.T, opts ...Option) (*Guard, *handler.Recorder) {
	t.Helper()
	rec := handler.NewRecorder()
	return New(append([]Option{WithHandler(rec)}, opts...)...), rec
}

func filled[E Element](n int, v E) []E {
	s := make([]E, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func seq[E Element](n int, start E) []E {
	s := make([]E, n)
	for i := range s {
		s[i] = start + E(i)
	}
	return s
}
