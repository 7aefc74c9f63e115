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

import "dirpx.dev/safemem/apis"

// Option configures a Guard at construction time.
type Option func(*Guard)

// WithHandler sets the constraint handler. A nil h selects the default
// aborting handler.
func WithHandler(h apis.Handler) Option {
	return func(g *Guard) { g.handler = h }
}

// WithHandlerFunc sets the constraint handler from a function.
func WithHandlerFunc(f func(apis.Report)) Option {
	return func(g *Guard) {
		if f == nil {
			g.handler = nil
			return
		}
		g.handler = apis.HandlerFunc(f)
	}
}

// WithLimits replaces the sanity ceilings. Zero fields take their defaults.
func WithLimits(l Limits) Option {
	return func(g *Guard) { g.limits = l }
}

// WithMaxBytes sets the byte ceiling and derives the element ceilings
// from it.
func WithMaxBytes(n uint64) Option {
	return func(g *Guard) { g.limits = Limits{MaxBytes: n} }
}

// WithStrictDeclaredSize enables or disables DeclaredSizeMismatch checks.
func WithStrictDeclaredSize(on bool) Option {
	return func(g *Guard) { g.strict = on }
}
