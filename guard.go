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
	"sync/atomic"

	"github.com/awnumar/memguard"

	"dirpx.dev/safemem/apis"
	"dirpx.dev/safemem/handler"
)

// Guard carries everything a transfer needs besides its buffers: the
// constraint handler, the sanity ceilings and the strictness mode.
//
// A Guard is immutable after New and safe for concurrent use. Build one at
// initialization and pass it to the code that performs transfers.
type Guard struct {
	handler apis.Handler
	limits  Limits
	strict  bool
}

// New builds a Guard. Without options it aborts the process on any
// violation, uses DefaultLimits and leaves strict mode off.
func New(opts ...Option) *Guard {
	g := &Guard{limits: DefaultLimits()}
	for _, opt := range opts {
		opt(g)
	}
	if g.handler == nil {
		g.handler = handler.Abort(nil)
	}
	g.limits = g.limits.normalized()
	return g
}

// With returns a copy of g with opts applied.
func (g *Guard) With(opts ...Option) *Guard {
	cp := *g
	for _, opt := range opts {
		opt(&cp)
	}
	if cp.handler == nil {
		cp.handler = handler.Abort(nil)
	}
	cp.limits = cp.limits.normalized()
	return &cp
}

// Handler returns the constraint handler.
func (g *Guard) Handler() apis.Handler { return g.handler }

// Limits returns the sanity ceilings.
func (g *Guard) Limits() Limits { return g.limits }

// Strict reports whether declared capacities must equal static ones.
func (g *Guard) Strict() bool { return g.strict }

// Check runs the precondition checks for req without side effects. It
// returns nil when Do would perform the transfer, or the violation Do would
// return; Cleared holds the number of bytes Do would zero-fill.
func (g *Guard) Check(req Request) (*Violation, error) {
	if !req.Width.Valid() {
		return nil, ErrInvalidWidth
	}
	v, _ := g.classify(req)
	if !v.failed() {
		return nil, nil
	}
	return NewViolation(v.report(req)).WithDetails(sizeDetails(g, req)), nil
}

// Do validates req and performs it.
//
// On violation the destination is zero-filled up to its trusted capacity, a
// memory barrier orders the clear before the handler call, the handler runs,
// and the violation is returned. The sequence is never reordered.
func (g *Guard) Do(req Request) error {
	if !req.Width.Valid() {
		return ErrInvalidWidth
	}
	v, n := g.classify(req)
	if v.failed() {
		return g.reject(req, v)
	}
	if n == 0 || req.Dest.ptr == req.Src.ptr {
		return nil
	}
	movers[req.Width](req.Dest.ptr, req.Src.ptr, req.Count)
	return nil
}

func (g *Guard) reject(req Request, v verdict) error {
	if v.clear > 0 {
		memguard.WipeBytes(req.Dest.bytes(v.clear))
	}
	barrier()

	rep := v.report(req)
	g.handler.Handle(rep)

	return NewViolation(rep).WithDetails(sizeDetails(g, req))
}

func (v verdict) report(req Request) apis.Report {
	return apis.Report{
		Code:    v.code,
		Reason:  v.reason,
		Side:    v.side,
		Op:      req.op(),
		Message: v.msg,
		Addr:    v.addr,
		Cleared: v.clear,
	}
}

func sizeDetails(g *Guard, req Request) map[string]any {
	d := map[string]any{
		"dest.declared": req.Dest.Declared(),
		"src.count":     req.Count,
		"width":         uintptr(req.Width),
		"max_bytes":     g.limits.MaxBytes,
	}
	if s, ok := req.Dest.Static(); ok {
		d["dest.static"] = s
	}
	if s, ok := req.Src.Static(); ok {
		d["src.static"] = s
	}
	return d
}

// fence is touched with a sequentially consistent atomic after every clear,
// so the zeroed bytes are visible before anything the handler does.
var fence atomic.Uint64

func barrier() { fence.Add(1) }

var defaultGuard atomic.Pointer[Guard]

// Default returns the package default guard, building it on first use.
func Default() *Guard {
	if g := defaultGuard.Load(); g != nil {
		return g
	}
	defaultGuard.CompareAndSwap(nil, New())
	return defaultGuard.Load()
}

// SetDefault replaces the package default guard. A nil g restores a fresh
// default. Call it during initialization only, before transfers run
// concurrently.
func SetDefault(g *Guard) {
	if g == nil {
		g = New()
	}
	defaultGuard.Store(g)
}

// InstallConstraintHandler replaces the handler of the package default
// guard, keeping its limits and mode. A nil h restores the aborting handler.
// Call it during initialization only.
func InstallConstraintHandler(h apis.Handler) {
	SetDefault(Default().With(WithHandler(h)))
}
