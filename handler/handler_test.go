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
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"dirpx.dev/safemem/apis"
	"dirpx.dev/safemem/code"
	"dirpx.dev/safemem/reason"
)

func spaceReport() apis.Report {
	return apis.Report{
		Code:    code.InsufficientSpace,
		Reason:  reason.DestSpace,
		Side:    apis.SideDest,
		Op:      "copy32",
		Message: "element count exceeds dest capacity",
		Addr:    0x1000,
		Cleared: 8,
	}
}

func TestLog_WritesStructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := Log(zap.New(core))

	h.Handle(spaceReport())

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Contains(t, entry.Message, "element count exceeds dest capacity")

	fields := entry.ContextMap()
	assert.Equal(t, "insufficient_space", fields["code"])
	assert.EqualValues(t, -406, fields["errno"])
	assert.Equal(t, "dest.space", fields["reason"])
	assert.Equal(t, "dest", fields["side"])
	assert.Equal(t, "copy32", fields["op"])
	assert.EqualValues(t, 8, fields["cleared"])
}

func TestAbort_LogsThenExits(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	var exitCode = -1
	h := AbortWithExit(zap.New(core), func(c int) { exitCode = c })

	h.Handle(spaceReport())

	assert.Equal(t, 1, exitCode)
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "aborting")
}

func TestPanic_RaisesCodedError(t *testing.T) {
	defer func() {
		v := recover()
		require.NotNil(t, v)
		raised, ok := v.(*RaisedError)
		require.True(t, ok, "panic value %T", v)
		assert.Equal(t, code.InsufficientSpace, raised.ErrorCode())
		assert.Equal(t, reason.DestSpace, raised.ErrorReason())
		assert.Contains(t, raised.Error(), "copy32")
	}()
	Panic().Handle(spaceReport())
	t.Fatal("Panic handler returned")
}

func TestIgnore_DoesNothing(t *testing.T) {
	assert.NotPanics(t, func() { Ignore().Handle(spaceReport()) })
}

func TestChain_CallsInOrderAndSkipsNil(t *testing.T) {
	var order []string
	a := apis.HandlerFunc(func(apis.Report) { order = append(order, "a") })
	b := apis.HandlerFunc(func(apis.Report) { order = append(order, "b") })

	Chain(a, nil, b).Handle(spaceReport())

	assert.Equal(t, []string{"a", "b"}, order)
}

func TestRecorder_ConcurrentHandle(t *testing.T) {
	rec := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.Handle(spaceReport())
		}()
	}
	wg.Wait()

	assert.Equal(t, 16, rec.Len())
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, code.InsufficientSpace, last.Code)

	snapshot := rec.Reports()
	snapshot[0].Op = "mutated"
	assert.Equal(t, "copy32", rec.Reports()[0].Op)

	rec.Reset()
	_, ok = rec.Last()
	assert.False(t, ok)
}

func TestCounting_IncrementsAndForwards(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder()

	h, err := Counting(reg, "safemem", rec)
	require.NoError(t, err)

	h.Handle(spaceReport())
	h.Handle(spaceReport())

	// a second registration reuses the collector
	h2, err := Counting(reg, "safemem", nil)
	require.NoError(t, err)
	h2.Handle(spaceReport())

	n, err := testutil.GatherAndCount(reg, "safemem_violations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, rec.Len())

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, mfs, 1)
	require.Len(t, mfs[0].GetMetric(), 1)
	assert.Equal(t, 3.0, mfs[0].GetMetric()[0].GetCounter().GetValue())
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyAbort, false},
		{" LOG ", PolicyLog, false},
		{"ignore", PolicyIgnore, false},
		{"panic", PolicyPanic, false},
		{"retry", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	var p Policy
	require.NoError(t, p.UnmarshalText([]byte("log")))
	assert.Equal(t, PolicyLog, p)
}

func TestForPolicy(t *testing.T) {
	for _, p := range Policies() {
		h, err := ForPolicy(p, zap.NewNop())
		require.NoError(t, err)
		assert.NotNil(t, h)
	}
	_, err := ForPolicy("bogus", nil)
	assert.Error(t, err)
}
