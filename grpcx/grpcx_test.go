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

package grpcx

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	gstatus "google.golang.org/grpc/status"

	"dirpx.dev/safemem"
	"dirpx.dev/safemem/apis"
	"dirpx.dev/safemem/code"
	"dirpx.dev/safemem/handler"
	"dirpx.dev/safemem/mapper"
	"dirpx.dev/safemem/reason"
)

func spaceViolation(t *testing.T) *safemem.Violation {
	t.Helper()
	g := safemem.New(safemem.WithHandler(handler.Ignore()))
	err := g.Copy8(safemem.Slice(make([]byte, 4)), safemem.Slice(make([]byte, 8)), 8)
	var v *safemem.Violation
	require.True(t, errors.As(err, &v))
	return v
}

func TestStatus_CarriesErrorInfo(t *testing.T) {
	m := mapper.MustNew()
	v := spaceViolation(t)

	st := Status(m, v, Extras{CorrelationID: "req-1", Tags: map[string]string{"tenant": "a", KeyErrno: "bogus"}})

	assert.Equal(t, codes.OutOfRange, st.Code())
	assert.Equal(t, v.Message, st.Message())

	info, ok := ExtractInfo(st.Err())
	require.True(t, ok)
	assert.Equal(t, "INSUFFICIENT_SPACE", info.GetReason())
	assert.Equal(t, Domain, info.GetDomain())

	md := info.GetMetadata()
	assert.Equal(t, "-406", md[KeyErrno], "tags never replace built-in keys")
	assert.Equal(t, "dest.space", md[KeyReason])
	assert.Equal(t, "dest", md[KeySide])
	assert.Equal(t, "copy8", md[KeyOp])
	assert.Equal(t, "req-1", md[KeyCorrelationID])
	assert.Equal(t, "a", md["tenant"])
	assert.Equal(t, "4", md["dest.declared"])
	assert.Equal(t, "8", md["src.count"])
	assert.NotContains(t, md, KeyTraceID)
}

func TestUnaryServerInterceptor(t *testing.T) {
	m := mapper.MustNew()
	v := spaceViolation(t)
	meta := func(context.Context, *safemem.Violation) Extras { return Extras{TraceID: "t-9"} }
	ic := UnaryServerInterceptor(m, meta)

	t.Run("violation", func(t *testing.T) {
		_, err := ic(context.Background(), nil, &grpc.UnaryServerInfo{}, func(context.Context, any) (any, error) {
			return nil, fmt.Errorf("encode frame: %w", v)
		})
		st, ok := gstatus.FromError(err)
		require.True(t, ok)
		assert.Equal(t, codes.OutOfRange, st.Code())
		info, ok := ExtractInfo(err)
		require.True(t, ok)
		assert.Equal(t, "t-9", info.GetMetadata()[KeyTraceID])
	})

	t.Run("foreign error passes through", func(t *testing.T) {
		plain := errors.New("boom")
		_, err := ic(context.Background(), nil, &grpc.UnaryServerInfo{}, func(context.Context, any) (any, error) {
			return nil, plain
		})
		assert.Same(t, plain, err)
	})

	t.Run("success", func(t *testing.T) {
		resp, err := ic(context.Background(), nil, &grpc.UnaryServerInfo{}, func(context.Context, any) (any, error) {
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
	})
}

type fakeStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s fakeStream) Context() context.Context { return s.ctx }

func TestStreamServerInterceptor(t *testing.T) {
	ic := StreamServerInterceptor(mapper.MustNew(), nil)
	v := &safemem.Violation{Code: code.IllegalOverlap, Reason: reason.Overlap, Side: apis.SideDest, Message: "src overlaps dest"}

	err := ic(nil, fakeStream{ctx: context.Background()}, &grpc.StreamServerInfo{}, func(any, grpc.ServerStream) error {
		return v
	})
	assert.Equal(t, codes.FailedPrecondition, gstatus.Code(err))

	err = ic(nil, fakeStream{ctx: context.Background()}, &grpc.StreamServerInfo{}, func(any, grpc.ServerStream) error {
		return nil
	})
	assert.NoError(t, err)
}

func TestViolationFromError_RoundTrip(t *testing.T) {
	v := spaceViolation(t)
	err := Status(mapper.MustNew(), v, Extras{}).Err()

	got, ok := ViolationFromError(err)
	require.True(t, ok)
	assert.ErrorIs(t, got, safemem.ErrInsufficientSpace)
	assert.Equal(t, reason.DestSpace, got.Reason)
	assert.Equal(t, apis.SideDest, got.Side)
	assert.Equal(t, "copy8", got.Op)
	assert.Equal(t, v.Message, got.Message)
	assert.Equal(t, "4", got.Details["dest.declared"])
	assert.NotContains(t, got.Details, KeyErrno)
}

func TestExtractInfo_Misses(t *testing.T) {
	_, ok := ExtractInfo(nil)
	assert.False(t, ok)
	_, ok = ExtractInfo(errors.New("plain"))
	assert.False(t, ok)
	_, ok = ExtractInfo(gstatus.Error(codes.Internal, "no details"))
	assert.False(t, ok)
	_, ok = ViolationFromError(gstatus.Error(codes.Internal, "no details"))
	assert.False(t, ok)
}
