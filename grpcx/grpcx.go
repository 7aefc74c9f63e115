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

// Package grpcx maps safemem violations onto gRPC statuses.
//
// A violation travels as a status whose code comes from an apis.Mapper and
// whose details carry a google.rpc.ErrorInfo. The ErrorInfo reason is the
// upper-case violation name, the domain is Domain, and the metadata holds
// the errno, the failing check, the side, the primitive and the sizes that
// were compared.
package grpcx

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	gstatus "google.golang.org/grpc/status"

	"dirpx.dev/safemem"
	"dirpx.dev/safemem/apis"
	"dirpx.dev/safemem/code"
	"dirpx.dev/safemem/reason"
)

// Domain is the ErrorInfo domain of every violation.
const Domain = "safemem.dirpx.dev"

// Metadata keys written into ErrorInfo.
const (
	KeyErrno         = "errno"
	KeyReason        = "reason"
	KeySide          = "side"
	KeyOp            = "op"
	KeyCorrelationID = "correlation_id"
	KeyTraceID       = "trace_id"
)

// Extras carries request-scoped metadata added next to the violation.
// All fields are optional.
type Extras struct {
	CorrelationID string
	TraceID       string
	// Tags are copied into ErrorInfo metadata as-is; they never replace the
	// keys above.
	Tags map[string]string
}

// MetaFn extracts Extras from the request context and the violation.
type MetaFn func(ctx context.Context, v *safemem.Violation) Extras

// Status builds the gRPC status for v. The status code is resolved by m
// and the message is v.Message.
func Status(m apis.Mapper, v *safemem.Violation, ex Extras) *gstatus.Status {
	st := m.Status(v.Code, v.Reason)
	base := gstatus.New(st.GRPC, v.Message)

	info := &errdetails.ErrorInfo{
		Reason:   strings.ToUpper(v.Code.String()),
		Domain:   Domain,
		Metadata: metadata(v, ex),
	}
	with, err := base.WithDetails(info)
	if err != nil {
		return base
	}
	return with
}

func metadata(v *safemem.Violation, ex Extras) map[string]string {
	md := make(map[string]string, 6+len(v.Details)+len(ex.Tags))
	for k, val := range ex.Tags {
		md[k] = val
	}
	for _, d := range v.ErrorDetails() {
		md[d.Field] = d.Info["value"]
	}
	md[KeyErrno] = strconv.Itoa(v.Errno())
	md[KeyReason] = v.Reason.String()
	md[KeySide] = v.Side.String()
	if v.Op != "" {
		md[KeyOp] = v.Op
	}
	if ex.CorrelationID != "" {
		md[KeyCorrelationID] = ex.CorrelationID
	}
	if ex.TraceID != "" {
		md[KeyTraceID] = ex.TraceID
	}
	return md
}

// Convert returns the gRPC form of err when err wraps a violation, and err
// unchanged otherwise.
func Convert(ctx context.Context, m apis.Mapper, metaFn MetaFn, err error) error {
	var v *safemem.Violation
	if !errors.As(err, &v) {
		return err
	}
	var ex Extras
	if metaFn != nil {
		ex = metaFn(ctx, v)
	}
	return Status(m, v, ex).Err()
}

// UnaryServerInterceptor returns an interceptor that converts violations
// returned by handlers into gRPC statuses. Other errors pass through.
func UnaryServerInterceptor(m apis.Mapper, metaFn MetaFn) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		return nil, Convert(ctx, m, metaFn, err)
	}
}

// StreamServerInterceptor is the streaming counterpart of
// UnaryServerInterceptor.
func StreamServerInterceptor(m apis.Mapper, metaFn MetaFn) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if err := handler(srv, ss); err != nil {
			return Convert(ss.Context(), m, metaFn, err)
		}
		return nil
	}
}

// ExtractInfo pulls the safemem ErrorInfo out of a gRPC error, if present.
func ExtractInfo(err error) (*errdetails.ErrorInfo, bool) {
	if err == nil {
		return nil, false
	}
	st, ok := gstatus.FromError(err)
	if !ok {
		return nil, false
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == Domain {
			return info, true
		}
	}
	return nil, false
}

// ViolationFromError rebuilds a violation on the client side of a call.
// Addresses and sizes are not transported back into the typed fields; the
// metadata is kept in Details.
func ViolationFromError(err error) (*safemem.Violation, bool) {
	info, ok := ExtractInfo(err)
	if !ok {
		return nil, false
	}
	md := info.GetMetadata()
	n, convErr := strconv.Atoi(md[KeyErrno])
	if convErr != nil {
		return nil, false
	}
	c, ok := code.FromErrno(n)
	if !ok {
		return nil, false
	}
	st, _ := gstatus.FromError(err)

	v := &safemem.Violation{
		Code:    c,
		Reason:  reason.Reason(md[KeyReason]),
		Side:    apis.ParseSide(md[KeySide]),
		Op:      md[KeyOp],
		Message: st.Message(),
	}
	details := make(map[string]any, len(md))
	for k, val := range md {
		switch k {
		case KeyErrno, KeyReason, KeySide, KeyOp:
			continue
		}
		details[k] = val
	}
	return v.WithDetails(details), true
}
