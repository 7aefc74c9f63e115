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

// Package httpx writes safemem violations as JSON HTTP responses.
package httpx

import (
	"errors"
	"net/http"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"dirpx.dev/safemem"
	"dirpx.dev/safemem/adapter"
	"dirpx.dev/safemem/apis"
	"dirpx.dev/safemem/handler"
)

// Meta carries request-scoped values written next to the violation. All
// fields are optional.
type Meta struct {
	Correlation string
	TraceID     string
}

// Writer turns violations into HTTP responses using the provided mapper.
type Writer struct {
	Mapper apis.Mapper
}

// Write serializes v as an apis.ErrorView and writes it with the status
// resolved by the mapper. A nil v writes nothing.
func (w Writer) Write(rw http.ResponseWriter, v *safemem.Violation, meta Meta) {
	if v == nil {
		return
	}
	st := w.Mapper.Status(v.Code, v.Reason)

	body, err := marshalView(adapter.ToView(v), meta)
	if err != nil {
		http.Error(rw, http.StatusText(st.HTTP), st.HTTP)
		return
	}

	rw.Header().Set("Content-Type", "application/json")
	if meta.Correlation != "" {
		rw.Header().Set("X-Correlation-ID", meta.Correlation)
	}
	rw.WriteHeader(st.HTTP)
	_, _ = rw.Write(body)
}

// WriteError writes err when it wraps a violation and reports whether it
// did. Other errors are left to the caller.
func (w Writer) WriteError(rw http.ResponseWriter, err error, meta Meta) bool {
	var v *safemem.Violation
	if !errors.As(err, &v) {
		return false
	}
	w.Write(rw, v, meta)
	return true
}

// Recover is middleware that turns a violation raised by the panicking
// handler (handler.Panic) into a response. Other panics propagate.
func (w Writer) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			raised, ok := rec.(*handler.RaisedError)
			if !ok {
				panic(rec)
			}
			w.Write(rw, safemem.NewViolation(raised.Report), Meta{Correlation: r.Header.Get("X-Correlation-ID")})
		}()
		next.ServeHTTP(rw, r)
	})
}

// marshalView renders the view through structpb so the output follows the
// protobuf JSON mapping used by the gRPC gateway.
func marshalView(v apis.ErrorView, meta Meta) ([]byte, error) {
	fields := map[string]any{
		"code":  v.Code,
		"errno": v.Errno,
	}
	setIf(fields, "reason", v.Reason)
	setIf(fields, "side", v.Side)
	setIf(fields, "op", v.Op)
	setIf(fields, "message", v.Message)
	setIf(fields, "correlation", meta.Correlation)
	setIf(fields, "traceId", meta.TraceID)

	if len(v.Details) > 0 {
		details := make([]any, 0, len(v.Details))
		for _, d := range v.Details {
			info := make(map[string]any, len(d.Info))
			for k, val := range d.Info {
				info[k] = val
			}
			entry := map[string]any{"type": d.Type, "field": d.Field, "info": info}
			setIf(entry, "reason", d.Reason)
			details = append(details, entry)
		}
		fields["details"] = details
	}

	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{EmitUnpopulated: false}.Marshal(s)
}

func setIf(m map[string]any, k, v string) {
	if v != "" {
		m[k] = v
	}
}
