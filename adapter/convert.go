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

// Package adapter converts violations into the portable shapes in apis.
package adapter

import (
	"dirpx.dev/safemem"
	"dirpx.dev/safemem/apis"
)

// ToDescriptor flattens v together with its resolved transport statuses.
// Intended for structured logging and message bus propagation.
func ToDescriptor(v *safemem.Violation, st apis.Status) apis.ErrorDescriptor {
	if v == nil {
		return apis.ErrorDescriptor{}
	}
	return apis.ErrorDescriptor{
		Code:       v.Code.String(),
		Errno:      v.Errno(),
		Reason:     v.Reason.String(),
		HTTPStatus: st.HTTP,
		GRPCCode:   int(st.GRPC),
		Message:    v.Message,
	}
}

// ToView converts v into the public ErrorView. Addresses are dropped;
// details are copied as-is.
func ToView(v *safemem.Violation) apis.ErrorView {
	if v == nil {
		return apis.ErrorView{}
	}
	view := apis.ErrorView{
		Code:    v.Code.String(),
		Errno:   v.Errno(),
		Reason:  v.Reason.String(),
		Side:    v.Side.String(),
		Op:      v.Op,
		Message: v.Message,
	}
	if ds := v.ErrorDetails(); len(ds) > 0 {
		view.Details = ds
	}
	return view
}
