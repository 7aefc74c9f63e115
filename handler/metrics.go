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
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"dirpx.dev/safemem/apis"
)

// Counting wraps next with a Prometheus counter of violations labelled by
// code, side and op. The counter is named "<namespace>_violations_total"
// and registered with reg (prometheus.DefaultRegisterer when nil). A counter
// already registered under the same name is reused.
func Counting(reg prometheus.Registerer, namespace string, next apis.Handler) (apis.Handler, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "violations_total",
		Help:      "Bounds-checked transfer violations by code, side and op",
	}, []string{"code", "side", "op"})

	if err := reg.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		vec = existing
	}

	return apis.HandlerFunc(func(r apis.Report) {
		vec.WithLabelValues(r.Code.String(), r.Side.String(), r.Op).Inc()
		if next != nil {
			next.Handle(r)
		}
	}), nil
}
