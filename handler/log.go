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
	"os"
	"sync"

	"go.uber.org/zap"

	"dirpx.dev/safemem/apis"
)

// Fields renders a report as structured zap fields.
func Fields(r apis.Report) []zap.Field {
	return []zap.Field{
		zap.String("code", r.Code.String()),
		zap.Int("errno", r.Code.Errno()),
		zap.String("reason", r.Reason.String()),
		zap.Stringer("side", r.Side),
		zap.String("op", r.Op),
		zap.Uintptr("addr", r.Addr),
		zap.Uint64("cleared", uint64(r.Cleared)),
	}
}

// Log returns a handler that logs every violation at error level and
// returns. A nil logger uses a production logger writing to stderr.
func Log(log *zap.Logger) apis.Handler {
	log = orFallback(log)
	return apis.HandlerFunc(func(r apis.Report) {
		log.Error("safemem: constraint violation: "+r.Message, Fields(r)...)
	})
}

// Abort returns a handler that logs the violation, flushes the logger and
// terminates the process with exit status 1. A nil logger uses a production
// logger writing to stderr.
func Abort(log *zap.Logger) apis.Handler {
	return AbortWithExit(log, os.Exit)
}

// AbortWithExit is Abort with a replaceable exit function.
func AbortWithExit(log *zap.Logger, exit func(code int)) apis.Handler {
	log = orFallback(log)
	if exit == nil {
		exit = os.Exit
	}
	return apis.HandlerFunc(func(r apis.Report) {
		log.Error("safemem: aborting on constraint violation: "+r.Message, Fields(r)...)
		_ = log.Sync()
		exit(1)
	})
}

var (
	fallbackOnce sync.Once
	fallback     *zap.Logger
)

func orFallback(log *zap.Logger) *zap.Logger {
	if log != nil {
		return log
	}
	fallbackOnce.Do(func() {
		l, err := zap.NewProduction()
		if err != nil {
			l = zap.NewNop()
		}
		fallback = l.Named("safemem")
	})
	return fallback
}
