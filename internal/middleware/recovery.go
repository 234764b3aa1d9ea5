// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recoverer turns a handler panic into a JSON 500 and a logged stack trace.
// When the handler had already started the response, the status can no
// longer change; the panic is logged and the connection aborted instead.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := wrap(w)

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			slog.Error("panic recovered",
				"error", fmt.Sprint(rec),
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", RequestIDFrom(r.Context()),
				"response_started", wrapped.written,
				"stack", string(debug.Stack()),
			)

			if wrapped.written {
				panic(http.ErrAbortHandler)
			}
			writeError(wrapped, http.StatusInternalServerError, "internal server error")
		}()

		next.ServeHTTP(wrapped, r)
	})
}
