package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matrizrfm/auth-api/internal/auth"
	"github.com/matrizrfm/auth-api/internal/utils"
)

// RequestLogger logs finished requests. Client and server errors are always
// logged; successful requests only when logAll is set.
func RequestLogger(logAll bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if !logAll && status < http.StatusBadRequest {
				return
			}

			requestID, _ := auth.GetRequestID(r)
			utils.LogHTTPRequest(
				requestID,
				r.Method,
				r.URL.Path,
				r.RemoteAddr,
				r.UserAgent(),
				status,
				time.Since(start),
			)
		})
	}
}
