package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/matrizrfm/auth-api/internal/auth"
	"github.com/matrizrfm/auth-api/internal/constants"
	"github.com/matrizrfm/auth-api/internal/utils"
)

// Recovery is a middleware that recovers from panics and returns a 500 Internal Server Error
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					requestID, _ := auth.GetRequestID(r)
					userID := ""
					if id, ok := auth.GetUserID(r); ok {
						userID = utils.FormatInt64(id)
					}

					logger := utils.RequestLogger(requestID, userID, r.Method, r.URL.Path)
					logger.Error().
						Interface("panic", err).
						Str("stack", string(debug.Stack())).
						Str("remote_addr", r.RemoteAddr).
						Msg("Panic recovered in request handler")

					utils.Error(
						w,
						http.StatusInternalServerError,
						constants.CodeInternalError,
						constants.MsgInternalServerError,
						nil,
					)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// LogAndContinueOnError logs an error but allows execution to continue
// This is useful for non-critical errors that should be logged but not cause a panic
func LogAndContinueOnError(err error, message string) {
	if err != nil {
		log.Error().Err(err).Msg(message)
	}
}
