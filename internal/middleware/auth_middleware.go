// Package middleware provides HTTP middleware components.
package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matrizrfm/auth-api/internal/auth"
	"github.com/matrizrfm/auth-api/internal/constants"
)

// JWTAuth rejects requests without a valid bearer session token and puts
// the authenticated user id in the request context
func JWTAuth(validator auth.TokenValidator) func(http.Handler) http.Handler {
	return auth.RequireAuth(auth.NewJWTAuthProvider(validator))
}

// RequestID copies the id assigned by chi's RequestID middleware into the
// auth context key and echoes it in the response headers
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := chimiddleware.GetReqID(r.Context())
			if requestID == "" {
				requestID = r.Header.Get(constants.HeaderXRequestID)
			}
			if requestID != "" {
				w.Header().Set(constants.HeaderXRequestID, requestID)
				r = r.WithContext(auth.WithRequestID(r.Context(), requestID))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders adds security-related HTTP headers to responses
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(constants.HeaderXContentTypeOptions, constants.ContentTypeOptionsNoSniff)
			w.Header().Set(constants.HeaderXFrameOptions, constants.FrameOptionsDeny)
			w.Header().Set(constants.HeaderXXSSProtection, constants.XSSProtectionModeBlock)
			w.Header().Set(constants.HeaderReferrerPolicy, constants.ReferrerPolicyStrictOrigin)
			w.Header().Set(constants.HeaderContentSecurityPolicy, constants.CSPDefaultSrc)
			w.Header().Set(constants.HeaderCacheControl, constants.CacheControlNoStore)

			next.ServeHTTP(w, r)
		})
	}
}
