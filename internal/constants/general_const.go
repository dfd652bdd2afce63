// Package constants provides shared constant values used throughout the application.
//
// The general_const.go file defines identifiers for the auth operations. They are
// used as log event names and as metric label values, so the two stay aligned.
package constants

// Auth operations.
const (
	// OpRegister identifies user registration.
	OpRegister = "register"

	// OpLogin identifies credential login.
	OpLogin = "login"

	// OpForgotPassword identifies a reset token request.
	OpForgotPassword = "forgot_password"

	// OpResetPassword identifies consumption of a reset token.
	OpResetPassword = "reset_password"

	// OpVerifyToken identifies session token verification.
	OpVerifyToken = "verify_token"
)

// Operation outcomes used as metric labels.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeError    = "error"
	OutcomeSkipped  = "skipped"
	OutcomeRejected = "rejected"
)
