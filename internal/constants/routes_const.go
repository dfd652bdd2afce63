package constants

// Base Routes
const (
	APIBasePath = "/api"
	HealthPath  = "/health"
	VersionPath = "/version"
)

// Authentication Routes, relative to an auth mount point.
const (
	AuthRegisterRoute       = "/register"
	AuthLoginRoute          = "/login"
	AuthForgotPasswordRoute = "/forgot-password"
	AuthResetPasswordRoute  = "/reset-password"
	AuthVerifyTokenRoute    = "/verify-token"
	AuthMeRoute             = "/me"
)

// Auth mount points. The web client calls /auth directly; the API gateway
// forwards /api/auth.
const (
	AuthBasePath       = "/auth"
	APIAuthBasePath    = "/api/auth"
	QueryParamResetKey = "token"
)
