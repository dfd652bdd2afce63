package handlers

import (
	"net/http"

	"github.com/matrizrfm/auth-api/internal/auth"
	"github.com/matrizrfm/auth-api/internal/constants"
	"github.com/matrizrfm/auth-api/internal/models"
	"github.com/matrizrfm/auth-api/internal/utils"
)

// AuthResponse is the body returned by every successful auth endpoint.
// Fields that do not apply to an endpoint are omitted.
type AuthResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Token   string              `json:"token,omitempty"`
	User    *models.UserSummary `json:"user,omitempty"`
}

// AuthHandler handles authentication-related routes
type AuthHandler struct {
	authService AuthServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService AuthServiceInterface) *AuthHandler {
	if authService == nil {
		panic("authService cannot be nil")
	}
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	session, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusCreated, sessionResponse(session, constants.MsgRegistered))
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, sessionResponse(session, constants.MsgLoggedIn))
}

// ForgotPassword starts the password reset flow.
// The response is the same whether or not the email is registered.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.Message(w, http.StatusOK, constants.MsgResetEmailSent)
}

// ResetPassword sets a new password using a reset token
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.Message(w, http.StatusOK, constants.MsgPasswordReset)
}

// VerifyToken checks a session token. The token is read from the body,
// falling back to the Authorization header when the body has none.
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyTokenRequest
	if r.ContentLength != 0 {
		if err := utils.DecodeAndValidate(r, &req); err != nil {
			utils.ErrorFromAppError(w, utils.ParseError(err))
			return
		}
	}

	token := req.Token
	if token == "" {
		token = auth.BearerToken(r)
	}

	user, err := h.authService.Verify(r.Context(), token)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, AuthResponse{Success: true, User: user})
}

// Me returns the user behind the session on the request
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	user, err := h.authService.CurrentUser(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, AuthResponse{Success: true, User: user})
}

func sessionResponse(session *models.Session, message string) AuthResponse {
	user := session.User
	return AuthResponse{
		Success: true,
		Message: message,
		Token:   session.Token,
		User:    &user,
	}
}
