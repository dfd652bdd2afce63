package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matrizrfm/auth-api/internal/mail"
)

// captureSender keeps every message instead of delivering it
type captureSender struct {
	mu   sync.Mutex
	sent []*mail.Message
}

func (c *captureSender) Name() string { return "capture" }

func (c *captureSender) Send(ctx context.Context, msg *mail.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

var resetLinkToken = regexp.MustCompile(`token=([0-9a-f]+)`)

func (c *captureSender) lastToken(t *testing.T) string {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.sent, "no email was sent")
	match := resetLinkToken.FindStringSubmatch(c.sent[len(c.sent)-1].Text)
	require.Len(t, match, 2, "reset link not found in email")
	return match[1]
}

// newRouteTestServer builds a memory-backed server whose outbound mail is captured
func newRouteTestServer(t *testing.T) (*Server, *captureSender) {
	t.Helper()
	s := newTestServer(t, createTestConfig())

	sender := &captureSender{}
	s.mailSender = sender
	s.setupServices()
	s.setupHandlers()
	s.SetupRoutes()

	return s, sender
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

func doRequest(t *testing.T, s *Server, method, path string, body interface{}, bearer string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rr := httptest.NewRecorder()
	s.GetRouter().ServeHTTP(rr, req)

	var resp apiResponse
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	}
	return rr, resp
}

func TestRoutes_AuthFlow(t *testing.T) {
	for _, base := range []string{"/auth", "/api/auth"} {
		t.Run(base, func(t *testing.T) {
			s, sender := newRouteTestServer(t)

			// Register
			rr, resp := doRequest(t, s, http.MethodPost, base+"/register", map[string]string{
				"name": "Ana Souza", "email": "Ana@Example.COM", "password": "s3cret",
			}, "")
			require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
			assert.True(t, resp.Success)
			assert.Equal(t, "User registered successfully", resp.Message)
			assert.NotEmpty(t, resp.Token)
			require.NotNil(t, resp.User)
			assert.Equal(t, "ana@example.com", resp.User.Email)
			assert.Equal(t, "Ana Souza", resp.User.Name)

			// Duplicate email
			rr, resp = doRequest(t, s, http.MethodPost, base+"/register", map[string]string{
				"name": "Other", "email": "ana@example.com", "password": "x",
			}, "")
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.False(t, resp.Success)
			assert.Equal(t, "Email already in use", resp.Message)

			// Login
			rr, resp = doRequest(t, s, http.MethodPost, base+"/login", map[string]string{
				"email": "ANA@example.com", "password": "s3cret",
			}, "")
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			assert.Equal(t, "Login successful", resp.Message)
			session := resp.Token
			assert.NotEmpty(t, session)

			// Wrong password
			rr, resp = doRequest(t, s, http.MethodPost, base+"/login", map[string]string{
				"email": "ana@example.com", "password": "wrong",
			}, "")
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, "Invalid credentials", resp.Message)

			// Verify with body and with bearer header
			rr, resp = doRequest(t, s, http.MethodPost, base+"/verify-token", map[string]string{"token": session}, "")
			assert.Equal(t, http.StatusOK, rr.Code)
			require.NotNil(t, resp.User)
			assert.Equal(t, "ana@example.com", resp.User.Email)

			rr, _ = doRequest(t, s, http.MethodPost, base+"/verify-token", nil, session)
			assert.Equal(t, http.StatusOK, rr.Code)

			rr, resp = doRequest(t, s, http.MethodPost, base+"/verify-token", nil, "")
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, "No token provided", resp.Message)

			rr, resp = doRequest(t, s, http.MethodPost, base+"/verify-token", map[string]string{"token": "garbage"}, "")
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, "Invalid token", resp.Message)

			// Current user
			rr, resp = doRequest(t, s, http.MethodGet, base+"/me", nil, session)
			assert.Equal(t, http.StatusOK, rr.Code)
			require.NotNil(t, resp.User)
			assert.Equal(t, "Ana Souza", resp.User.Name)

			rr, _ = doRequest(t, s, http.MethodGet, base+"/me", nil, "")
			assert.Equal(t, http.StatusUnauthorized, rr.Code)

			// Forgot password for an unknown email looks the same
			rr, resp = doRequest(t, s, http.MethodPost, base+"/forgot-password", map[string]string{"email": "nobody@example.com"}, "")
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "Password reset email sent", resp.Message)
			assert.Empty(t, sender.sent)

			// Forgot password, then reset with the mailed token
			rr, resp = doRequest(t, s, http.MethodPost, base+"/forgot-password", map[string]string{"email": "ana@example.com"}, "")
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "Password reset email sent", resp.Message)
			resetToken := sender.lastToken(t)

			rr, resp = doRequest(t, s, http.MethodPost, base+"/reset-password", map[string]string{
				"token": resetToken, "password": "n3w-secret",
			}, "")
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			assert.Equal(t, "Password reset successful", resp.Message)

			// Token is single use
			rr, resp = doRequest(t, s, http.MethodPost, base+"/reset-password", map[string]string{
				"token": resetToken, "password": "again",
			}, "")
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, "Invalid or expired token", resp.Message)

			// Old password no longer works, new one does
			rr, _ = doRequest(t, s, http.MethodPost, base+"/login", map[string]string{
				"email": "ana@example.com", "password": "s3cret",
			}, "")
			assert.Equal(t, http.StatusUnauthorized, rr.Code)

			rr, _ = doRequest(t, s, http.MethodPost, base+"/login", map[string]string{
				"email": "ana@example.com", "password": "n3w-secret",
			}, "")
			assert.Equal(t, http.StatusOK, rr.Code)
		})
	}
}

func TestRoutes_Validation(t *testing.T) {
	s, _ := newRouteTestServer(t)

	tests := []struct {
		name string
		path string
		body interface{}
	}{
		{"Register missing password", "/auth/register", map[string]string{"name": "A", "email": "a@example.com"}},
		{"Register blank name", "/auth/register", map[string]string{"name": "   ", "email": "a@example.com", "password": "x"}},
		{"Register bad email", "/auth/register", map[string]string{"name": "A", "email": "not-an-email", "password": "x"}},
		{"Login missing email", "/auth/login", map[string]string{"password": "x"}},
		{"Forgot missing email", "/auth/forgot-password", map[string]string{}},
		{"Reset missing token", "/auth/reset-password", map[string]string{"password": "x"}},
		{"Empty body", "/auth/login", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, resp := doRequest(t, s, http.MethodPost, tt.path, tt.body, "")

			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestRoutes_Infrastructure(t *testing.T) {
	s, _ := newRouteTestServer(t)

	t.Run("Health", func(t *testing.T) {
		rr := httptest.NewRecorder()
		s.GetRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"status":"healthy"`)
	})

	t.Run("Version", func(t *testing.T) {
		rr := httptest.NewRecorder()
		s.GetRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/version", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), s.Config.App.Version)
	})

	t.Run("Metrics", func(t *testing.T) {
		// Generate one labelled request first
		doRequest(t, s, http.MethodPost, "/auth/login", map[string]string{"email": "x@example.com", "password": "x"}, "")

		rr := httptest.NewRecorder()
		s.GetRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "authapi_http_requests_total")
		assert.Contains(t, rr.Body.String(), `route="/auth/login"`)
	})

	t.Run("Not found", func(t *testing.T) {
		rr, resp := doRequest(t, s, http.MethodGet, "/nope", nil, "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.False(t, resp.Success)
	})

	t.Run("Method not allowed", func(t *testing.T) {
		rr, resp := doRequest(t, s, http.MethodGet, "/auth/login", nil, "")
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
		assert.False(t, resp.Success)
	})

	t.Run("Request ID and security headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-ID", "req-123")
		rr := httptest.NewRecorder()
		s.GetRouter().ServeHTTP(rr, req)

		assert.Equal(t, "req-123", rr.Header().Get("X-Request-ID"))
		assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	})

	t.Run("CORS preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/auth/login", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rr := httptest.NewRecorder()
		s.GetRouter().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	})
}
