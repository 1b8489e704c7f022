package handler

import (
	"net/http"
	"time"

	"github.com/libraryhub/libraryhub-go/internal/middleware"
	"github.com/libraryhub/libraryhub-go/internal/model"
	"github.com/libraryhub/libraryhub-go/internal/response"
	"github.com/libraryhub/libraryhub-go/internal/service"
)

const resetRequestedMessage = "If the email exists, a reset link was sent"

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service      *service.AuthService
	tokens       *service.TokenService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler. cookieSecure marks the session cookie Secure.
func NewAuthHandler(svc *service.AuthService, tokens *service.TokenService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{service: svc, tokens: tokens, cookieSecure: cookieSecure}
}

// HandleRegister handles POST /api/auth/register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decode(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, http.StatusCreated, resp)
}

// HandleLogin handles POST /api/auth/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decode(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, resp)
}

// HandleAdminLogin handles POST /api/auth/admin/login requests.
func (h *AuthHandler) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decode(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	resp, err := h.service.AdminLogin(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, resp)
}

// HandleRefresh handles POST /api/auth/refresh-token requests.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req model.RefreshRequest
	if err := decode(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	resp, err := h.service.Refresh(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, resp)
}

// HandleLogout handles POST /api/auth/logout requests. It always succeeds.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var req model.RefreshRequest
	if err := decode(w, r, &req); err == nil {
		if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
			writeError(w, r, err)
			return
		}
	}

	http.SetCookie(w, h.sessionCookie("", -1))
	response.Message(w, http.StatusOK, "logged out")
}

// HandleForgotPassword handles POST /api/auth/forgot-password requests.
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ForgotPasswordRequest
	if err := decode(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	resp, err := h.service.ForgotPassword(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if resp == nil {
		response.Message(w, http.StatusOK, resetRequestedMessage)
		return
	}
	response.Write(w, http.StatusOK, response.Envelope{
		Status:  response.StatusSuccess,
		Data:    resp,
		Message: resetRequestedMessage,
	})
}

// HandleResetPassword handles POST /api/auth/reset-password requests.
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ResetPasswordRequest
	if err := decode(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := h.service.ResetPassword(r.Context(), req); err != nil {
		writeError(w, r, err)
		return
	}

	response.Message(w, http.StatusOK, "password updated")
}

// HandleBootstrapSession handles POST /api/auth/bootstrap-session requests.
// It copies a valid access token into an HttpOnly cookie for server-rendered pages.
func (h *AuthHandler) HandleBootstrapSession(w http.ResponseWriter, r *http.Request) {
	token := middleware.CredentialFromRequest(r)
	if token == "" {
		response.Error(w, http.StatusBadRequest, response.CodeValidation, "no token provided")
		return
	}
	if _, ok := h.tokens.VerifyAccessToken(token); !ok {
		response.Error(w, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token")
		return
	}

	http.SetCookie(w, h.sessionCookie(token, 0))
	response.Message(w, http.StatusOK, "session started")
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge < 0 {
		c.Expires = time.Unix(0, 0)
	}
	return c
}
