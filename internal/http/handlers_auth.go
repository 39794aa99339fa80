package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/corderos/corderos-go/internal/domain/auth"
	apperrors "github.com/corderos/corderos-go/internal/errors"
	"github.com/corderos/corderos-go/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Login(ctx context.Context, creds domainauth.Credentials) (*service.LoginResult, error)
	Validate(carrier string) service.ValidateResult
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc     AuthServiceInterface
	Cookies SessionCookies
	Logger  *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// loginRequest is the JSON login payload. The password never appears in logs
// or responses.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles credential submission.
// POST /auth/login — accepts a JSON body or a classic form post.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.readCredentials(w, r)
	if !ok {
		return
	}

	result, err := h.Svc.Login(r.Context(), creds)
	if err != nil {
		if apperrors.IsInvalidCredentials(err) {
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "invalid_credentials",
				Err:     errors.New("invalid credentials"),
			})
			return
		}
		h.logger().ErrorContext(r.Context(), "login failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     errors.New("login failed"),
		})
		return
	}

	h.Cookies.Set(w, r, result.Carrier, result.Session.ExpiresAt)
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"username":   result.Session.Subject,
		"role":       result.Session.Role,
		"expires_at": result.Session.ExpiresAt,
	})
}

func (h *AuthHandlers) readCredentials(w http.ResponseWriter, r *http.Request) (domainauth.Credentials, bool) {
	var creds domainauth.Credentials

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req loginRequest
		if !DecodeJSON(w, r, &req) {
			return creds, false
		}
		creds = domainauth.Credentials{Username: req.Username, Password: req.Password}
	} else {
		if err := r.ParseForm(); err != nil {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
			return creds, false
		}
		creds = domainauth.Credentials{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}
	}

	if creds.Username == "" || creds.Password == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation",
			Err:     errors.New("username and password are required"),
		})
		return creds, false
	}
	return creds, true
}

// Logout clears the session cookie.
// POST /auth/logout — idempotent: logging out without a session is still a 200.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.Cookies.Clear(w, r)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// Session reports the current authentication state.
// GET /auth/session.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	session := resolveSession(w, r, h.Svc, h.Cookies)
	if session == nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"username": session.Subject,
			"role":     session.Role,
		},
		"expires_at": session.ExpiresAt,
	})
}
