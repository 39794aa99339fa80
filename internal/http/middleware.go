package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	domainauth "github.com/corderos/corderos-go/internal/domain/auth"
	"github.com/corderos/corderos-go/internal/service"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionValidator validates an inbound carrier, applying sliding renewal.
type SessionValidator interface {
	Validate(carrier string) service.ValidateResult
}

// resolveSession validates the request's carrier cookie. When the carrier is
// missing, tampered with, or expired the cookie is cleared so clients stop
// resending a dead carrier; when sliding renewal produced a replacement, the
// fresh carrier is written back before the handler runs.
func resolveSession(w http.ResponseWriter, r *http.Request, v SessionValidator, cookies SessionCookies) *domainauth.Session {
	carrier := cookies.Read(r)
	if carrier == "" {
		return nil
	}

	res := v.Validate(carrier)
	if !res.Present {
		cookies.Clear(w, r)
		return nil
	}

	if res.RefreshedCarrier != "" {
		cookies.Set(w, r, res.RefreshedCarrier, res.Session.ExpiresAt)
	}
	return &res.Session
}

// RequireUser returns a middleware that requires a valid session.
// Anonymous requests receive a 401 Unauthorized response.
func RequireUser(v SessionValidator, cookies SessionCookies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := resolveSession(w, r, v, cookies)
			if session == nil {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}

			ctx := SetSessionInContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns a middleware that requires an admin session. A valid
// session with a standard role gets 403, never 401: the caller is known, just
// not allowed.
func RequireAdmin(v SessionValidator, cookies SessionCookies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := resolveSession(w, r, v, cookies)
			if session == nil {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}

			if !session.IsAdmin() {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "admin_required",
					Err:     errors.New("admin privileges required"),
				})
				return
			}

			ctx := SetSessionInContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalUser returns a middleware that attaches the session when one is
// present and lets anonymous requests through untouched.
func OptionalUser(v SessionValidator, cookies SessionCookies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session := resolveSession(w, r, v, cookies); session != nil {
				r = r.WithContext(SetSessionInContext(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}
