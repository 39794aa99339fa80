package httpx

import (
	"net/http"
	"strings"
	"time"
)

// SessionCookies writes and clears the session carrier cookie with consistent
// attributes. The carrier is the session; the cookie jar is the only client
// state this system keeps.
type SessionCookies struct {
	Name   string
	Domain string
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// Set writes the carrier cookie, valid until expiresAt.
func (c SessionCookies) Set(w http.ResponseWriter, r *http.Request, carrier string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    carrier,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
	})
}

// Clear expires the carrier cookie immediately. It mirrors key attributes
// (Secure, Path, Domain, SameSite) used when setting cookies to maximize
// compatibility across browsers during deletion.
func (c SessionCookies) Clear(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// Read returns the raw carrier from the request, or "" when absent.
func (c SessionCookies) Read(r *http.Request) string {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
