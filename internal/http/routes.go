package httpx

import (
	"log/slog"
	"net/http"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth    AuthServiceInterface
	Stats   StatsServiceInterface // nil disables the tracker routes
	Cookies SessionCookies
	Logger  *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{Svc: services.Auth, Cookies: services.Cookies, Logger: logger}
	registerAuthRoutes(mux, authHandlers)

	if services.Stats != nil {
		statsHandlers := &StatsHandlers{Svc: services.Stats, Logger: logger}
		registerStatsRoutes(mux, statsHandlers, services.Auth, services.Cookies)
	}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return mux
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/session", h.Session)
}

// registerStatsRoutes wires the tracker behind the session guards: the boards
// live on the authenticated landing surface, and busting the cache is an
// admin-only operation.
func registerStatsRoutes(mux *http.ServeMux, h *StatsHandlers, auth SessionValidator, cookies SessionCookies) {
	user := RequireUser(auth, cookies)
	admin := RequireAdmin(auth, cookies)
	mux.Handle("GET /nba/tracker", user(http.HandlerFunc(h.Tracker)))
	mux.Handle("POST /nba/refresh", admin(http.HandlerFunc(h.Refresh)))
}
