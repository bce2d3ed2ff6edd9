package handler

import (
	"net/http"

	"github.com/msomdec/skill-swap/internal/service"
)

// Services bundles the dependencies the HTTP layer needs.
type Services struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Swaps         *service.SwapService
	Notifications *service.NotificationService
	LoginLimiter  *service.LoginLimiter // Optional.
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, svc Services, cookieSecure bool) {
	authH := NewAuthHandler(svc.Auth, svc.LoginLimiter, cookieSecure)
	userH := NewUserHandler(svc.Users, svc.Swaps)
	swapH := NewSwapHandler(svc.Swaps)
	noteH := NewNotificationHandler(svc.Notifications)
	adminH := NewAdminHandler(svc.Users, svc.Swaps, svc.Notifications)

	authed := func(h http.HandlerFunc) http.Handler { return RequireAuth(svc.Auth, h) }
	optional := func(h http.HandlerFunc) http.Handler { return OptionalAuth(svc.Auth, h) }
	admin := func(h http.HandlerFunc) http.Handler { return RequireAdmin(svc.Auth, h) }

	mux.HandleFunc("GET /healthz", HandleHealthz)

	// Auth
	mux.HandleFunc("POST /api/auth/register", authH.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", authH.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", authH.HandleLogout)
	mux.Handle("GET /api/auth/me", authed(authH.HandleMe))

	// Directory and profile
	mux.Handle("GET /api/users", optional(userH.HandleBrowse))
	mux.Handle("GET /api/users/{id}", optional(userH.HandleGet))
	mux.HandleFunc("GET /api/skills", userH.HandleSkills)
	mux.Handle("PUT /api/profile", authed(userH.HandleUpdateProfile))
	mux.Handle("GET /api/dashboard", authed(userH.HandleDashboard))

	// Swaps
	mux.Handle("POST /api/swaps", authed(swapH.HandleCreate))
	mux.Handle("GET /api/swaps", authed(swapH.HandleList))
	mux.Handle("GET /api/swaps/{id}", authed(swapH.HandleGet))
	mux.Handle("POST /api/swaps/{id}/accept", authed(swapH.HandleAccept))
	mux.Handle("POST /api/swaps/{id}/reject", authed(swapH.HandleReject))
	mux.Handle("POST /api/swaps/{id}/cancel", authed(swapH.HandleCancel))
	mux.Handle("POST /api/swaps/{id}/complete", authed(swapH.HandleComplete))
	mux.Handle("DELETE /api/swaps/{id}", authed(swapH.HandleDelete))

	// Notifications
	mux.Handle("GET /api/notifications", authed(noteH.HandleList))
	mux.Handle("POST /api/notifications/read-all", authed(noteH.HandleMarkAllRead))
	mux.Handle("POST /api/notifications/{id}/read", authed(noteH.HandleMarkRead))
	mux.Handle("GET /notifications/badge", authed(noteH.HandleBadge))

	// Admin
	mux.Handle("GET /api/admin/stats", admin(adminH.HandleStats))
	mux.Handle("GET /api/admin/users", admin(adminH.HandleUsers))
	mux.Handle("POST /api/admin/users/{id}/ban", admin(adminH.HandleBan))
	mux.Handle("POST /api/admin/users/{id}/unban", admin(adminH.HandleUnban))
	mux.Handle("GET /api/admin/swaps", admin(adminH.HandleSwaps))
	mux.Handle("POST /api/admin/swaps/{id}/cancel", admin(swapH.HandleCancel))
	mux.Handle("POST /api/admin/messages", admin(adminH.HandleBroadcast))
}
