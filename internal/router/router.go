package router

import (
	"net/http"

	"github.com/inaiurai/commissionbot/internal/auth"
	"github.com/inaiurai/commissionbot/internal/dashboard"
	"github.com/inaiurai/commissionbot/internal/middleware"
)

// New returns an http.Handler that serves the admin API under /api/v1.
// Everything except login and /healthz requires an admin bearer token.
func New(authSvc auth.Service, authHandler *auth.Handler, dashHandler *dashboard.Handler) http.Handler {
	mux := http.NewServeMux()
	base := "/api/v1"
	requireAdmin := middleware.AdminAuth(authSvc)
	protect := func(h http.HandlerFunc) http.Handler { return requireAdmin(h) }

	mux.HandleFunc("POST "+base+"/auth/login", authHandler.Login)
	mux.HandleFunc("GET /healthz", dashHandler.Health)

	mux.Handle("GET "+base+"/wallets/{member_id}", protect(dashHandler.GetWallet))
	mux.Handle("GET "+base+"/wallets/{member_id}/entries", protect(dashHandler.ListEntries))
	mux.Handle("GET "+base+"/withdrawals", protect(dashHandler.ListWithdrawals))
	mux.Handle("POST "+base+"/withdrawals/{message_id}/resolve", protect(dashHandler.ResolveWithdrawal))
	mux.Handle("GET "+base+"/commissions", protect(dashHandler.ListCommissions))
	mux.Handle("POST "+base+"/tables/{name}/refresh", protect(dashHandler.RefreshTable))

	return mux
}
