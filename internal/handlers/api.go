// Package handlers exposes the Lotto Happy JSON API.
package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"lotto-happy/internal/backend"
	"lotto-happy/internal/metrics"
	"lotto-happy/internal/middleware"
	"lotto-happy/internal/models"
	"lotto-happy/internal/services"
)

// AccountBackend is the part of the backend that owns accounts.
type AccountBackend interface {
	Login(ctx context.Context, username, password string) (backend.Token, error)
	Register(ctx context.Context, in backend.RegisterRequest) (models.User, error)
	Me(ctx context.Context) (models.User, error)
}

type API struct {
	Accounts  AccountBackend
	Betting   *services.Betting
	Wallet    *services.Wallet
	Reseller  *services.Reseller
	Admin     *services.Admin
	Public    *services.Public
	Auth      *middleware.Authenticator
	AdminAuth *middleware.AdminAuth
	// Limiter is optional.
	Limiter *middleware.RateLimiter
	Log     *zap.Logger

	log *zap.Logger
}

// Router builds the chi router with every route mounted.
func (a *API) Router() http.Handler {
	a.log = a.Log
	if a.log == nil {
		a.log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(metrics.InstrumentHandler)

	r.Get("/health", a.health)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(a.Auth.Handler)
		if a.Limiter != nil {
			r.Use(a.Limiter.Handler)
		}

		r.Get("/operators", a.operators)
		r.Get("/bet-types", a.betTypes)
		r.Get("/mobile-money", a.mobileMoney)
		r.Get("/draws/upcoming", a.upcomingDraws)
		r.Get("/draws/{id}", a.getDraw)
		r.Get("/winners", a.winners)
		r.Post("/auth/login", a.login)
		r.Post("/auth/register", a.register)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole())
			r.Get("/me", a.me)
			r.Post("/bets/quote", a.quote)
			r.Post("/bets", a.placeBet)
			r.Get("/bets/quick-pick", a.quickPick)
			r.Get("/tickets/me", a.myTickets)
			r.Post("/wallet/convert", a.convert)
			r.Get("/wallet/transactions", a.transactions)
			r.Post("/withdrawals/validate", a.validateWithdrawal)
			r.Post("/withdrawals", a.requestWithdrawal)
			r.Get("/withdrawals/me", a.myWithdrawals)
		})

		r.Route("/reseller", func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleReseller))
			r.Get("/players", a.findPlayer)
			r.Post("/credit", a.creditPlayer)
			r.Get("/history", a.rechargeHistory)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(a.AdminAuth.Handler)
			r.Get("/draws", a.adminDraws)
			r.Post("/draws", a.createDraw)
			r.Put("/draws/{id}", a.updateDraw)
			r.Delete("/draws/{id}", a.deleteDraw)
			r.Put("/draws/{id}/results", a.publishResults)
			r.Get("/withdrawals", a.withdrawals)
			r.Put("/withdrawals/{id}/approve", a.approveWithdrawal)
			r.Put("/withdrawals/{id}/reject", a.rejectWithdrawal)
			r.Put("/users/{id}/status", a.setUserStatus)
			r.Get("/risk", a.risk)
			r.Get("/dashboard", a.dashboard)
			r.Post("/local/balances/{userID}", a.adjustLocalBalance)
		})
	})
	return r
}

func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
