package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/libraryhub/libraryhub-go/internal/middleware"
	"github.com/libraryhub/libraryhub-go/internal/response"
	"github.com/libraryhub/libraryhub-go/internal/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps wires the services behind the router.
type Deps struct {
	Store   Pinger
	Auth    *service.AuthService
	Tokens  *service.TokenService
	Catalog *service.CatalogService
	Ledger  *service.LedgerService
	Users   *service.UserService

	CookieSecure bool
	// AuthRateRPS and AuthRateBurst limit the credential endpoints per client IP.
	AuthRateRPS   float64
	AuthRateBurst int
}

// NewRouter builds the HTTP API mounted under /api.
func NewRouter(d Deps) http.Handler {
	authHandler := NewAuthHandler(d.Auth, d.Tokens, d.CookieSecure)
	bookHandler := NewBookHandler(d.Catalog)
	borrowingHandler := NewBorrowingHandler(d.Ledger)
	userHandler := NewUserHandler(d.Users)

	authenticate := middleware.Authenticate(d.Tokens)
	requireAdmin := middleware.RequireAdmin(d.Users)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler(d.Store))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(d.AuthRateRPS, d.AuthRateBurst))
			r.Post("/auth/register", authHandler.HandleRegister)
			r.Post("/auth/login", authHandler.HandleLogin)
			r.Post("/auth/admin/login", authHandler.HandleAdminLogin)
			r.Post("/auth/refresh-token", authHandler.HandleRefresh)
			r.Post("/auth/forgot-password", authHandler.HandleForgotPassword)
			r.Post("/auth/reset-password", authHandler.HandleResetPassword)
		})
		r.Post("/auth/logout", authHandler.HandleLogout)
		r.Post("/auth/bootstrap-session", authHandler.HandleBootstrapSession)

		r.With(middleware.OptionalAuth(d.Tokens)).Get("/books", bookHandler.HandleList)
		r.With(middleware.OptionalAuth(d.Tokens)).Get("/books/{id}", bookHandler.HandleGet)
		r.Get("/categories", bookHandler.HandleCategories)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/borrow", borrowingHandler.HandleBorrow)
			r.Post("/return-book", borrowingHandler.HandleReturn)
			r.Get("/users/{id}/borrowings", borrowingHandler.HandleUserBorrowings)

			r.Get("/users/stats", userHandler.HandleStats)
			r.Get("/users/profile", userHandler.HandleProfile)
			r.Put("/users/profile", userHandler.HandleUpdateProfile)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Post("/books", bookHandler.HandleCreate)
				r.Put("/books/{id}", bookHandler.HandleUpdate)
				r.Delete("/books/{id}", bookHandler.HandleDelete)
				r.Put("/admin/users/{id}", userHandler.HandleAdminUpdate)
			})
		})
	})

	return r
}

func healthHandler(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			response.Error(w, http.StatusServiceUnavailable, response.CodeUnavailable, "store unavailable")
			return
		}
		response.Success(w, http.StatusOK, map[string]string{"store": "ok"})
	}
}
