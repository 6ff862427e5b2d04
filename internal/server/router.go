// Package server assembles the HTTP router from the service handlers.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/analytics"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/auth"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/hr"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/jobs"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/labor"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/logging"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/middleware"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/models"
)

// Deps is everything the router needs. Nil Log discards.
type Deps struct {
	Users    auth.UserStore
	Catalog  jobs.CatalogStore
	Sessions auth.SessionStore
	Cookies  *auth.CookieSigner
	Tokens   *auth.TokenIssuer
	Engine   *analytics.Engine
	Labor    *labor.Service

	// Dataset is served verbatim at /data/jobs.csv.
	Dataset     []byte
	CORSOrigins []string
	Log         *slog.Logger
}

func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = logging.Discard()
	}

	authHandler := auth.NewHandler(d.Users, d.Sessions, d.Cookies, d.Tokens, log)
	jobsHandler := jobs.NewHandler(d.Catalog, d.Engine, log)
	hrHandler := hr.NewHandler(d.Engine, log)
	laborHandler := labor.NewHandler(d.Labor)
	gate := middleware.NewGate(d.Tokens, log)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(log))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/data/jobs.csv", func(w http.ResponseWriter, req *http.Request) {
		if len(d.Dataset) == 0 {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Write(d.Dataset)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.With(gate.WithInvalidStatus(http.StatusUnauthorized).Authenticate).Get("/user", authHandler.Me)
		r.With(middleware.RequireSession(d.Sessions, d.Cookies)).Get("/session", authHandler.Session)

		jobsHandler.Routes(r)
		r.Route("/analytics", jobsHandler.DashboardRoutes)

		r.Route("/hr", func(r chi.Router) {
			r.Use(gate.Authenticate)
			r.Use(gate.RequireRole(models.RoleHR))
			hrHandler.Routes(r)
		})

		r.Route("/bls", laborHandler.BLSRoutes)
		r.Route("/onet", laborHandler.ONetRoutes)
	})

	return r
}
