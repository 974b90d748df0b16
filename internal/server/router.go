// Package server wires the HTTP surface: router, middleware chain, and
// handlers.
package server

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"medrekk/internal/account"
	"medrekk/internal/auth"
	"medrekk/internal/patient"
	"medrekk/internal/security"
	"medrekk/internal/server/handler"
	"medrekk/internal/server/middleware"
	"medrekk/internal/tenant"
)

// Deps are the collaborators the router needs.
type Deps struct {
	Tokens   *security.TokenProvider
	Resolver *tenant.Resolver
	Auth     *auth.Service
	Accounts *account.Service
	Patients *patient.Service
	Members  handler.MemberLister
	Audit    AuditLogger
	DB       *sql.DB
}

// AuditLogger matches audit.AuditLogger; nil disables auditing.
type AuditLogger interface {
	LogEvent(ctx context.Context, accountID, memberID, action, resource, metadata string)
}

// NewRouter builds the chi router with the full middleware chain and all
// routes. Public routes: login, account registration, health. Everything else
// requires a verified Bearer token and a resolved tenant.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RealIP)

	authH := handler.NewAuthHandler(d.Auth)
	accountsH := handler.NewAccountsHandler(d.Accounts, d.Auth, d.Members)
	recordsH := handler.NewRecordsHandler(d.Patients)
	healthH := handler.NewHealthHandler(d.DB)

	r.Get("/healthz", healthH.Check)
	r.Post("/auth", authH.Login)
	r.Post("/accounts", accountsH.Create)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(d.Tokens, d.Resolver, d.Audit))

		r.Post("/auth/logout", authH.Logout)
		r.Get("/accounts/self", accountsH.Self)
		r.Route("/accounts/self/members", func(r chi.Router) {
			r.Post("/", accountsH.AddMember)
			r.Get("/", accountsH.ListMembers)
			r.Route("/{memberID}", func(r chi.Router) {
				r.Get("/", accountsH.GetMember)
				r.Put("/password", accountsH.UpdateMemberPassword)
				r.Delete("/", accountsH.DeactivateMember)
			})
		})

		r.Route("/records", func(r chi.Router) {
			r.Post("/", recordsH.Create)
			r.Get("/", recordsH.List)
			r.Route("/{recordID}", func(r chi.Router) {
				r.Get("/", recordsH.Get)
				r.Delete("/", recordsH.Delete)
				r.Post("/bloodpressures", recordsH.AddBloodPressure)
				r.Get("/bloodpressures", recordsH.ListBloodPressures)
				r.Post("/heartrates", recordsH.AddHeartRate)
				r.Get("/heartrates", recordsH.ListHeartRates)
				r.Post("/bodytemperatures", recordsH.AddBodyTemperature)
				r.Get("/bodytemperatures", recordsH.ListBodyTemperatures)
			})
		})
	})

	return r
}
