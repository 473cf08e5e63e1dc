// Package web is the caseworker-facing HTTP adapter. It renders server-side
// pages and turns form posts into calls on the primary ports.
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/example/backoffice/internal/core/claim"
	"github.com/example/backoffice/internal/core/permission"
	"github.com/example/backoffice/internal/ports/primary"
)

// Services are the primary ports the web adapter drives.
type Services struct {
	Claims     primary.ClaimService
	Agreements primary.AgreementService
	Flags      primary.FlagService
	Support    primary.SupportService
	Auth       primary.AuthService
	Guard      primary.SubmissionGuard
}

// CookieOptions configures the signed session cookie.
type CookieOptions struct {
	Name     string
	Password string
	Secure   bool
	TTL      time.Duration
}

// Options configures the server.
type Options struct {
	Cookie CookieOptions
	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
	// AuthToggle shows the sign-in strategy switch to administrators.
	AuthToggle bool
	// NewToken issues the per-render submission token.
	NewToken func() string
	Logger   *slog.Logger
}

// Server holds the wired handlers.
type Server struct {
	services   Services
	cookie     *sessionCookie
	pages      *renderer
	metrics    http.Handler
	authToggle bool
	newToken   func() string
	logger     *slog.Logger
}

// NewServer validates the options and parses the templates.
func NewServer(services Services, opts Options) (*Server, error) {
	if services.Claims == nil || services.Agreements == nil || services.Flags == nil ||
		services.Support == nil || services.Auth == nil || services.Guard == nil {
		return nil, errors.New("web: all services are required")
	}

	cookie, err := newSessionCookie(opts.Cookie)
	if err != nil {
		return nil, err
	}

	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	newToken := opts.NewToken
	if newToken == nil {
		newToken = uuid.NewString
	}

	return &Server{
		services:   services,
		cookie:     cookie,
		pages:      pages,
		metrics:    opts.Metrics,
		authToggle: opts.AuthToggle,
		newToken:   newToken,
		logger:     logger,
	}, nil
}

// transitionRoute binds a workflow action to its form endpoint.
type transitionRoute struct {
	path   string
	action claim.Action
	scope  permission.Scope
	entity string
	label  string
}

var transitionRoutes = []transitionRoute{
	{"/recommend-to-pay", claim.ActionRecommendToPay, permission.RecommendScope, primary.EntityClaim, "Recommend to pay"},
	{"/recommend-to-reject", claim.ActionRecommendToReject, permission.RecommendScope, primary.EntityClaim, "Recommend to reject"},
	{"/approve-application-claim", claim.ActionApprove, permission.AuthoriseScope, primary.EntityClaim, "Approve"},
	{"/reject-application-claim", claim.ActionReject, permission.AuthoriseScope, primary.EntityClaim, "Reject"},
	{"/move-to-in-check", claim.ActionMoveToInCheck, permission.MoveToCheckScope, primary.EntityClaim, "Move to in check"},
	{"/withdraw-agreement", claim.ActionWithdraw, permission.AuthoriseScope, primary.EntityAgreement, "Withdraw"},
	{"/update-status", claim.ActionUpdateStatus, permission.AdminScope, primary.EntityClaim, "Update status"},
}

func routeFor(action claim.Action) (transitionRoute, bool) {
	for _, r := range transitionRoutes {
		if r.action == action {
			return r, true
		}
	}
	return transitionRoute{}, false
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(s.recoverer)
	r.Use(middleware.NoCache)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Get("/login", s.handleLogin)
	r.Get("/authenticate", s.handleAuthenticate)
	r.Get("/dev-auth", s.handleDevAuth)
	r.Get("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/claims", http.StatusFound)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireScope(permission.ViewScope))
			r.Get("/claims", s.handleListClaims)
			r.Get("/agreements", s.handleListAgreements)
			r.Get("/view-claim/{reference}", s.handleViewClaim)
			r.Get("/view-agreement/{reference}", s.handleViewAgreement)
			r.Get("/flags", s.handleListFlags)
		})

		for _, route := range transitionRoutes {
			r.With(s.requireScope(route.scope), s.guardSubmission).Post(route.path, s.handleTransition(route))
		}

		r.Group(func(r chi.Router) {
			r.Use(s.requireScope(permission.AdminScope))
			r.Post("/update-vets-name", s.handleDataUpdate(claim.FieldVetsName))
			r.Post("/update-vet-rcvs-number", s.handleDataUpdate(claim.FieldVetRCVSNumber))
			r.Post("/update-date-of-visit", s.handleDataUpdate(claim.FieldDateOfVisit))
			r.Post("/agreements/{reference}/eligible-pii-redaction", s.handleEligiblePiiRedaction)
			r.Post("/flags", s.handleCreateFlag)
			r.Post("/flags/delete", s.handleDeleteFlag)
			r.Post("/flags/{id}/delete", s.handleDeleteFlag)
			r.Post("/auth-mode", s.handleAuthMode)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireScope(permission.SupportScope))
			r.Get("/support", s.handleSupport)
			r.Post("/support", s.handleSupportSearch)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, r, http.StatusNotFound, "Page not found")
	})

	return r
}
