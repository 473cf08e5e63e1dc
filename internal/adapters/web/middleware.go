package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/example/backoffice/internal/core/permission"
	"github.com/example/backoffice/internal/ctxutil"
	"github.com/example/backoffice/internal/ports/primary"
)

type loggerKey struct{}

const requestIDHeader = "X-Request-Id"

// requestID tags the request with an id and a logger carrying it.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := withLogger(r.Context(), s.logger.With("request_id", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func withLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func (s *Server) log(r *http.Request) *slog.Logger {
	if logger, ok := r.Context().Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return s.logger
}

// logRequests writes one line per request once the response is complete.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		if r.URL.Path == "/health" {
			return
		}
		s.log(r).InfoContext(r.Context(), "request completed",
			slog.Group("req", "method", r.Method, "path", r.URL.Path, "headers", r.Header),
			slog.Group("res", "status", ww.Status(), "bytes", ww.BytesWritten(), "headers", ww.Header()),
			"duration", time.Since(start),
		)
	})
}

// recoverer turns a panic into the 500 page.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			s.log(r).ErrorContext(r.Context(), "panic serving request",
				"panic", fmt.Sprint(rec),
				"stack", string(debug.Stack()),
			)
			s.renderError(w, r, http.StatusInternalServerError, "Sorry, there is a problem with the service")
		}()
		next.ServeHTTP(w, r)
	})
}

// requireSession loads the signed-in caseworker or sends the browser to
// sign in.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := s.services.Auth.Session(r.Context(), s.cookie.read(r))
		if errors.Is(err, primary.ErrUnauthenticated) {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		if err != nil {
			s.fail(w, r, err)
			return
		}

		ctx := ctxutil.WithActor(r.Context(), session.Actor)
		ctx = ctxutil.WithSessionID(ctx, session.ID)
		ctx = withLogger(ctx, s.log(r).With("user", session.Actor.Name, "roles", session.Actor.Roles))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireScope refuses actors holding none of the scope's roles.
func (s *Server) requireScope(scope permission.Scope) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ctxutil.ActorFromContext(r.Context())
			if !ok || !scope.Permits(permission.ParseRoles(actor.Roles)) {
				s.log(r).WarnContext(r.Context(), "route scope refused", "path", r.URL.Path)
				s.renderError(w, r, http.StatusForbidden, "You do not have permission to view this page")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// guardSubmission refuses a form the session already submitted.
func (s *Server) guardSubmission(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.renderError(w, r, http.StatusBadRequest, "The form could not be read")
			return
		}
		sessionID := ctxutil.SessionIDFromContext(r.Context())
		if err := s.services.Guard.Guard(r.Context(), sessionID, r.PostFormValue(crumbField)); err != nil {
			s.fail(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// fail maps a service error onto a response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger := s.log(r)
	switch {
	case errors.Is(err, primary.ErrUnauthenticated):
		http.Redirect(w, r, "/login", http.StatusFound)
	case errors.Is(err, primary.ErrDuplicateSubmission):
		logger.WarnContext(r.Context(), "duplicate submission", "path", r.URL.Path)
		s.renderError(w, r, http.StatusForbidden, "Duplicate submission")
	case errors.Is(err, primary.ErrForbidden):
		logger.WarnContext(r.Context(), "action refused", "error", err)
		s.renderError(w, r, http.StatusForbidden, "You do not have permission to do that")
	case errors.Is(err, primary.ErrNotFound):
		logger.InfoContext(r.Context(), "not found", "error", err)
		s.renderError(w, r, http.StatusNotFound, "Page not found")
	default:
		logger.ErrorContext(r.Context(), "request failed", "error", err)
		s.renderError(w, r, http.StatusInternalServerError, "Sorry, there is a problem with the service")
	}
}
