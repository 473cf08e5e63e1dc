package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/example/backoffice/internal/core/permission"
	"github.com/example/backoffice/internal/ctxutil"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"claims", "agreements", "claim", "agreement", "flags", "support", "error"}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02/01/2006")
	},
	"join": strings.Join,
	"add":  func(a, b int) int { return a + b },
	"sub":  func(a, b int) int { return a - b },
}

// renderer holds one template set per page, each sharing the layout.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	base, err := template.New("layout.html").Funcs(templateFuncs).
		ParseFS(templateFS, "templates/layout.html", "templates/forms.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		page, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", name, err)
		}
		if _, err := page.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		pages[name] = page
	}
	return &renderer{pages: pages}, nil
}

func (p *renderer) render(w io.Writer, page string, data pageData) error {
	t, ok := p.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// pageData is what the layout receives.
type pageData struct {
	Title      string
	Actor      *ctxutil.Actor
	IsAdmin    bool
	AuthToggle bool
	AuthMode   string
	Content    any
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page, title string, content any) {
	data := pageData{Title: title, Content: content}
	if actor, ok := ctxutil.ActorFromContext(r.Context()); ok {
		data.Actor = &actor
		data.IsAdmin = permission.ParseRoles(actor.Roles).Has(permission.Administrator)
		if s.authToggle && data.IsAdmin {
			data.AuthToggle = true
			if mode, err := s.services.Auth.Mode(r.Context()); err == nil {
				data.AuthMode = mode
			}
		}
	}

	var buf bytes.Buffer
	if err := s.pages.render(&buf, page, data); err != nil {
		s.log(r).ErrorContext(r.Context(), "failed to render page", "page", page, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// errorPage is the content of the error template.
type errorPage struct {
	Status   int
	Message  string
	Username string
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	content := errorPage{Status: status, Message: message}
	if actor, ok := ctxutil.ActorFromContext(r.Context()); ok {
		content.Username = actor.Username
	}
	s.render(w, r, status, "error", http.StatusText(status), content)
}

func isAdmin(r *http.Request) bool {
	actor, ok := ctxutil.ActorFromContext(r.Context())
	return ok && permission.ParseRoles(actor.Roles).Has(permission.Administrator)
}
