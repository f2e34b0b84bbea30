package handlers

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"taskflow/models"
	"taskflow/ui"
	"taskflow/utils"
)

// Env carries what the handlers need; main builds one at startup.
type Env struct {
	Storage    *utils.Storage
	Auth       *utils.Authenticator
	Notifier   utils.Notifier
	SessionTTL time.Duration
}

var pages = map[string]*template.Template{
	"login": parsePage("html/login.html"),
	"admin": parsePage("html/admin.html"),
	"user":  parsePage("html/user.html"),
}

var funcs = template.FuncMap{
	"zoneClass": func(dragging, over bool) string {
		return utils.ZoneState(dragging, over).Class()
	},
}

func parsePage(name string) *template.Template {
	return template.Must(template.New("base.html").Funcs(funcs).ParseFS(ui.Files, "html/base.html", name))
}

func render(w http.ResponseWriter, page string, data models.PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages[page].ExecuteTemplate(w, "base", data); err != nil {
		log.Println("Error rendering template:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// redirect sends htmx requests home through HX-Redirect and plain requests
// through a 303.
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (env *Env) session(w http.ResponseWriter, r *http.Request) (*utils.Session, error) {
	token := utils.SessionToken(w, r, env.SessionTTL)
	s := env.Auth.Session(token)
	if err := s.Load(r.Context()); err != nil {
		return nil, err
	}
	return s, nil
}

// authorized loads the session, checks the CSRF header and the caller's role.
func (env *Env) authorized(w http.ResponseWriter, r *http.Request, admin bool) (*utils.Session, bool) {
	s, err := env.session(w, r)
	if err != nil {
		log.Println("error loading session:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}
	if err := env.checkCSRF(r.Context(), r, s); err != nil {
		log.Println("Authorization failed:", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	u := s.User()
	if u == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	if u.IsAdmin() != admin {
		log.Printf("forbidden: %s on %s %s", u.Username, r.Method, r.URL.Path)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return nil, false
	}
	return s, true
}

func (env *Env) checkCSRF(ctx context.Context, r *http.Request, s *utils.Session) error {
	expected, err := s.CSRFToken(ctx)
	if err != nil {
		return fmt.Errorf("could not fetch csrf token: %w", err)
	}
	return utils.Authorize(r, expected)
}
