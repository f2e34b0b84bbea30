package handlers

import (
	"fmt"
	"log"
	"net/http"

	"taskflow/models"
	"taskflow/utils"
)

// Home renders the login form, the admin board or the user's task list
// depending on who is signed in.
func Home(w http.ResponseWriter, r *http.Request, env *Env) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s, err := env.session(w, r)
	if err != nil {
		log.Println("error loading session:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	csrfToken, err := s.CSRFToken(r.Context())
	if err != nil {
		log.Println("error occurred: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	utils.SetCSRFCookie(w, csrfToken, env.SessionTTL)

	u := s.User()
	switch {
	case u == nil:
		render(w, "login", models.PageData{CSRFtoken: csrfToken})
	case u.IsAdmin():
		adminPage(w, r, env, u, csrfToken)
	default:
		userPage(w, r, env, u, csrfToken)
	}
}

// LoginHandler checks the CSRF token issued with the login page, then moves a
// successful login onto a fresh session token.
func LoginHandler(w http.ResponseWriter, r *http.Request, env *Env) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s, err := env.session(w, r)
	if err != nil {
		log.Println("error loading session:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if err := env.checkCSRF(r.Context(), r, s); err != nil {
		log.Println("Authorization failed:", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	in := utils.LoginInput{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}
	if err := utils.ValidateLoginInput(in); err != nil {
		invalidCredentials(w, r, s)
		return
	}

	ok, err := s.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		log.Println("Login failed: ", err)
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "internal error. try again.")
		return
	}
	if !ok {
		log.Printf("Invalid credentials from %s (%s)", utils.GetIP(r), utils.GetUserAgent(r))
		invalidCredentials(w, r, s)
		return
	}

	csrfToken, err := s.CSRFToken(r.Context())
	if err != nil {
		log.Println("error occurred: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	utils.SetSessionCookie(w, s.Token(), env.SessionTTL)
	utils.SetCSRFCookie(w, csrfToken, env.SessionTTL)

	redirect(w, r, "/")
}

// invalidCredentials answers 200 so htmx swaps the message into the form.
// Plain form posts get the login page back with the message filled in.
func invalidCredentials(w http.ResponseWriter, r *http.Request, s *utils.Session) {
	const msg = "Invalid credentials"
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, msg)
		return
	}
	csrfToken, err := s.CSRFToken(r.Context())
	if err != nil {
		log.Println("error occurred: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	render(w, "login", models.PageData{CSRFtoken: csrfToken, Error: msg})
}

func LogOutHandler(w http.ResponseWriter, r *http.Request, env *Env) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s, err := env.session(w, r)
	if err != nil {
		log.Println("error loading session:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if err := env.checkCSRF(r.Context(), r, s); err != nil {
		log.Println("Authorization failed:", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var username string
	if u := s.User(); u != nil {
		username = u.Username
	}
	if err := s.Logout(r.Context()); err != nil {
		log.Printf("Failed to delete session: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	log.Println("session cleared for user: ", username)

	redirect(w, r, "/")
}
