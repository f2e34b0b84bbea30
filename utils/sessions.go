package utils

import (
	"net/http"
	"time"
)

const (
	SessionCookie = "session_token"
	CSRFCookie    = "csrf_token"
)

// SessionToken returns the browser's session token, issuing a new cookie when
// the request carries none.
func SessionToken(w http.ResponseWriter, r *http.Request, ttl time.Duration) string {
	if st, err := r.Cookie(SessionCookie); err == nil && st.Value != "" {
		return st.Value
	}
	token := GenerateToken(32)
	SetSessionCookie(w, token, ttl)
	return token
}

// SetSessionCookie hands the browser its session token.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
	})
}

// SetCSRFCookie exposes the CSRF token to the page script.
func SetCSRFCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookie,
		Value:    token,
		HttpOnly: false,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
	})
}

// GetUserAgent returns the User-Agent string from the request
func GetUserAgent(r *http.Request) string {
	return r.Header.Get("User-Agent")
}

// GetIP returns the IP address of the client from the request
func GetIP(r *http.Request) string {
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.RemoteAddr
	}
	return ip
}
