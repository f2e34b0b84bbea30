package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"taskflow/models"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator checks username/password pairs against the fixed credentials
// and the stored user list.
type Authenticator struct {
	storage *Storage
	creds   *Credentials
	ttl     time.Duration
}

// NewAuthenticator keeps session and CSRF records for ttl after they are
// written.
func NewAuthenticator(storage *Storage, creds *Credentials, ttl time.Duration) *Authenticator {
	return &Authenticator{storage: storage, creds: creds, ttl: ttl}
}

// Session is the identity bound to one browser. The identity is mirrored to
// the record store under the session token so that it survives reloads and
// restarts.
type Session struct {
	auth  *Authenticator
	token string
	user  *models.User
}

// Session returns an unloaded session for the given token.
func (a *Authenticator) Session(token string) *Session {
	return &Session{auth: a, token: token}
}

// Token is the browser's current session token. It changes on every
// successful login.
func (s *Session) Token() string {
	return s.token
}

// User returns the current identity, or nil when logged out.
func (s *Session) User() *models.User {
	return s.user
}

// Load rehydrates the identity from the durable session record, if any.
func (s *Session) Load(ctx context.Context) error {
	s.user = nil
	raw, err := s.auth.storage.Records().Get(ctx, CurrentUserKey(s.token))
	if errors.Is(err, ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}
	s.user = &u
	return nil
}

// Login reports whether the pair is valid. On success the identity moves to a
// fresh token with a fresh CSRF token and the old token's records are
// dropped. On failure the session is left untouched.
func (s *Session) Login(ctx context.Context, username, password string) (bool, error) {
	u, err := s.auth.verify(ctx, username, password)
	if errors.Is(err, ErrInvalidCredentials) {
		log.Printf("Login failed for user: %s", username)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	b, err := json.Marshal(u)
	if err != nil {
		return false, fmt.Errorf("encode session: %w", err)
	}
	records := s.auth.storage.Records()
	token := GenerateToken(32)
	if err := records.Set(ctx, CurrentUserKey(token), string(b), s.auth.ttl); err != nil {
		return false, fmt.Errorf("store session: %w", err)
	}
	if err := records.Set(ctx, CSRFKey(token), GenerateToken(32), s.auth.ttl); err != nil {
		return false, fmt.Errorf("store csrf token: %w", err)
	}
	if err := s.forget(ctx); err != nil {
		return false, err
	}
	s.token = token
	s.user = &u
	log.Printf("Login successful for user: %s", username)
	return true, nil
}

// CSRFToken returns the token mutating requests must echo back, issuing one
// on first use.
func (s *Session) CSRFToken(ctx context.Context) (string, error) {
	records := s.auth.storage.Records()
	token, err := records.Get(ctx, CSRFKey(s.token))
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, ErrRecordNotFound) {
		return "", fmt.Errorf("unable to retrieve csrf token: %w", err)
	}
	token = GenerateToken(32)
	if err := records.Set(ctx, CSRFKey(s.token), token, s.auth.ttl); err != nil {
		return "", fmt.Errorf("store csrf token: %w", err)
	}
	return token, nil
}

// Logout clears both the in-memory and the durable identity.
func (s *Session) Logout(ctx context.Context) error {
	s.user = nil
	return s.forget(ctx)
}

func (s *Session) forget(ctx context.Context) error {
	records := s.auth.storage.Records()
	if err := records.Delete(ctx, CurrentUserKey(s.token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if err := records.Delete(ctx, CSRFKey(s.token)); err != nil {
		return fmt.Errorf("delete csrf token: %w", err)
	}
	return nil
}

func (a *Authenticator) verify(ctx context.Context, username, password string) (models.User, error) {
	if username == "admin" && a.creds.AdminMatches(password) {
		return models.User{ID: AdminID, Username: "admin", Role: models.RoleAdmin}, nil
	}

	users, err := a.storage.ListUsers(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.Username == username && a.creds.UserMatches(password) {
			return u, nil
		}
	}
	return models.User{}, ErrInvalidCredentials
}
