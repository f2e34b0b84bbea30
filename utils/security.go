package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

var ErrUnauthorized = errors.New("unauthorized")

// Credentials holds the two fixed passwords: one for the admin account and
// one shared by every other seeded user.
type Credentials struct {
	adminHash []byte
	userHash  []byte
}

func NewCredentials(adminPassword, userPassword string, cost int) (*Credentials, error) {
	adminHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	userHash, err := bcrypt.GenerateFromPassword([]byte(userPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash user password: %w", err)
	}
	return &Credentials{adminHash: adminHash, userHash: userHash}, nil
}

func (c *Credentials) AdminMatches(password string) bool {
	return CheckPasswordHash(password, string(c.adminHash))
}

func (c *Credentials) UserMatches(password string) bool {
	return CheckPasswordHash(password, string(c.userHash))
}

func GenerateToken(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}
	return base64.URLEncoding.EncodeToString(bytes)
}

// Authorize checks the X-CSRF-Token header, or the csrf_token form field for
// plain form posts, against the token issued with the session.
func Authorize(r *http.Request, expectedCSRF string) error {
	csrf := r.Header.Get("X-CSRF-Token")
	if csrf == "" {
		csrf = r.FormValue("csrf_token")
	}
	if csrf == "" || expectedCSRF == "" || csrf != expectedCSRF {
		return fmt.Errorf("%w: invalid CSRF token", ErrUnauthorized)
	}
	return nil
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
