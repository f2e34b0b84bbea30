package utils

import (
	"context"
	"errors"
	"time"
)

// Record keys shared by every backend.
const (
	UsersKey          = "taskflow_users"
	TasksKey          = "taskflow_tasks"
	currentUserPrefix = "taskflow_current_user:"
	csrfPrefix        = "taskflow_csrf:"
)

var ErrRecordNotFound = errors.New("record not found")

// RecordStore is a flat key-value store of text records. Writes replace the
// whole value; there is no versioning, so the last writer wins. A record set
// with a positive ttl reads as missing once it expires; ttl 0 keeps it forever.
type RecordStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func CurrentUserKey(sessionToken string) string {
	return currentUserPrefix + sessionToken
}

func CSRFKey(sessionToken string) string {
	return csrfPrefix + sessionToken
}
