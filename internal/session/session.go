// Package session holds the signed-in worker's session. A Session value is
// passed explicitly to the code that needs the acting worker; there is no
// process-wide "current admin".
package session

import (
	"context"
	"errors"
	"time"
)

const DefaultTTL = 24 * time.Hour

// ErrNotFound is returned for unknown and expired sessions alike.
var ErrNotFound = errors.New("session not found")

type Session struct {
	ID           string        `json:"id"`
	WorkerID     string        `json:"workerId"`
	Username     string        `json:"username"`
	Name         string        `json:"name"`
	IsSuperAdmin bool          `json:"isSuperAdmin"`
	IssuedAt     time.Time     `json:"issuedAt"`
	TTL          time.Duration `json:"ttl"`
}

// ExpiresAt is the instant after which the session is no longer valid.
func (s Session) ExpiresAt() time.Time {
	return s.IssuedAt.Add(s.TTL)
}

// Expired reports whether a session issued at issuedAt with the given ttl
// has lapsed at now. A session is still valid at exactly issuedAt+ttl.
func Expired(now, issuedAt time.Time, ttl time.Duration) bool {
	return now.After(issuedAt.Add(ttl))
}

// Store defines the session storage interface.
// Create assigns ID and IssuedAt; a zero TTL means DefaultTTL.
type Store interface {
	Create(ctx context.Context, s Session) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteByWorker revokes every session of one worker and reports how
	// many were removed.
	DeleteByWorker(ctx context.Context, workerID string) (int, error)
}
