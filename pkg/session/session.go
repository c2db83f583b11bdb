// Package session keeps viewer sessions of the HTTP server in memory.
//
// Each session owns one [viewer.Viewer] behind a mutex, so requests and
// websocket updates of the same session are applied one at a time. Sessions
// expire after a period of inactivity; every access extends the deadline.
// Nothing is written to disk: a restart starts every user from the default
// view.
//
// # Usage
//
//	store := session.NewMemoryStore()
//	go session.Janitor(ctx, store, time.Minute, nil)
//
//	sess := session.New(viewer.New(meta, opts), session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, id)
//	if errors.Is(err, session.ErrNotFound) {
//	    // unknown or expired
//	}
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/blueprint/pkg/viewer"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist or has expired.
	ErrNotFound = errors.New("session not found")
)

// DefaultTTL is the default idle timeout of a session.
const DefaultTTL = 2 * time.Hour

// Session is one user's viewer.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	mu        sync.Mutex
	viewer    *viewer.Viewer
	ttl       time.Duration
	expiresAt time.Time
}

// New creates a session around v with a fresh random ID.
func New(v *viewer.Viewer, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		viewer:    v,
		ttl:       ttl,
		expiresAt: now.Add(ttl),
	}
}

// Do runs fn with exclusive access to the session's viewer.
func (s *Session) Do(fn func(v *viewer.Viewer) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.viewer)
}

// View returns the current view of the session's viewer.
func (s *Session) View() viewer.View {
	var view viewer.View
	_ = s.Do(func(v *viewer.Viewer) error {
		view = v.View()
		return nil
	})
	return view
}

// ExpiresAt returns the current expiry deadline.
func (s *Session) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

// IsExpired reports whether the session expired before now.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt())
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiresAt = now.Add(s.ttl)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get returns the session with id and extends its deadline. Unknown and
	// expired sessions yield ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and returns how many were removed.
	Cleanup(ctx context.Context) (int, error)

	// Len returns the number of stored sessions.
	Len() int
}
