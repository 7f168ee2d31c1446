package client

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/templui/portfolio/internal/model"
)

type SessionEventType string

const (
	SignedIn  SessionEventType = "SIGNED_IN"
	SignedOut SessionEventType = "SIGNED_OUT"
)

type SessionEvent struct {
	Type SessionEventType
	User *model.User
}

// Session holds the signed-in identity. It is safe for concurrent use.
type Session struct {
	c *Client

	mu        sync.RWMutex
	user      *model.User
	token     string
	expiresAt time.Time
	loading   bool
	nextSub   int
	subs      map[int]func(SessionEvent)
}

func (s *Session) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// Loading is true while Restore is checking a stored token.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Subscribe calls fn on every sign in and sign out until the returned func is called.
func (s *Session) Subscribe(fn func(SessionEvent)) (unsubscribe func()) {
	s.mu.Lock()
	if s.subs == nil {
		s.subs = make(map[int]func(SessionEvent))
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) SignIn(ctx context.Context, email, password string) (*model.User, error) {
	var out model.Session
	n, err := s.c.do(ctx, http.MethodPost, "/auth/signin", map[string]string{"email": email, "password": password}, &out)
	s.c.report(n, err, "Sign in failed")
	if err != nil {
		return nil, err
	}

	s.set(out.User, out.Token, out.ExpiresAt)
	s.emit(SessionEvent{Type: SignedIn, User: out.User})
	return out.User, nil
}

// SignOut forgets the local session and everything cached under it, even
// when the server call fails.
func (s *Session) SignOut(ctx context.Context) error {
	var err error
	if s.Token() != "" {
		_, err = s.c.do(ctx, http.MethodPost, "/auth/signout", nil, nil)
	}

	s.set(nil, "", time.Time{})
	s.c.query.Reset(s.c.memory.Clear)
	s.emit(SessionEvent{Type: SignedOut})
	return err
}

// Restore resumes a session from a stored token. A rejected token leaves the
// session signed out.
func (s *Session) Restore(ctx context.Context, token string) (*model.User, error) {
	s.mu.Lock()
	s.loading = true
	s.token = token
	s.mu.Unlock()

	var user model.User
	_, err := s.c.do(ctx, http.MethodGet, "/auth/me", nil, &user)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.token = ""
		s.user = nil
	} else {
		s.user = &user
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	s.emit(SessionEvent{Type: SignedIn, User: &user})
	return &user, nil
}

func (s *Session) set(user *model.User, token string, expiresAt time.Time) {
	s.mu.Lock()
	s.user = user
	s.token = token
	s.expiresAt = expiresAt
	s.mu.Unlock()
}

func (s *Session) emit(e SessionEvent) {
	s.mu.RLock()
	subs := make([]func(SessionEvent), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(e)
	}
}
