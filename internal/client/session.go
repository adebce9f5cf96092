package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dalemusser/storyhub/internal/domain/models"
)

// Session is the signed-in identity of one client. The server issues no
// token: the cached user record is trusted until Logout.
//
// Lifecycle: NewSession, then Init to restore from the store, then any
// number of Login/Register/Logout calls.
type Session struct {
	api   *API
	store SessionStore

	mu   sync.RWMutex
	user *models.User
	err  error
}

func NewSession(api *API, store SessionStore) *Session {
	return &Session{api: api, store: store}
}

// API returns the API the session talks to.
func (s *Session) API() *API { return s.api }

// Init restores a stored user without contacting the server. Unreadable
// data is removed and leaves the session signed out.
func (s *Session) Init() error {
	raw, err := s.store.Load()
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user, s.err = nil, nil
	if len(raw) == 0 {
		return nil
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil || u.ID.IsZero() {
		if cerr := s.store.Clear(); cerr != nil {
			s.err = cerr
			return cerr
		}
		return nil
	}
	s.user = &u
	return nil
}

// Login probes the server first so an unreachable server is reported as
// ErrServerUnavailable rather than as a failed login.
func (s *Session) Login(ctx context.Context, email, password string) (*models.User, error) {
	if _, err := s.api.Health(ctx); err != nil {
		return nil, s.fail(fmt.Errorf("%w: health check failed: %v", ErrServerUnavailable, err))
	}
	u, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, s.fail(err)
	}
	if err := s.remember(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Register creates an account and signs in as it.
func (s *Session) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	u, err := s.api.Register(ctx, req)
	if err != nil {
		return nil, s.fail(err)
	}
	if err := s.remember(u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateProfile updates the signed-in user and refreshes the cached copy.
func (s *Session) UpdateProfile(ctx context.Context, name, phone, bio string) (*models.User, error) {
	cur := s.User()
	if cur == nil {
		return nil, s.fail(ErrNotAuthenticated)
	}
	u, err := s.api.UpdateProfile(ctx, ProfileUpdate{ID: cur.ID.Hex(), Name: name, Phone: phone, Bio: bio})
	if err != nil {
		return nil, s.fail(err)
	}
	if err := s.remember(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Logout forgets the user locally.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user, s.err = nil, nil
	if err := s.store.Clear(); err != nil {
		s.err = err
		return err
	}
	return nil
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Err returns the error from the most recent failed operation, cleared by
// the next successful one.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Session) remember(u *models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return s.fail(fmt.Errorf("encode session: %w", err))
	}
	if err := s.store.Save(raw); err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.user, s.err = &cp, nil
	return nil
}

func (s *Session) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	return err
}
