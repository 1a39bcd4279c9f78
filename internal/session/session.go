// Package session holds the authentication state of a visitor: who is signed in
// and with which role. A Store is one visitor; a Manager tracks the open Stores.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/geocoder89/mealhub/internal/domain/user"
	"github.com/geocoder89/mealhub/internal/security"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type State string

const (
	Anonymous          State = "anonymous"
	AuthenticatedUser  State = "authenticated_user"
	AuthenticatedChef  State = "authenticated_chef"
	AuthenticatedAdmin State = "authenticated_admin"
)

// Session is a point-in-time view of a Store. IsLoggedIn implies User != nil.
type Session struct {
	IsLoggedIn bool          `json:"isLoggedIn"`
	User       *user.Profile `json:"user"`
}

func (s Session) State() State {
	if !s.IsLoggedIn || s.User == nil {
		return Anonymous
	}
	switch s.User.Role {
	case user.RoleChef:
		return AuthenticatedChef
	case user.RoleAdmin:
		return AuthenticatedAdmin
	default:
		return AuthenticatedUser
	}
}

func (s Session) HasRole(r user.Role) bool {
	return s.IsLoggedIn && s.User != nil && s.User.Role == r
}

// Outcome tells the caller where the visitor should go next.
type Outcome struct {
	Redirect string `json:"redirect"`
}

const (
	RedirectLogin = "/login"
	RedirectHome  = "/home"
)

type UserStore interface {
	Save(ctx context.Context, p user.Profile) error
	GetByUsername(ctx context.Context, username string) (user.Profile, error)
}

type Store struct {
	mu      sync.RWMutex
	users   UserStore
	current Session
}

func NewStore(users UserStore) *Store {
	return &Store{users: users}
}

// Register records the profile and signs the visitor in with the submitted role
// (user when none was given). The visitor is then sent to the login page.
func (s *Store) Register(ctx context.Context, req user.SignUpRequest) (Outcome, error) {
	if !req.Role.OrDefault().Valid() {
		return Outcome{}, fmt.Errorf("%w: unknown role %q", user.ErrInvalidProfile, req.Role)
	}

	hash, err := security.HashPassword(req.Password)
	if errors.Is(err, security.ErrPasswordTooLong) {
		return Outcome{}, fmt.Errorf("%w: %w", user.ErrInvalidProfile, err)
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("hash password: %w", err)
	}

	p := user.NewFromSignUp(req, hash)

	if err := s.users.Save(ctx, p); err != nil {
		return Outcome{}, err
	}

	s.mu.Lock()
	s.current = Session{IsLoggedIn: true, User: &p}
	s.mu.Unlock()

	return Outcome{Redirect: RedirectLogin}, nil
}

// Login signs the visitor in as the registered profile whose username and password
// both match. Any mismatch leaves the session exactly as it was.
func (s *Store) Login(ctx context.Context, creds user.Credentials) (Outcome, error) {
	p, err := s.users.GetByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return Outcome{}, ErrInvalidCredentials
		}
		return Outcome{}, err
	}

	if err := security.CheckPassword(p.PasswordHash, creds.Password); err != nil {
		return Outcome{}, ErrInvalidCredentials
	}

	s.mu.Lock()
	s.current = Session{IsLoggedIn: true, User: &p}
	s.mu.Unlock()

	return Outcome{Redirect: RedirectHome}, nil
}

func (s *Store) Logout() {
	s.mu.Lock()
	s.current = Session{}
	s.mu.Unlock()
}

func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := Session{IsLoggedIn: s.current.IsLoggedIn}
	if s.current.User != nil {
		u := *s.current.User
		out.User = &u
	}
	return out
}

func (s *Store) State() State {
	return s.Snapshot().State()
}

// Current returns the signed-in profile, if any.
func (s *Store) Current() (*user.Profile, bool) {
	snap := s.Snapshot()
	if !snap.IsLoggedIn {
		return nil, false
	}
	return snap.User, true
}
