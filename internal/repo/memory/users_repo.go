package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/mealhub/internal/domain/user"
)

// UsersRepo keeps one profile per username.
type UsersRepo struct {
	mu    sync.RWMutex
	items map[string]user.Profile
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[string]user.Profile),
	}
}

func (r *UsersRepo) Save(_ context.Context, p user.Profile) error {
	if p.Username == "" {
		return user.ErrInvalidProfile
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[p.Username]; exists {
		return user.ErrUsernameTaken
	}
	r.items[p.Username] = p
	return nil
}

func (r *UsersRepo) GetByUsername(_ context.Context, username string) (user.Profile, error) {
	r.mu.RLock()
	p, ok := r.items[username]
	r.mu.RUnlock()

	if !ok {
		return user.Profile{}, user.ErrUserNotFound
	}
	return p, nil
}

// SingleSlotRegistry remembers only the most recent sign-up. Every Save replaces
// whatever was there, so at most one account can log in at a time.
type SingleSlotRegistry struct {
	mu   sync.RWMutex
	slot *user.Profile
}

func NewSingleSlotRegistry() *SingleSlotRegistry {
	return &SingleSlotRegistry{}
}

func (r *SingleSlotRegistry) Save(_ context.Context, p user.Profile) error {
	if p.Username == "" {
		return user.ErrInvalidProfile
	}

	r.mu.Lock()
	r.slot = &p
	r.mu.Unlock()
	return nil
}

func (r *SingleSlotRegistry) GetByUsername(_ context.Context, username string) (user.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.slot == nil || r.slot.Username != username {
		return user.Profile{}, user.ErrUserNotFound
	}
	return *r.slot, nil
}
