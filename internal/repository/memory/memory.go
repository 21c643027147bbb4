// Package memory provides in-process user and pet stores. They share the
// error values of the Postgres repository so callers handle both alike.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/petgateway/petgateway/internal/model"
	"github.com/petgateway/petgateway/internal/repository"
)

// Users is an in-memory user store keyed by username.
type Users struct {
	mu         sync.RWMutex
	byUsername map[string]model.User
}

// NewUsers creates an empty user store.
func NewUsers() *Users {
	return &Users{byUsername: make(map[string]model.User)}
}

// CreateUser stores a copy of user.
func (s *Users) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[user.Username]; exists {
		return repository.ErrUsernameExists
	}
	s.byUsername[user.Username] = *user
	return nil
}

// GetUserByUsername returns a copy of the stored user.
func (s *Users) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byUsername[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

// Pets is an in-memory pet store.
type Pets struct {
	mu   sync.RWMutex
	byID map[string]model.Pet
}

// NewPets creates an empty pet store.
func NewPets() *Pets {
	return &Pets{byID: make(map[string]model.Pet)}
}

// CreatePet stores a copy of pet.
func (s *Pets) CreatePet(_ context.Context, pet *model.Pet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[pet.ID] = *pet
	return nil
}

// GetPet returns a copy of the stored pet.
func (s *Pets) GetPet(_ context.Context, id string) (*model.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrPetNotFound
	}
	return &p, nil
}

// ListPets returns up to limit pets, oldest first.
func (s *Pets) ListPets(_ context.Context, limit int) ([]*model.Pet, error) {
	s.mu.RLock()
	out := make([]*model.Pet, 0, len(s.byID))
	for _, p := range s.byID {
		p := p
		out = append(out, &p)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
