// Package service provides business logic for the gateway backend.
package service

import (
	"context"
	"errors"
	"math"

	"github.com/petgateway/petgateway/internal/model"
)

// Input bounds shared with the users and pets tables.
const (
	MaxUsernameLength = 128
	MaxPetAge         = math.MaxInt32
)

// Service errors.
var (
	ErrInvalidInput       = errors.New("invalid input parameters")
	ErrUsernameTaken      = errors.New("username is taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrIdentity           = errors.New("cannot retrieve identity")
	ErrPetNotFound        = errors.New("pet not found")
)

// UserStore persists users. Implemented by repository.Repository and
// memory.Users.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// PetStore persists pets. Implemented by repository.Repository and
// memory.Pets.
type PetStore interface {
	CreatePet(ctx context.Context, pet *model.Pet) error
	GetPet(ctx context.Context, id string) (*model.Pet, error)
	ListPets(ctx context.Context, limit int) ([]*model.Pet, error)
}
