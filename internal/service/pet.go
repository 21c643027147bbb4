package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/petgateway/petgateway/internal/auth"
	"github.com/petgateway/petgateway/internal/metrics"
	"github.com/petgateway/petgateway/internal/model"
	"github.com/petgateway/petgateway/internal/repository"
)

// PetService handles pet business logic.
type PetService struct {
	pets      PetStore
	pageLimit int
	metrics   metrics.Recorder
}

// NewPetService creates a new PetService. pageLimit caps List results.
func NewPetService(pets PetStore, pageLimit int, recorder metrics.Recorder) *PetService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if pageLimit < 1 {
		pageLimit = 50
	}
	return &PetService{
		pets:      pets,
		pageLimit: pageLimit,
		metrics:   recorder,
	}
}

// PageLimit returns the maximum page size.
func (s *PetService) PageLimit() int {
	return s.pageLimit
}

// CreatePetInput defines input for creating a pet.
type CreatePetInput struct {
	Type string
	Name string
	Age  int
}

// Create stores a new pet owned by the identity that signed the request.
func (s *PetService) Create(ctx context.Context, input CreatePetInput) (*model.Pet, error) {
	if strings.TrimSpace(input.Type) == "" || input.Age < 0 || input.Age > MaxPetAge {
		return nil, ErrInvalidInput
	}

	pet := &model.Pet{
		ID:        ulid.Make().String(),
		Type:      input.Type,
		Name:      input.Name,
		Age:       input.Age,
		CreatedBy: auth.IdentityIDFromContext(ctx),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.pets.CreatePet(ctx, pet); err != nil {
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}
	s.metrics.IncPetCreated()

	return pet, nil
}

// Get retrieves a pet by id.
func (s *PetService) Get(ctx context.Context, id string) (*model.Pet, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}

	pet, err := s.pets.GetPet(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPetNotFound) {
			return nil, ErrPetNotFound
		}
		return nil, fmt.Errorf("failed to get pet: %w", err)
	}
	return pet, nil
}

// List returns up to limit pets. A limit outside 1..PageLimit is clamped.
func (s *PetService) List(ctx context.Context, limit int) ([]*model.Pet, error) {
	limit = s.ClampLimit(limit)

	pets, err := s.pets.ListPets(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	return pets, nil
}

// ClampLimit maps a requested page size into 1..PageLimit. Zero or negative
// means the full page.
func (s *PetService) ClampLimit(limit int) int {
	if limit <= 0 || limit > s.pageLimit {
		return s.pageLimit
	}
	return limit
}
