package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/petgateway/petgateway/internal/model"
)

// ErrPetNotFound is returned when no pet has the requested id.
var ErrPetNotFound = errors.New("pet not found")

// CreatePet inserts a new pet.
func (r *Repository) CreatePet(ctx context.Context, pet *model.Pet) error {
	query := `
		INSERT INTO pets (id, pet_type, pet_name, pet_age, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		pet.ID,
		pet.Type,
		pet.Name,
		pet.Age,
		pet.CreatedBy,
		pet.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create pet: %w", err)
	}

	return nil
}

// GetPet retrieves a pet by id.
func (r *Repository) GetPet(ctx context.Context, id string) (*model.Pet, error) {
	query := `
		SELECT id, pet_type, pet_name, pet_age, created_by, created_at
		FROM pets
		WHERE id = $1
	`

	pet, err := scanPet(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPetNotFound
		}
		return nil, fmt.Errorf("failed to get pet: %w", err)
	}

	return pet, nil
}

// ListPets returns up to limit pets, oldest first.
func (r *Repository) ListPets(ctx context.Context, limit int) ([]*model.Pet, error) {
	query := `
		SELECT id, pet_type, pet_name, pet_age, created_by, created_at
		FROM pets
		ORDER BY created_at, id
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	defer rows.Close()

	pets := make([]*model.Pet, 0, limit)
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pet: %w", err)
		}
		pets = append(pets, pet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pets: %w", err)
	}

	return pets, nil
}

// scanPet scans a single row into a Pet model.
func scanPet(row pgx.Row) (*model.Pet, error) {
	var pet model.Pet
	err := row.Scan(
		&pet.ID,
		&pet.Type,
		&pet.Name,
		&pet.Age,
		&pet.CreatedBy,
		&pet.CreatedAt,
	)
	return &pet, err
}
