// Package model defines the request and response payloads exchanged with the
// pet gateway. The JSON field names are part of the wire contract.
package model

// Pet is a single pet as returned by the gateway.
type Pet struct {
	PetID   string `json:"petId"`
	PetType string `json:"petType"`
	PetName string `json:"petName"`
	PetAge  int    `json:"petAge"`
}

// ListPetsResponse is the body of GET /pets.
type ListPetsResponse struct {
	Count     int   `json:"count"`
	PageLimit int   `json:"pageLimit"`
	Pets      []Pet `json:"pets"`
}

// CreatePetRequest is the body of POST /pets.
type CreatePetRequest struct {
	PetType string `json:"petType"`
	PetName string `json:"petName,omitempty"`
	PetAge  int    `json:"petAge,omitempty"`
}

// CreatePetResponse is the body returned by POST /pets.
type CreatePetResponse struct {
	PetID string `json:"petId"`
}

// GetPetResponse is the body of GET /pets/{petId}.
type GetPetResponse = Pet
