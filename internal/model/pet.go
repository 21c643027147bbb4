package model

import "time"

// Pet is a stored pet. CreatedBy holds the identity that created it.
type Pet struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name,omitempty"`
	Age       int       `json:"age,omitempty"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
