package model

import "github.com/google/uuid"

// UserSummary is the public view of a vet owner. Account lifecycle
// belongs to the identity service.
type UserSummary struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name string    `db:"name" json:"name"`
}
