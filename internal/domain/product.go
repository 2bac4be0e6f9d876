package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tombstone marks a soft-deleted record. Records with Status=true stay in
// storage but are excluded from every default query.
type Tombstone struct {
	Status    bool       `json:"status"`
	DeletedAt *time.Time `json:"deletedAt"`
}

// Product represents an item in the shop catalog
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Unit        string    `json:"unit" db:"unit"`
	Price       float64   `json:"price" db:"price"`
	Description string    `json:"desc" db:"description"`
	ImageURL    string    `json:"imageUrl" db:"image_url"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	IsDeleted   Tombstone `json:"isDeleted"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
