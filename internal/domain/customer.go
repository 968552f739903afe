package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents a billing recipient within a company
type Customer struct {
	ID           uuid.UUID `json:"id" db:"id"`
	CompanyID    uuid.UUID `json:"company_id" db:"company_id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	Address      string    `json:"address,omitempty" db:"address"`
	VATNumber    string    `json:"vat_number,omitempty" db:"vat_number"`
	LanguageCode string    `json:"language_code" db:"language_code"`
	Notes        string    `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CustomerInput is the create/update payload for a customer
type CustomerInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	VATNumber    string `json:"vat_number,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	Notes        string `json:"notes,omitempty"`
}
