package domain

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant boundary; every customer, template and document
// belongs to exactly one company.
type Company struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	Name                string    `json:"name" db:"name"`
	Email               string    `json:"email" db:"email"`
	Address             string    `json:"address,omitempty" db:"address"`
	VATNumber           string    `json:"vat_number,omitempty" db:"vat_number"`
	DefaultLanguageCode string    `json:"default_language_code" db:"default_language_code"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// User is an authenticated member of a company
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	CompanyID    uuid.UUID `json:"company_id" db:"company_id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// RegisterRequest creates a company together with its first user
type RegisterRequest struct {
	CompanyName  string `json:"company_name"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Password     string `json:"password"`
	LanguageCode string `json:"language_code,omitempty"`
}

// LoginRequest authenticates a user by email and password
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries an issued access token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}
