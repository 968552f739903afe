package domain

import (
	"time"

	"github.com/google/uuid"
)

// Template is a per-company document layout, keyed by document type and
// language. Exactly one template per (type, language) may be the default;
// conversion requires a default INVOICE template for the offer's language.
type Template struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	CompanyID    uuid.UUID    `json:"company_id" db:"company_id"`
	Type         DocumentType `json:"type" db:"type"`
	LanguageCode string       `json:"language_code" db:"language_code"`
	Name         string       `json:"name" db:"name"`
	Content      string       `json:"content" db:"content"`
	IsDefault    bool         `json:"is_default" db:"is_default"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// TemplateInput is the create/update payload for a template
type TemplateInput struct {
	Type         DocumentType `json:"type"`
	LanguageCode string       `json:"language_code"`
	Name         string       `json:"name"`
	Content      string       `json:"content"`
	IsDefault    bool         `json:"is_default"`
}
