package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all table creation statements. Safe to call multiple times
// due to IF NOT EXISTS clauses.
func Migrate(db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w\nstatement: %s", err, stmt)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		vat_number TEXT NOT NULL DEFAULT '',
		default_language_code TEXT NOT NULL DEFAULT 'en',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		company_id UUID NOT NULL REFERENCES companies(id),
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS customers (
		id UUID PRIMARY KEY,
		company_id UUID NOT NULL REFERENCES companies(id),
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		vat_number TEXT NOT NULL DEFAULT '',
		language_code TEXT NOT NULL DEFAULT 'en',
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS templates (
		id UUID PRIMARY KEY,
		company_id UUID NOT NULL REFERENCES companies(id),
		type TEXT NOT NULL CHECK (type IN ('OFFER', 'INVOICE')),
		language_code TEXT NOT NULL,
		name TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		is_default BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_templates_default
		ON templates (company_id, type, language_code) WHERE is_default`,

	// The conversion link columns carry no foreign keys: the offer's
	// back-reference is written before the invoice row inside the
	// conversion transaction.
	`CREATE TABLE IF NOT EXISTS documents (
		id UUID PRIMARY KEY,
		company_id UUID NOT NULL REFERENCES companies(id),
		customer_id UUID NOT NULL REFERENCES customers(id),
		type TEXT NOT NULL CHECK (type IN ('OFFER', 'INVOICE')),
		document_number TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'DRAFT',
		issue_date TIMESTAMPTZ NOT NULL,
		due_date TIMESTAMPTZ,
		valid_until TIMESTAMPTZ,
		total_amount NUMERIC(18,4) NOT NULL DEFAULT 0,
		total_tax NUMERIC(18,4) NOT NULL DEFAULT 0,
		total_discount NUMERIC(18,4) NOT NULL DEFAULT 0,
		language_code TEXT NOT NULL DEFAULT 'en',
		payment_terms TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		pdf_url TEXT,
		converted_to_invoice_id UUID,
		converted_from_offer_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (company_id, document_number)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_documents_company_status
		ON documents (company_id, status)`,

	`CREATE INDEX IF NOT EXISTS idx_documents_customer
		ON documents (customer_id)`,

	`CREATE TABLE IF NOT EXISTS line_items (
		id UUID PRIMARY KEY,
		document_id UUID NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		description TEXT NOT NULL,
		quantity NUMERIC(18,4) NOT NULL,
		unit_price NUMERIC(18,4) NOT NULL,
		discount_percent NUMERIC(7,4) NOT NULL DEFAULT 0,
		tax_rate_percent NUMERIC(7,4) NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_line_items_document
		ON line_items (document_id)`,
}
