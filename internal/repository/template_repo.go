package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/domain"
)

const templateColumns = `id, company_id, type, language_code, name, content, is_default, created_at, updated_at`

// TemplateRepository handles document template persistence
type TemplateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func scanTemplate(scanner interface{ Scan(...any) error }) (*domain.Template, error) {
	var t domain.Template
	err := scanner.Scan(
		&t.ID,
		&t.CompanyID,
		&t.Type,
		&t.LanguageCode,
		&t.Name,
		&t.Content,
		&t.IsDefault,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FindByID finds a template by ID, scoped to the company
func (r *TemplateRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*domain.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE id = $1 AND company_id = $2`

	template, err := scanTemplate(r.db.QueryRowContext(ctx, query, id, companyID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find template: %w", err)
	}
	return template, nil
}

// FindDefault finds the company's default template for a document type and
// language. Returns nil when none is configured.
func (r *TemplateRepository) FindDefault(ctx context.Context, companyID uuid.UUID, docType domain.DocumentType, languageCode string) (*domain.Template, error) {
	query := `
		SELECT ` + templateColumns + `
		FROM templates
		WHERE company_id = $1 AND type = $2 AND language_code = $3 AND is_default = TRUE
		LIMIT 1
	`

	template, err := scanTemplate(r.db.QueryRowContext(ctx, query, companyID, docType, languageCode))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find default template: %w", err)
	}
	return template, nil
}

// List returns all templates of a company
func (r *TemplateRepository) List(ctx context.Context, companyID uuid.UUID) ([]domain.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE company_id = $1 ORDER BY type, language_code, name`

	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	templates := []domain.Template{}
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, *template)
	}

	return templates, rows.Err()
}

// Create creates a template. A new default demotes the previous default
// for the same type and language in the same transaction.
func (r *TemplateRepository) Create(ctx context.Context, template *domain.Template) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if template.IsDefault {
		if err := demoteDefault(ctx, tx, template); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO templates (` + templateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = tx.ExecContext(ctx, query,
		template.ID,
		template.CompanyID,
		template.Type,
		template.LanguageCode,
		template.Name,
		template.Content,
		template.IsDefault,
		template.CreatedAt,
		template.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit template: %w", err)
	}
	return nil
}

// Update updates a template's mutable fields, demoting the previous
// default when this one becomes the default.
func (r *TemplateRepository) Update(ctx context.Context, template *domain.Template) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if template.IsDefault {
		if err := demoteDefault(ctx, tx, template); err != nil {
			return err
		}
	}

	query := `
		UPDATE templates
		SET type = $1, language_code = $2, name = $3, content = $4, is_default = $5, updated_at = NOW()
		WHERE id = $6 AND company_id = $7
	`

	result, err := tx.ExecContext(ctx, query,
		template.Type,
		template.LanguageCode,
		template.Name,
		template.Content,
		template.IsDefault,
		template.ID,
		template.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit template update: %w", err)
	}
	return nil
}

func demoteDefault(ctx context.Context, tx *sql.Tx, template *domain.Template) error {
	query := `
		UPDATE templates
		SET is_default = FALSE, updated_at = NOW()
		WHERE company_id = $1 AND type = $2 AND language_code = $3 AND is_default = TRUE AND id <> $4
	`

	if _, err := tx.ExecContext(ctx, query, template.CompanyID, template.Type, template.LanguageCode, template.ID); err != nil {
		return fmt.Errorf("failed to demote previous default template: %w", err)
	}
	return nil
}

// Delete deletes a template
func (r *TemplateRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
