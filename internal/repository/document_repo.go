package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/domain"
)

const documentColumns = `id, company_id, customer_id, type, document_number, status,
	       issue_date, due_date, valid_until, total_amount, total_tax, total_discount,
	       language_code, payment_terms, notes, pdf_url,
	       converted_to_invoice_id, converted_from_offer_id, created_at, updated_at`

// DocumentRepository handles document and line-item persistence
type DocumentRepository struct {
	db *sql.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func scanDocument(scanner interface{ Scan(...any) error }) (*domain.Document, error) {
	var doc domain.Document
	err := scanner.Scan(
		&doc.ID,
		&doc.CompanyID,
		&doc.CustomerID,
		&doc.Type,
		&doc.DocumentNumber,
		&doc.Status,
		&doc.IssueDate,
		&doc.DueDate,
		&doc.ValidUntil,
		&doc.TotalAmount,
		&doc.TotalTax,
		&doc.TotalDiscount,
		&doc.LanguageCode,
		&doc.PaymentTerms,
		&doc.Notes,
		&doc.PDFURL,
		&doc.ConvertedToInvoiceID,
		&doc.ConvertedFromOfferID,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// FindByID finds a document and its line items, scoped to the company
func (r *DocumentRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 AND company_id = $2`

	doc, err := scanDocument(r.db.QueryRowContext(ctx, query, id, companyID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	items, err := r.findLineItems(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	doc.LineItems = items

	return doc, nil
}

func (r *DocumentRepository) findLineItems(ctx context.Context, documentID uuid.UUID) ([]domain.LineItem, error) {
	query := `
		SELECT id, document_id, position, description, quantity, unit_price, discount_percent, tax_rate_percent
		FROM line_items
		WHERE document_id = $1
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load line items: %w", err)
	}
	defer rows.Close()

	items := []domain.LineItem{}
	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(
			&item.ID,
			&item.DocumentID,
			&item.Position,
			&item.Description,
			&item.Quantity,
			&item.UnitPrice,
			&item.DiscountPercent,
			&item.TaxRatePercent,
		); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// List returns the company's documents matching the filter, newest first
func (r *DocumentRepository) List(ctx context.Context, companyID uuid.UUID, filter domain.DocumentFilter) ([]domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE company_id = $1`
	args := []any{companyID}

	if filter.Type != nil {
		args = append(args, *filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		query += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}

	return docs, rows.Err()
}

// LatestNumber returns the highest document number in a series, e.g. the
// latest "INV-2026-" number for the company. The 4-digit zero-padded
// sequence makes lexicographic order match numeric order.
func (r *DocumentRepository) LatestNumber(ctx context.Context, companyID uuid.UUID, seriesPrefix string) (string, error) {
	query := `
		SELECT document_number
		FROM documents
		WHERE company_id = $1 AND document_number LIKE $2 || '%'
		ORDER BY document_number DESC
		LIMIT 1
	`

	var number string
	err := r.db.QueryRowContext(ctx, query, companyID, seriesPrefix).Scan(&number)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query latest document number: %w", err)
	}

	return number, nil
}

// Create inserts a document with its line items in one transaction.
// A duplicate (company_id, document_number) returns ErrDuplicateNumber.
func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document, items []domain.LineItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertDocument(ctx, tx, doc); err != nil {
		return err
	}
	if err := insertLineItems(ctx, tx, items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit document: %w", err)
	}
	return nil
}

func insertDocument(ctx context.Context, tx *sql.Tx, doc *domain.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err := tx.ExecContext(ctx, query,
		doc.ID,
		doc.CompanyID,
		doc.CustomerID,
		doc.Type,
		doc.DocumentNumber,
		doc.Status,
		doc.IssueDate,
		doc.DueDate,
		doc.ValidUntil,
		doc.TotalAmount,
		doc.TotalTax,
		doc.TotalDiscount,
		doc.LanguageCode,
		doc.PaymentTerms,
		doc.Notes,
		doc.PDFURL,
		doc.ConvertedToInvoiceID,
		doc.ConvertedFromOfferID,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateNumber
	}
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

func insertLineItems(ctx context.Context, tx *sql.Tx, items []domain.LineItem) error {
	query := `
		INSERT INTO line_items (id, document_id, position, description, quantity, unit_price, discount_percent, tax_rate_percent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, item := range items {
		_, err := tx.ExecContext(ctx, query,
			item.ID,
			item.DocumentID,
			item.Position,
			item.Description,
			item.Quantity,
			item.UnitPrice,
			item.DiscountPercent,
			item.TaxRatePercent,
		)
		if err != nil {
			return fmt.Errorf("failed to insert line item: %w", err)
		}
	}
	return nil
}

// UpdateDraft rewrites a document's mutable fields, and optionally its
// line items, conditioned on the row still being in DRAFT. Returns false
// when a concurrent request moved the document out of DRAFT.
func (r *DocumentRepository) UpdateDraft(ctx context.Context, doc *domain.Document, items []domain.LineItem, replaceItems bool) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE documents
		SET customer_id = $1, status = $2, issue_date = $3, due_date = $4, valid_until = $5,
		    total_amount = $6, total_tax = $7, total_discount = $8,
		    language_code = $9, payment_terms = $10, notes = $11, pdf_url = $12, updated_at = $13
		WHERE id = $14 AND company_id = $15 AND status = 'DRAFT'
	`

	result, err := tx.ExecContext(ctx, query,
		doc.CustomerID,
		doc.Status,
		doc.IssueDate,
		doc.DueDate,
		doc.ValidUntil,
		doc.TotalAmount,
		doc.TotalTax,
		doc.TotalDiscount,
		doc.LanguageCode,
		doc.PaymentTerms,
		doc.Notes,
		doc.PDFURL,
		doc.UpdatedAt,
		doc.ID,
		doc.CompanyID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update document: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return false, nil
	}

	if replaceItems {
		if _, err := tx.ExecContext(ctx, `DELETE FROM line_items WHERE document_id = $1`, doc.ID); err != nil {
			return false, fmt.Errorf("failed to delete line items: %w", err)
		}
		if err := insertLineItems(ctx, tx, items); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit document update: %w", err)
	}
	return true, nil
}

// UpdateStatus moves a document from one status to another. The write is
// conditional on the expected current status so a stale reader loses the
// race instead of overwriting; returns false in that case.
func (r *DocumentRepository) UpdateStatus(ctx context.Context, companyID, id uuid.UUID, from, to domain.DocumentStatus) (bool, error) {
	query := `
		UPDATE documents
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3 AND status = $4
	`

	result, err := r.db.ExecContext(ctx, query, to, id, companyID, from)
	if err != nil {
		return false, fmt.Errorf("failed to update document status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// CreateConversion atomically inserts the invoice with its line items and
// sets the offer's back-reference, conditioned on the offer still being
// ACCEPTED and unconverted. Returns false, with nothing written, when a
// concurrent conversion already claimed the offer.
func (r *DocumentRepository) CreateConversion(ctx context.Context, offerID uuid.UUID, invoice *domain.Document, items []domain.LineItem) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	claim := `
		UPDATE documents
		SET converted_to_invoice_id = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3 AND status = 'ACCEPTED' AND converted_to_invoice_id IS NULL
	`

	result, err := tx.ExecContext(ctx, claim, invoice.ID, offerID, invoice.CompanyID)
	if err != nil {
		return false, fmt.Errorf("failed to claim offer for conversion: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return false, nil
	}

	if err := insertDocument(ctx, tx, invoice); err != nil {
		return false, err
	}
	if err := insertLineItems(ctx, tx, items); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit conversion: %w", err)
	}
	return true, nil
}
