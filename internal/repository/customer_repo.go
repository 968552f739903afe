package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/domain"
)

const customerColumns = `id, company_id, name, email, phone, address, vat_number, language_code, notes, created_at, updated_at`

// CustomerRepository handles customer persistence
type CustomerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func scanCustomer(scanner interface{ Scan(...any) error }) (*domain.Customer, error) {
	var c domain.Customer
	err := scanner.Scan(
		&c.ID,
		&c.CompanyID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Address,
		&c.VATNumber,
		&c.LanguageCode,
		&c.Notes,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByID finds a customer by ID, scoped to the company
func (r *CustomerRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 AND company_id = $2`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, id, companyID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return customer, nil
}

// List returns all customers of a company, alphabetically
func (r *CustomerRepository) List(ctx context.Context, companyID uuid.UUID) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE company_id = $1 ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, *customer)
	}

	return customers, rows.Err()
}

// Create creates a new customer
func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		customer.ID,
		customer.CompanyID,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Address,
		customer.VATNumber,
		customer.LanguageCode,
		customer.Notes,
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// Update updates a customer's mutable fields
func (r *CustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, email = $2, phone = $3, address = $4, vat_number = $5,
		    language_code = $6, notes = $7, updated_at = NOW()
		WHERE id = $8 AND company_id = $9
	`

	result, err := r.db.ExecContext(ctx, query,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Address,
		customer.VATNumber,
		customer.LanguageCode,
		customer.Notes,
		customer.ID,
		customer.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
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

// Delete deletes a customer
func (r *CustomerRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
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
