package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/domain"
)

const userColumns = `id, company_id, email, name, password_hash, is_active, created_at`

// UserRepository handles user and company persistence
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	err := scanner.Scan(
		&u.ID,
		&u.CompanyID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.IsActive,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail finds a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindCompany finds a company by ID
func (r *UserRepository) FindCompany(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	query := `
		SELECT id, name, email, address, vat_number, default_language_code, created_at, updated_at
		FROM companies
		WHERE id = $1
	`

	var c domain.Company
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Address,
		&c.VATNumber,
		&c.DefaultLanguageCode,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find company: %w", err)
	}
	return &c, nil
}

// CreateWithCompany inserts a company together with its first user in one
// transaction. A duplicate email returns ErrDuplicateEmail.
func (r *UserRepository) CreateWithCompany(ctx context.Context, company *domain.Company, user *domain.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	companyQuery := `
		INSERT INTO companies (id, name, email, address, vat_number, default_language_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.ExecContext(ctx, companyQuery,
		company.ID,
		company.Name,
		company.Email,
		company.Address,
		company.VATNumber,
		company.DefaultLanguageCode,
		company.CreatedAt,
		company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}

	userQuery := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, userQuery,
		user.ID,
		user.CompanyID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.IsActive,
		user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit registration: %w", err)
	}
	return nil
}
