package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/domain"
	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/repository"
)

// UserStore is the persistence contract for authentication
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	CreateWithCompany(ctx context.Context, company *domain.Company, user *domain.User) error
}

// TokenClaims identifies the authenticated user and their company
type TokenClaims struct {
	UserID    uuid.UUID
	CompanyID uuid.UUID
}

// AuthService handles registration, login and token validation
type AuthService struct {
	users     UserStore
	jwtSecret []byte
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, jwtSecret string) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
	}
}

// Register creates a company together with its first user
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	if req.CompanyName == "" || req.Email == "" || req.Name == "" {
		return nil, fmt.Errorf("%w: company_name, email and name are required", ErrValidation)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	language := req.LanguageCode
	if language == "" {
		language = "en"
	}

	now := time.Now()
	company := &domain.Company{
		ID:                  uuid.New(),
		Name:                req.CompanyName,
		Email:               req.Email,
		DefaultLanguageCode: language,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	user := &domain.User{
		ID:           uuid.New(),
		CompanyID:    company.ID,
		Email:        strings.ToLower(req.Email),
		Name:         req.Name,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    now,
	}

	if err := s.users.CreateWithCompany(ctx, company, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return user, nil
}

// Login validates credentials and issues a token
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.TokenResponse, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.GenerateToken(user)
}

// GenerateToken generates a JWT token for the given user
func (s *AuthService) GenerateToken(user *domain.User) (*domain.TokenResponse, error) {
	expiresIn := 3600 // 1 hour
	expiresAt := time.Now().Add(time.Duration(expiresIn) * time.Second)

	claims := jwt.MapClaims{
		"user_id":    user.ID.String(),
		"company_id": user.CompanyID.String(),
		"exp":        expiresAt.Unix(),
		"iat":        time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &domain.TokenResponse{
		AccessToken: signedToken,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	}, nil
}

// ValidateToken validates a JWT token and returns its claims
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCredentials
		}
		return s.jwtSecret, nil
	})

	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	userID, err := parseClaimID(claims, "user_id")
	if err != nil {
		return nil, err
	}
	companyID, err := parseClaimID(claims, "company_id")
	if err != nil {
		return nil, err
	}

	return &TokenClaims{UserID: userID, CompanyID: companyID}, nil
}

func parseClaimID(claims jwt.MapClaims, key string) (uuid.UUID, error) {
	raw, ok := claims[key].(string)
	if !ok {
		return uuid.Nil, ErrInvalidCredentials
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidCredentials
	}
	return id, nil
}
