package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/api/middleware"
	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/domain"
	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/repository"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerRepo *repository.CustomerRepository
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerRepo *repository.CustomerRepository) *CustomerHandler {
	return &CustomerHandler{
		customerRepo: customerRepo,
	}
}

// List handles GET /api/v1/customers
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	customers, err := h.customerRepo.List(r.Context(), claims.CompanyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list customers")
		return
	}

	respondJSON(w, http.StatusOK, customers)
}

// Get handles GET /api/v1/customers/{id}
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid customer ID")
		return
	}

	customer, err := h.customerRepo.FindByID(r.Context(), claims.CompanyID, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to find customer")
		return
	}
	if customer == nil {
		respondError(w, http.StatusNotFound, "Customer not found")
		return
	}

	respondJSON(w, http.StatusOK, customer)
}

// Create handles POST /api/v1/customers
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	var input domain.CustomerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	language := input.LanguageCode
	if language == "" {
		language = "en"
	}

	now := time.Now()
	customer := &domain.Customer{
		ID:           uuid.New(),
		CompanyID:    claims.CompanyID,
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		Address:      input.Address,
		VATNumber:    input.VATNumber,
		LanguageCode: language,
		Notes:        input.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.customerRepo.Create(r.Context(), customer); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	respondJSON(w, http.StatusCreated, customer)
}

// Update handles PUT /api/v1/customers/{id}
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid customer ID")
		return
	}

	var input domain.CustomerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	customer, err := h.customerRepo.FindByID(r.Context(), claims.CompanyID, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to find customer")
		return
	}
	if customer == nil {
		respondError(w, http.StatusNotFound, "Customer not found")
		return
	}

	customer.Name = input.Name
	customer.Email = input.Email
	customer.Phone = input.Phone
	customer.Address = input.Address
	customer.VATNumber = input.VATNumber
	if input.LanguageCode != "" {
		customer.LanguageCode = input.LanguageCode
	}
	customer.Notes = input.Notes

	if err := h.customerRepo.Update(r.Context(), customer); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Customer not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update customer")
		return
	}

	respondJSON(w, http.StatusOK, customer)
}

// Delete handles DELETE /api/v1/customers/{id}
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid customer ID")
		return
	}

	if err := h.customerRepo.Delete(r.Context(), claims.CompanyID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Customer not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete customer")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
