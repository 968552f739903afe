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

// TemplateHandler handles document template HTTP requests
type TemplateHandler struct {
	templateRepo *repository.TemplateRepository
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateRepo *repository.TemplateRepository) *TemplateHandler {
	return &TemplateHandler{
		templateRepo: templateRepo,
	}
}

func validTemplateInput(input *domain.TemplateInput) string {
	if input.Type != domain.DocumentTypeOffer && input.Type != domain.DocumentTypeInvoice {
		return "type must be OFFER or INVOICE"
	}
	if input.LanguageCode == "" {
		return "language_code is required"
	}
	if input.Name == "" {
		return "name is required"
	}
	return ""
}

// List handles GET /api/v1/templates
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	templates, err := h.templateRepo.List(r.Context(), claims.CompanyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list templates")
		return
	}

	respondJSON(w, http.StatusOK, templates)
}

// Get handles GET /api/v1/templates/{id}
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid template ID")
		return
	}

	template, err := h.templateRepo.FindByID(r.Context(), claims.CompanyID, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to find template")
		return
	}
	if template == nil {
		respondError(w, http.StatusNotFound, "Template not found")
		return
	}

	respondJSON(w, http.StatusOK, template)
}

// Create handles POST /api/v1/templates
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	var input domain.TemplateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := validTemplateInput(&input); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	now := time.Now()
	template := &domain.Template{
		ID:           uuid.New(),
		CompanyID:    claims.CompanyID,
		Type:         input.Type,
		LanguageCode: input.LanguageCode,
		Name:         input.Name,
		Content:      input.Content,
		IsDefault:    input.IsDefault,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.templateRepo.Create(r.Context(), template); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create template")
		return
	}

	respondJSON(w, http.StatusCreated, template)
}

// Update handles PUT /api/v1/templates/{id}
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid template ID")
		return
	}

	var input domain.TemplateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := validTemplateInput(&input); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	template, err := h.templateRepo.FindByID(r.Context(), claims.CompanyID, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to find template")
		return
	}
	if template == nil {
		respondError(w, http.StatusNotFound, "Template not found")
		return
	}

	template.Type = input.Type
	template.LanguageCode = input.LanguageCode
	template.Name = input.Name
	template.Content = input.Content
	template.IsDefault = input.IsDefault

	if err := h.templateRepo.Update(r.Context(), template); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Template not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update template")
		return
	}

	respondJSON(w, http.StatusOK, template)
}

// Delete handles DELETE /api/v1/templates/{id}
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid template ID")
		return
	}

	if err := h.templateRepo.Delete(r.Context(), claims.CompanyID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Template not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete template")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
