package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/api/middleware"
	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/assistant"
	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/domain"
	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/repository"
	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/service"
)

// DocumentHandler handles offer and invoice HTTP requests
type DocumentHandler struct {
	documentService *service.DocumentService
	customerRepo    *repository.CustomerRepository
	assistant       *assistant.Assistant
}

// NewDocumentHandler creates a new document handler. assistant may be nil
// when no AI provider is configured.
func NewDocumentHandler(documentService *service.DocumentService, customerRepo *repository.CustomerRepository, assist *assistant.Assistant) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		customerRepo:    customerRepo,
		assistant:       assist,
	}
}

func documentID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// List handles GET /api/v1/documents
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	var filter domain.DocumentFilter
	if t := r.URL.Query().Get("type"); t != "" {
		docType := domain.DocumentType(t)
		filter.Type = &docType
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.DocumentStatus(s)
		filter.Status = &status
	}
	if c := r.URL.Query().Get("customer_id"); c != "" {
		customerID, err := uuid.Parse(c)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid customer_id filter")
			return
		}
		filter.CustomerID = &customerID
	}

	docs, err := h.documentService.List(r.Context(), claims.CompanyID, filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	respondJSON(w, http.StatusOK, docs)
}

// Get handles GET /api/v1/documents/{id}
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	id, ok := documentID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	doc, err := h.documentService.Get(r.Context(), claims.CompanyID, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, doc)
}

// Create handles POST /api/v1/documents
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	var req domain.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc, err := h.documentService.Create(r.Context(), claims.CompanyID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, doc)
}

// Update handles PATCH /api/v1/documents/{id}
func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	id, ok := documentID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	var req domain.UpdateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc, err := h.documentService.Update(r.Context(), claims.CompanyID, id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, doc)
}

// ChangeStatus handles POST /api/v1/documents/{id}/status
func (h *DocumentHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	id, ok := documentID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	var req domain.StatusChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status == "" {
		respondError(w, http.StatusBadRequest, "status is required")
		return
	}

	doc, err := h.documentService.ChangeStatus(r.Context(), claims.CompanyID, id, req.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, doc)
}

// Convert handles POST /api/v1/documents/{id}/convert
func (h *DocumentHandler) Convert(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	id, ok := documentID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	invoice, err := h.documentService.Convert(r.Context(), claims.CompanyID, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, domain.ConvertResponse{
		InvoiceID:      invoice.ID,
		DocumentNumber: invoice.DocumentNumber,
	})
}

// Send handles POST /api/v1/documents/{id}/send
func (h *DocumentHandler) Send(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	id, ok := documentID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	var req domain.SendDocumentRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	doc, err := h.documentService.Send(r.Context(), claims.CompanyID, id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, doc)
}

// DraftEmail handles POST /api/v1/documents/{id}/draft-email
func (h *DocumentHandler) DraftEmail(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	if h.assistant == nil {
		respondServiceError(w, service.ErrAssistantDisabled)
		return
	}

	id, ok := documentID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	doc, err := h.documentService.Get(r.Context(), claims.CompanyID, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	customer, err := h.customerRepo.FindByID(r.Context(), claims.CompanyID, doc.CustomerID)
	if err != nil || customer == nil {
		respondError(w, http.StatusInternalServerError, "Failed to load customer")
		return
	}

	body, err := h.assistant.DraftEmail(r.Context(), doc, customer)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to draft email")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"body": body})
}
