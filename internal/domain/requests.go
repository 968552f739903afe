package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItemInput is one submitted line row. Absent discount or tax rate is
// treated as zero, never as an error.
type LineItemInput struct {
	Description     string           `json:"description"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitPrice       decimal.Decimal  `json:"unit_price"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	TaxRatePercent  *decimal.Decimal `json:"tax_rate_percent,omitempty"`
}

// LineItem converts the input into a line row owned by the given document
func (in LineItemInput) LineItem(documentID uuid.UUID, position int) LineItem {
	item := LineItem{
		ID:          uuid.New(),
		DocumentID:  documentID,
		Position:    position,
		Description: in.Description,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
	}
	if in.DiscountPercent != nil {
		item.DiscountPercent = *in.DiscountPercent
	}
	if in.TaxRatePercent != nil {
		item.TaxRatePercent = *in.TaxRatePercent
	}
	return item
}

// CreateDocumentRequest creates a new DRAFT document with its line items
type CreateDocumentRequest struct {
	Type         DocumentType    `json:"type"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	IssueDate    *time.Time      `json:"issue_date,omitempty"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	ValidUntil   *time.Time      `json:"valid_until,omitempty"`
	LanguageCode string          `json:"language_code,omitempty"`
	PaymentTerms string          `json:"payment_terms,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	LineItems    []LineItemInput `json:"line_items"`
}

// UpdateDocumentRequest mutates a document. Nil fields are left untouched;
// a non-nil LineItems slice replaces all rows. Anything besides Status is
// only writable while the document is in DRAFT.
type UpdateDocumentRequest struct {
	CustomerID   *uuid.UUID      `json:"customer_id,omitempty"`
	Status       *DocumentStatus `json:"status,omitempty"`
	IssueDate    *time.Time      `json:"issue_date,omitempty"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	ValidUntil   *time.Time      `json:"valid_until,omitempty"`
	LanguageCode *string         `json:"language_code,omitempty"`
	PaymentTerms *string         `json:"payment_terms,omitempty"`
	Notes        *string         `json:"notes,omitempty"`
	PDFURL       *string         `json:"pdf_url,omitempty"`
	LineItems    []LineItemInput `json:"line_items,omitempty"`
}

// StatusChangeRequest moves a document to a new status
type StatusChangeRequest struct {
	Status DocumentStatus `json:"status"`
}

// SendDocumentRequest emails a document. Recipient defaults to the
// customer's email when empty.
type SendDocumentRequest struct {
	Recipient string `json:"recipient,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Message   string `json:"message,omitempty"`
}

// ConvertResponse identifies the invoice created from an offer
type ConvertResponse struct {
	InvoiceID      uuid.UUID `json:"invoice_id"`
	DocumentNumber string    `json:"document_number"`
}

// DocumentFilter narrows document listings
type DocumentFilter struct {
	Type       *DocumentType
	Status     *DocumentStatus
	CustomerID *uuid.UUID
}
