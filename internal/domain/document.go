package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentType discriminates offers from invoices
type DocumentType string

const (
	DocumentTypeOffer   DocumentType = "OFFER"
	DocumentTypeInvoice DocumentType = "INVOICE"
)

// DocumentStatus represents the lifecycle state of a document
type DocumentStatus string

const (
	StatusDraft         DocumentStatus = "DRAFT"
	StatusSent          DocumentStatus = "SENT"
	StatusAccepted      DocumentStatus = "ACCEPTED"
	StatusDeclined      DocumentStatus = "DECLINED"
	StatusExpired       DocumentStatus = "EXPIRED"
	StatusPaid          DocumentStatus = "PAID"
	StatusPartiallyPaid DocumentStatus = "PARTIALLY_PAID"
	StatusOverdue       DocumentStatus = "OVERDUE"
	StatusVoided        DocumentStatus = "VOIDED"
)

// Document represents an offer or invoice, discriminated by Type.
// Totals are cached from the line items as of the last DRAFT save;
// once the document leaves DRAFT they are frozen.
type Document struct {
	ID                   uuid.UUID       `json:"id" db:"id"`
	CompanyID            uuid.UUID       `json:"company_id" db:"company_id"`
	CustomerID           uuid.UUID       `json:"customer_id" db:"customer_id"`
	Type                 DocumentType    `json:"type" db:"type"`
	DocumentNumber       string          `json:"document_number" db:"document_number"`
	Status               DocumentStatus  `json:"status" db:"status"`
	IssueDate            time.Time       `json:"issue_date" db:"issue_date"`
	DueDate              *time.Time      `json:"due_date,omitempty" db:"due_date"`       // invoices only
	ValidUntil           *time.Time      `json:"valid_until,omitempty" db:"valid_until"` // offers only
	TotalAmount          decimal.Decimal `json:"total_amount" db:"total_amount"`
	TotalTax             decimal.Decimal `json:"total_tax" db:"total_tax"`
	TotalDiscount        decimal.Decimal `json:"total_discount" db:"total_discount"`
	LanguageCode         string          `json:"language_code" db:"language_code"`
	PaymentTerms         string          `json:"payment_terms,omitempty" db:"payment_terms"`
	Notes                string          `json:"notes,omitempty" db:"notes"`
	PDFURL               *string         `json:"pdf_url,omitempty" db:"pdf_url"`
	ConvertedToInvoiceID *uuid.UUID      `json:"converted_to_invoice_id,omitempty" db:"converted_to_invoice_id"`
	ConvertedFromOfferID *uuid.UUID      `json:"converted_from_offer_id,omitempty" db:"converted_from_offer_id"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at" db:"updated_at"`

	// Loaded alongside the document when requested
	LineItems []LineItem `json:"line_items,omitempty" db:"-"`
}

// IsEditable reports whether the document's content may still be modified
func (d *Document) IsEditable() bool {
	return d.Status == StatusDraft
}

// GrandTotal returns the customer-facing total (net amount plus tax)
func (d *Document) GrandTotal() decimal.Decimal {
	return d.TotalAmount.Add(d.TotalTax)
}

// LineItem represents one billable row within a document.
// Rows are owned by exactly one document and are only written while
// the owning document is in DRAFT.
type LineItem struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	DocumentID      uuid.UUID       `json:"document_id" db:"document_id"`
	Position        int             `json:"position" db:"position"`
	Description     string          `json:"description" db:"description"`
	Quantity        decimal.Decimal `json:"quantity" db:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price" db:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent" db:"discount_percent"`
	TaxRatePercent  decimal.Decimal `json:"tax_rate_percent" db:"tax_rate_percent"`
}
