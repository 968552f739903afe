package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/domain"
	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/repository"
)

var hundredPercent = decimal.NewFromInt(100)

const (
	// Attempts to allocate a document number before giving up on a
	// persistent unique-constraint race
	maxNumberAttempts = 3

	// Attempts for an optimistic status write before reporting a conflict
	maxStatusAttempts = 2

	// Default payment window for invoices
	defaultDueDays = 30
)

// DocumentStore is the persistence contract the document service needs.
// The SQL repository satisfies it; tests substitute in-memory fakes.
type DocumentStore interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, companyID uuid.UUID, filter domain.DocumentFilter) ([]domain.Document, error)
	LatestNumber(ctx context.Context, companyID uuid.UUID, seriesPrefix string) (string, error)
	Create(ctx context.Context, doc *domain.Document, items []domain.LineItem) error
	UpdateDraft(ctx context.Context, doc *domain.Document, items []domain.LineItem, replaceItems bool) (bool, error)
	UpdateStatus(ctx context.Context, companyID, id uuid.UUID, from, to domain.DocumentStatus) (bool, error)
	CreateConversion(ctx context.Context, offerID uuid.UUID, invoice *domain.Document, items []domain.LineItem) (bool, error)
}

// CustomerStore resolves customers referenced by documents
type CustomerStore interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*domain.Customer, error)
}

// TemplateStore resolves document templates
type TemplateStore interface {
	FindDefault(ctx context.Context, companyID uuid.UUID, docType domain.DocumentType, languageCode string) (*domain.Template, error)
}

// Mailer delivers documents to customers
type Mailer interface {
	Send(to, subject, body string) error
}

// DocumentService handles offer and invoice business logic
type DocumentService struct {
	documents DocumentStore
	customers CustomerStore
	templates TemplateStore
	mailer    Mailer
	log       zerolog.Logger
	now       func() time.Time
}

// NewDocumentService creates a new document service
func NewDocumentService(documents DocumentStore, customers CustomerStore, templates TemplateStore, mailer Mailer, log zerolog.Logger) *DocumentService {
	return &DocumentService{
		documents: documents,
		customers: customers,
		templates: templates,
		mailer:    mailer,
		log:       log,
		now:       time.Now,
	}
}

// Get returns a document with its line items
func (s *DocumentService) Get(ctx context.Context, companyID, id uuid.UUID) (*domain.Document, error) {
	doc, err := s.documents.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	return doc, nil
}

// List returns the company's documents matching the filter
func (s *DocumentService) List(ctx context.Context, companyID uuid.UUID, filter domain.DocumentFilter) ([]domain.Document, error) {
	return s.documents.List(ctx, companyID, filter)
}

// Create creates a new DRAFT document with a freshly assigned number and
// totals computed from the submitted line items.
func (s *DocumentService) Create(ctx context.Context, companyID uuid.UUID, req *domain.CreateDocumentRequest) (*domain.Document, error) {
	if req.Type != domain.DocumentTypeOffer && req.Type != domain.DocumentTypeInvoice {
		return nil, fmt.Errorf("%w: type must be OFFER or INVOICE", ErrValidation)
	}
	if req.CustomerID == uuid.Nil {
		return nil, fmt.Errorf("%w: customer_id is required", ErrValidation)
	}

	customer, err := s.customers.FindByID(ctx, companyID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: customer does not exist", ErrValidation)
	}

	if err := validateLineItems(req.LineItems); err != nil {
		return nil, err
	}

	now := s.now()
	issueDate := now
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}

	language := req.LanguageCode
	if language == "" {
		language = customer.LanguageCode
	}

	doc := &domain.Document{
		ID:           uuid.New(),
		CompanyID:    companyID,
		CustomerID:   req.CustomerID,
		Type:         req.Type,
		Status:       domain.StatusDraft,
		IssueDate:    issueDate,
		LanguageCode: language,
		PaymentTerms: req.PaymentTerms,
		Notes:        req.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	switch req.Type {
	case domain.DocumentTypeInvoice:
		due := issueDate.AddDate(0, 0, defaultDueDays)
		if req.DueDate != nil {
			due = *req.DueDate
		}
		doc.DueDate = &due
	case domain.DocumentTypeOffer:
		doc.ValidUntil = req.ValidUntil
	}

	items := buildLineItems(doc.ID, req.LineItems)
	totals := domain.ComputeTotals(items)
	doc.TotalAmount = totals.TotalAmount
	doc.TotalTax = totals.TotalTax
	doc.TotalDiscount = totals.TotalDiscount

	_, err = s.assignNumberAndInsert(ctx, doc, func() (bool, error) {
		return true, s.documents.Create(ctx, doc, items)
	})
	if err != nil {
		return nil, err
	}

	doc.LineItems = items
	return doc, nil
}

// Update mutates a document. A DRAFT document accepts full edits and
// recomputes totals when line items are replaced. A non-draft document
// rejects any change besides a status-only transition.
func (s *DocumentService) Update(ctx context.Context, companyID, id uuid.UUID, req *domain.UpdateDocumentRequest) (*domain.Document, error) {
	doc, err := s.documents.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}

	if doc.Status == domain.StatusDraft {
		return s.updateDraft(ctx, doc, req)
	}

	if changed := changedFields(doc, req); len(changed) > 0 {
		return nil, fmt.Errorf("%w: field %s cannot change outside DRAFT", ErrEditLocked, changed[0])
	}

	if req.Status == nil || *req.Status == doc.Status {
		// Nothing to apply
		return doc, nil
	}

	return s.ChangeStatus(ctx, companyID, id, *req.Status)
}

func (s *DocumentService) updateDraft(ctx context.Context, doc *domain.Document, req *domain.UpdateDocumentRequest) (*domain.Document, error) {
	if req.CustomerID != nil && *req.CustomerID != doc.CustomerID {
		customer, err := s.customers.FindByID(ctx, doc.CompanyID, *req.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, fmt.Errorf("%w: customer does not exist", ErrValidation)
		}
		doc.CustomerID = *req.CustomerID
	}
	if req.IssueDate != nil {
		doc.IssueDate = *req.IssueDate
	}
	if req.DueDate != nil {
		if doc.Type != domain.DocumentTypeInvoice {
			return nil, fmt.Errorf("%w: due_date applies to invoices only", ErrValidation)
		}
		doc.DueDate = req.DueDate
	}
	if req.ValidUntil != nil {
		if doc.Type != domain.DocumentTypeOffer {
			return nil, fmt.Errorf("%w: valid_until applies to offers only", ErrValidation)
		}
		doc.ValidUntil = req.ValidUntil
	}
	if req.LanguageCode != nil {
		doc.LanguageCode = *req.LanguageCode
	}
	if req.PaymentTerms != nil {
		doc.PaymentTerms = *req.PaymentTerms
	}
	if req.Notes != nil {
		doc.Notes = *req.Notes
	}
	if req.PDFURL != nil {
		doc.PDFURL = req.PDFURL
	}

	var items []domain.LineItem
	replaceItems := req.LineItems != nil
	if replaceItems {
		if err := validateLineItems(req.LineItems); err != nil {
			return nil, err
		}
		items = buildLineItems(doc.ID, req.LineItems)
		totals := domain.ComputeTotals(items)
		doc.TotalAmount = totals.TotalAmount
		doc.TotalTax = totals.TotalTax
		doc.TotalDiscount = totals.TotalDiscount
	}

	if req.Status != nil && *req.Status != doc.Status {
		if !domain.ValidStatus(doc.Type, *req.Status) {
			return nil, fmt.Errorf("%w: unknown status %q for %s", ErrValidation, *req.Status, doc.Type)
		}
		if !domain.CanTransition(doc.Type, doc.Status, *req.Status) {
			return nil, fmt.Errorf("%w: %s -> %s is not allowed for %s", ErrIllegalTransition, doc.Status, *req.Status, doc.Type)
		}
		doc.Status = *req.Status
	}

	doc.UpdatedAt = s.now()

	ok, err := s.documents.UpdateDraft(ctx, doc, items, replaceItems)
	if err != nil {
		return nil, err
	}
	if !ok {
		// A concurrent request moved the document out of DRAFT
		return nil, fmt.Errorf("%w: document left DRAFT during update", ErrConflict)
	}

	if replaceItems {
		doc.LineItems = items
	}
	return doc, nil
}

// ChangeStatus moves a document to a new status, validating the
// transition against the per-type table. The write is conditional on the
// status it validated against; losing the race reloads and re-validates
// so the second writer observes the first's result.
func (s *DocumentService) ChangeStatus(ctx context.Context, companyID, id uuid.UUID, to domain.DocumentStatus) (*domain.Document, error) {
	for attempt := 0; attempt < maxStatusAttempts; attempt++ {
		doc, err := s.documents.FindByID(ctx, companyID, id)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, ErrNotFound
		}

		if !domain.ValidStatus(doc.Type, to) {
			return nil, fmt.Errorf("%w: unknown status %q for %s", ErrValidation, to, doc.Type)
		}
		if !domain.CanTransition(doc.Type, doc.Status, to) {
			return nil, fmt.Errorf("%w: %s -> %s is not allowed for %s", ErrIllegalTransition, doc.Status, to, doc.Type)
		}

		ok, err := s.documents.UpdateStatus(ctx, companyID, id, doc.Status, to)
		if err != nil {
			return nil, err
		}
		if ok {
			doc.Status = to
			return doc, nil
		}
	}
	return nil, ErrConflict
}

// Convert creates a DRAFT invoice from an ACCEPTED offer, copying totals
// and line items verbatim and linking both records. The offer keeps its
// ACCEPTED status; the conditional back-reference write guarantees at
// most one invoice per offer.
func (s *DocumentService) Convert(ctx context.Context, companyID, offerID uuid.UUID) (*domain.Document, error) {
	offer, err := s.documents.FindByID(ctx, companyID, offerID)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, ErrNotFound
	}
	if offer.Type != domain.DocumentTypeOffer {
		return nil, fmt.Errorf("%w: only offers can be converted", ErrPreconditionFailed)
	}
	if offer.Status != domain.StatusAccepted {
		return nil, fmt.Errorf("%w: offer must be ACCEPTED, is %s", ErrPreconditionFailed, offer.Status)
	}
	if offer.ConvertedToInvoiceID != nil {
		return nil, fmt.Errorf("%w: offer already converted", ErrPreconditionFailed)
	}

	template, err := s.templates.FindDefault(ctx, companyID, domain.DocumentTypeInvoice, offer.LanguageCode)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, fmt.Errorf("%w: no default invoice template for language %q", ErrPreconditionFailed, offer.LanguageCode)
	}

	now := s.now()
	due := now.AddDate(0, 0, defaultDueDays)

	invoice := &domain.Document{
		ID:                   uuid.New(),
		CompanyID:            companyID,
		CustomerID:           offer.CustomerID,
		Type:                 domain.DocumentTypeInvoice,
		Status:               domain.StatusDraft,
		IssueDate:            now,
		DueDate:              &due,
		TotalAmount:          offer.TotalAmount,
		TotalTax:             offer.TotalTax,
		TotalDiscount:        offer.TotalDiscount,
		LanguageCode:         offer.LanguageCode,
		PaymentTerms:         offer.PaymentTerms,
		Notes:                offer.Notes,
		ConvertedFromOfferID: &offer.ID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	items := make([]domain.LineItem, len(offer.LineItems))
	for i, src := range offer.LineItems {
		items[i] = domain.LineItem{
			ID:              uuid.New(),
			DocumentID:      invoice.ID,
			Position:        src.Position,
			Description:     src.Description,
			Quantity:        src.Quantity,
			UnitPrice:       src.UnitPrice,
			DiscountPercent: src.DiscountPercent,
			TaxRatePercent:  src.TaxRatePercent,
		}
	}

	converted, err := s.assignNumberAndInsert(ctx, invoice, func() (bool, error) {
		return s.documents.CreateConversion(ctx, offer.ID, invoice, items)
	})
	if err != nil {
		return nil, err
	}
	if !converted {
		return nil, fmt.Errorf("%w: offer already converted", ErrPreconditionFailed)
	}

	invoice.LineItems = items
	return invoice, nil
}

// Send emails the document to the customer and, when legal, advances the
// status to SENT. The transition is caller-driven: a resend of an
// already-sent document leaves the status untouched.
func (s *DocumentService) Send(ctx context.Context, companyID, id uuid.UUID, req *domain.SendDocumentRequest) (*domain.Document, error) {
	doc, err := s.documents.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}

	customer, err := s.customers.FindByID(ctx, companyID, doc.CustomerID)
	if err != nil {
		return nil, err
	}

	to := req.Recipient
	if to == "" && customer != nil {
		to = customer.Email
	}
	if to == "" {
		return nil, fmt.Errorf("%w: no recipient address", ErrValidation)
	}

	subject := req.Subject
	if subject == "" {
		subject = fmt.Sprintf("%s %s", documentTitle(doc.Type), doc.DocumentNumber)
	}

	body := req.Message
	if body == "" {
		body = defaultSendBody(doc, customer)
	}

	if err := s.mailer.Send(to, subject, body); err != nil {
		return nil, fmt.Errorf("failed to send document: %w", err)
	}

	if domain.CanTransition(doc.Type, doc.Status, domain.StatusSent) {
		ok, err := s.documents.UpdateStatus(ctx, companyID, id, doc.Status, domain.StatusSent)
		if err != nil {
			return nil, err
		}
		if ok {
			doc.Status = domain.StatusSent
		}
	}

	s.log.Info().
		Str("document_number", doc.DocumentNumber).
		Str("recipient", to).
		Msg("document sent")

	return doc, nil
}

// assignNumberAndInsert computes the next number in the document's series
// and runs the insert, retrying with a fresh number when a concurrent
// creation claimed it first.
func (s *DocumentService) assignNumberAndInsert(ctx context.Context, doc *domain.Document, insert func() (bool, error)) (bool, error) {
	year := doc.IssueDate.Year()
	prefix := domain.NumberSeriesPrefix(doc.Type, year)

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		latest, err := s.documents.LatestNumber(ctx, doc.CompanyID, prefix)
		if err != nil {
			return false, err
		}

		number, ok := domain.NextDocumentNumber(doc.Type, year, latest)
		if !ok {
			s.log.Warn().
				Str("latest", latest).
				Str("company_id", doc.CompanyID.String()).
				Msg("unparseable document number in series, sequence reset to 0001")
		}
		doc.DocumentNumber = number

		done, err := insert()
		if errors.Is(err, repository.ErrDuplicateNumber) {
			continue
		}
		if err != nil {
			return false, err
		}
		return done, nil
	}

	return false, fmt.Errorf("%w: could not allocate document number after %d attempts", ErrConflict, maxNumberAttempts)
}

func validateLineItems(items []domain.LineItemInput) error {
	for i, in := range items {
		if in.Description == "" {
			return fmt.Errorf("%w: line %d: description is required", ErrValidation, i+1)
		}
		if !in.Quantity.IsPositive() {
			return fmt.Errorf("%w: line %d: quantity must be positive", ErrValidation, i+1)
		}
		if in.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: line %d: unit price cannot be negative", ErrValidation, i+1)
		}
		if in.DiscountPercent != nil && (in.DiscountPercent.IsNegative() || in.DiscountPercent.GreaterThan(hundredPercent)) {
			return fmt.Errorf("%w: line %d: discount must be between 0 and 100", ErrValidation, i+1)
		}
		if in.TaxRatePercent != nil && (in.TaxRatePercent.IsNegative() || in.TaxRatePercent.GreaterThan(hundredPercent)) {
			return fmt.Errorf("%w: line %d: tax rate must be between 0 and 100", ErrValidation, i+1)
		}
	}
	return nil
}

func buildLineItems(documentID uuid.UUID, inputs []domain.LineItemInput) []domain.LineItem {
	items := make([]domain.LineItem, len(inputs))
	for i, in := range inputs {
		items[i] = in.LineItem(documentID, i+1)
	}
	return items
}

// changedFields lists non-status fields the request would modify,
// compared field by field against the stored document.
func changedFields(doc *domain.Document, req *domain.UpdateDocumentRequest) []string {
	var changed []string
	if req.CustomerID != nil && *req.CustomerID != doc.CustomerID {
		changed = append(changed, "customer_id")
	}
	if req.IssueDate != nil && !req.IssueDate.Equal(doc.IssueDate) {
		changed = append(changed, "issue_date")
	}
	if req.DueDate != nil && !timeEqual(req.DueDate, doc.DueDate) {
		changed = append(changed, "due_date")
	}
	if req.ValidUntil != nil && !timeEqual(req.ValidUntil, doc.ValidUntil) {
		changed = append(changed, "valid_until")
	}
	if req.LanguageCode != nil && *req.LanguageCode != doc.LanguageCode {
		changed = append(changed, "language_code")
	}
	if req.PaymentTerms != nil && *req.PaymentTerms != doc.PaymentTerms {
		changed = append(changed, "payment_terms")
	}
	if req.Notes != nil && *req.Notes != doc.Notes {
		changed = append(changed, "notes")
	}
	if req.PDFURL != nil && (doc.PDFURL == nil || *doc.PDFURL != *req.PDFURL) {
		changed = append(changed, "pdf_url")
	}
	if req.LineItems != nil {
		changed = append(changed, "line_items")
	}
	return changed
}

func timeEqual(a, b *time.Time) bool {
	if b == nil {
		return false
	}
	return a.Equal(*b)
}

func documentTitle(docType domain.DocumentType) string {
	if docType == domain.DocumentTypeInvoice {
		return "Invoice"
	}
	return "Offer"
}

func defaultSendBody(doc *domain.Document, customer *domain.Customer) string {
	name := "customer"
	if customer != nil && customer.Name != "" {
		name = customer.Name
	}
	body := fmt.Sprintf("Dear %s,\n\nPlease find %s %s for a total of %s.\n",
		name, documentTitle(doc.Type), doc.DocumentNumber, doc.GrandTotal().StringFixed(2))
	if doc.PDFURL != nil && *doc.PDFURL != "" {
		body += fmt.Sprintf("\nDownload: %s\n", *doc.PDFURL)
	}
	return body
}
