package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/domain"
	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/repository"
)

// fakeDocumentStore is an in-memory DocumentStore with the same
// conditional-write semantics as the SQL repository.
type fakeDocumentStore struct {
	docs  map[uuid.UUID]*domain.Document
	items map[uuid.UUID][]domain.LineItem

	// forces the next n inserts to report a duplicate number
	duplicateInserts int
	// forces conditional status writes to miss
	failStatusWrites bool
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{
		docs:  make(map[uuid.UUID]*domain.Document),
		items: make(map[uuid.UUID][]domain.LineItem),
	}
}

func (f *fakeDocumentStore) FindByID(ctx context.Context, companyID, id uuid.UUID) (*domain.Document, error) {
	doc, ok := f.docs[id]
	if !ok || doc.CompanyID != companyID {
		return nil, nil
	}
	copied := *doc
	copied.LineItems = append([]domain.LineItem(nil), f.items[id]...)
	return &copied, nil
}

func (f *fakeDocumentStore) List(ctx context.Context, companyID uuid.UUID, filter domain.DocumentFilter) ([]domain.Document, error) {
	var out []domain.Document
	for _, doc := range f.docs {
		if doc.CompanyID != companyID {
			continue
		}
		if filter.Type != nil && doc.Type != *filter.Type {
			continue
		}
		if filter.Status != nil && doc.Status != *filter.Status {
			continue
		}
		if filter.CustomerID != nil && doc.CustomerID != *filter.CustomerID {
			continue
		}
		out = append(out, *doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocumentNumber < out[j].DocumentNumber })
	return out, nil
}

func (f *fakeDocumentStore) LatestNumber(ctx context.Context, companyID uuid.UUID, seriesPrefix string) (string, error) {
	latest := ""
	for _, doc := range f.docs {
		if doc.CompanyID != companyID || !strings.HasPrefix(doc.DocumentNumber, seriesPrefix) {
			continue
		}
		if doc.DocumentNumber > latest {
			latest = doc.DocumentNumber
		}
	}
	return latest, nil
}

func (f *fakeDocumentStore) insert(doc *domain.Document, items []domain.LineItem) error {
	if f.duplicateInserts > 0 {
		f.duplicateInserts--
		return repository.ErrDuplicateNumber
	}
	for _, existing := range f.docs {
		if existing.CompanyID == doc.CompanyID && existing.DocumentNumber == doc.DocumentNumber {
			return repository.ErrDuplicateNumber
		}
	}
	copied := *doc
	f.docs[doc.ID] = &copied
	f.items[doc.ID] = append([]domain.LineItem(nil), items...)
	return nil
}

func (f *fakeDocumentStore) Create(ctx context.Context, doc *domain.Document, items []domain.LineItem) error {
	return f.insert(doc, items)
}

func (f *fakeDocumentStore) UpdateDraft(ctx context.Context, doc *domain.Document, items []domain.LineItem, replaceItems bool) (bool, error) {
	stored, ok := f.docs[doc.ID]
	if !ok || stored.Status != domain.StatusDraft {
		return false, nil
	}
	copied := *doc
	f.docs[doc.ID] = &copied
	if replaceItems {
		f.items[doc.ID] = append([]domain.LineItem(nil), items...)
	}
	return true, nil
}

func (f *fakeDocumentStore) UpdateStatus(ctx context.Context, companyID, id uuid.UUID, from, to domain.DocumentStatus) (bool, error) {
	if f.failStatusWrites {
		return false, nil
	}
	stored, ok := f.docs[id]
	if !ok || stored.CompanyID != companyID || stored.Status != from {
		return false, nil
	}
	stored.Status = to
	return true, nil
}

func (f *fakeDocumentStore) CreateConversion(ctx context.Context, offerID uuid.UUID, invoice *domain.Document, items []domain.LineItem) (bool, error) {
	offer, ok := f.docs[offerID]
	if !ok || offer.Status != domain.StatusAccepted || offer.ConvertedToInvoiceID != nil {
		return false, nil
	}
	if err := f.insert(invoice, items); err != nil {
		return false, err
	}
	invoiceID := invoice.ID
	offer.ConvertedToInvoiceID = &invoiceID
	return true, nil
}

type fakeCustomerStore struct {
	customers map[uuid.UUID]*domain.Customer
}

func (f *fakeCustomerStore) FindByID(ctx context.Context, companyID, id uuid.UUID) (*domain.Customer, error) {
	c, ok := f.customers[id]
	if !ok || c.CompanyID != companyID {
		return nil, nil
	}
	return c, nil
}

type fakeTemplateStore struct {
	templates []*domain.Template
}

func (f *fakeTemplateStore) FindDefault(ctx context.Context, companyID uuid.UUID, docType domain.DocumentType, languageCode string) (*domain.Template, error) {
	for _, tpl := range f.templates {
		if tpl.CompanyID == companyID && tpl.Type == docType && tpl.LanguageCode == languageCode && tpl.IsDefault {
			return tpl, nil
		}
	}
	return nil, nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) Send(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type fixture struct {
	service   *DocumentService
	store     *fakeDocumentStore
	mailer    *fakeMailer
	companyID uuid.UUID
	customer  *domain.Customer
}

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	companyID := uuid.New()
	customer := &domain.Customer{
		ID:           uuid.New(),
		CompanyID:    companyID,
		Name:         "Acme BV",
		Email:        "billing@acme.example",
		LanguageCode: "nl",
	}

	store := newFakeDocumentStore()
	mailer := &fakeMailer{}
	templates := &fakeTemplateStore{templates: []*domain.Template{
		{
			ID:           uuid.New(),
			CompanyID:    companyID,
			Type:         domain.DocumentTypeInvoice,
			LanguageCode: "nl",
			Name:         "Standaard factuur",
			IsDefault:    true,
		},
	}}
	customers := &fakeCustomerStore{customers: map[uuid.UUID]*domain.Customer{customer.ID: customer}}

	svc := NewDocumentService(store, customers, templates, mailer, zerolog.Nop())
	svc.now = func() time.Time { return testNow }

	return &fixture{
		service:   svc,
		store:     store,
		mailer:    mailer,
		companyID: companyID,
		customer:  customer,
	}
}

func lineInput(description, qty, price, discount, tax string) domain.LineItemInput {
	in := domain.LineItemInput{
		Description: description,
		Quantity:    decimal.RequireFromString(qty),
		UnitPrice:   decimal.RequireFromString(price),
	}
	if discount != "" {
		d := decimal.RequireFromString(discount)
		in.DiscountPercent = &d
	}
	if tax != "" {
		r := decimal.RequireFromString(tax)
		in.TaxRatePercent = &r
	}
	return in
}

func createOffer(t *testing.T, fx *fixture) *domain.Document {
	t.Helper()
	offer, err := fx.service.Create(context.Background(), fx.companyID, &domain.CreateDocumentRequest{
		Type:       domain.DocumentTypeOffer,
		CustomerID: fx.customer.ID,
		LineItems: []domain.LineItemInput{
			lineInput("Consulting", "2", "400", "10", "21"),
			lineInput("Travel", "1", "300", "", "21"),
		},
	})
	if err != nil {
		t.Fatalf("Create offer failed: %v", err)
	}
	return offer
}

func TestCreateOffer(t *testing.T) {
	fx := newFixture(t)
	offer := createOffer(t, fx)

	if offer.Status != domain.StatusDraft {
		t.Errorf("status = %s, want DRAFT", offer.Status)
	}
	if offer.DocumentNumber != "OFFER-2026-0001" {
		t.Errorf("number = %q, want OFFER-2026-0001", offer.DocumentNumber)
	}
	if offer.LanguageCode != "nl" {
		t.Errorf("language = %q, want customer default nl", offer.LanguageCode)
	}
	if offer.DueDate != nil {
		t.Error("offer should not carry a due date")
	}
	if !offer.TotalAmount.Equal(decimal.RequireFromString("1020")) {
		t.Errorf("TotalAmount = %s, want 1020", offer.TotalAmount)
	}
	if !offer.TotalTax.Equal(decimal.RequireFromString("214.2")) {
		t.Errorf("TotalTax = %s, want 214.2", offer.TotalTax)
	}
	if !offer.TotalDiscount.Equal(decimal.RequireFromString("80")) {
		t.Errorf("TotalDiscount = %s, want 80", offer.TotalDiscount)
	}
	if !offer.GrandTotal().Equal(decimal.RequireFromString("1234.2")) {
		t.Errorf("GrandTotal = %s, want 1234.2", offer.GrandTotal())
	}
	if len(offer.LineItems) != 2 || offer.LineItems[0].Position != 1 || offer.LineItems[1].Position != 2 {
		t.Errorf("line items not positioned: %+v", offer.LineItems)
	}
}

func TestCreateInvoiceDefaultsDueDate(t *testing.T) {
	fx := newFixture(t)

	invoice, err := fx.service.Create(context.Background(), fx.companyID, &domain.CreateDocumentRequest{
		Type:       domain.DocumentTypeInvoice,
		CustomerID: fx.customer.ID,
		LineItems:  []domain.LineItemInput{lineInput("Work", "1", "100", "", "")},
	})
	if err != nil {
		t.Fatalf("Create invoice failed: %v", err)
	}

	if invoice.DocumentNumber != "INV-2026-0001" {
		t.Errorf("number = %q, want INV-2026-0001", invoice.DocumentNumber)
	}
	if invoice.DueDate == nil {
		t.Fatal("invoice should carry a due date")
	}
	want := testNow.AddDate(0, 0, 30)
	if !invoice.DueDate.Equal(want) {
		t.Errorf("due date = %s, want %s", invoice.DueDate, want)
	}
}

func TestCreateNumberingIsPerTypeSeries(t *testing.T) {
	fx := newFixture(t)

	createOffer(t, fx)
	second := createOffer(t, fx)
	if second.DocumentNumber != "OFFER-2026-0002" {
		t.Errorf("second offer number = %q, want OFFER-2026-0002", second.DocumentNumber)
	}

	invoice, err := fx.service.Create(context.Background(), fx.companyID, &domain.CreateDocumentRequest{
		Type:       domain.DocumentTypeInvoice,
		CustomerID: fx.customer.ID,
		LineItems:  []domain.LineItemInput{lineInput("Work", "1", "100", "", "")},
	})
	if err != nil {
		t.Fatalf("Create invoice failed: %v", err)
	}
	if invoice.DocumentNumber != "INV-2026-0001" {
		t.Errorf("invoice number = %q, want its own series to start at 0001", invoice.DocumentNumber)
	}
}

func TestCreateRetriesOnDuplicateNumber(t *testing.T) {
	fx := newFixture(t)
	fx.store.duplicateInserts = 2

	offer := createOffer(t, fx)
	if offer.DocumentNumber != "OFFER-2026-0001" {
		t.Errorf("number = %q, want OFFER-2026-0001", offer.DocumentNumber)
	}
}

func TestCreateGivesUpAfterRepeatedDuplicates(t *testing.T) {
	fx := newFixture(t)
	fx.store.duplicateInserts = maxNumberAttempts

	_, err := fx.service.Create(context.Background(), fx.companyID, &domain.CreateDocumentRequest{
		Type:       domain.DocumentTypeOffer,
		CustomerID: fx.customer.ID,
		LineItems:  []domain.LineItemInput{lineInput("Work", "1", "100", "", "")},
	})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestCreateValidation(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  domain.CreateDocumentRequest
	}{
		{
			name: "unknown type",
			req:  domain.CreateDocumentRequest{Type: "RECEIPT", CustomerID: fx.customer.ID},
		},
		{
			name: "missing customer",
			req:  domain.CreateDocumentRequest{Type: domain.DocumentTypeOffer},
		},
		{
			name: "unknown customer",
			req:  domain.CreateDocumentRequest{Type: domain.DocumentTypeOffer, CustomerID: uuid.New()},
		},
		{
			name: "empty description",
			req: domain.CreateDocumentRequest{
				Type: domain.DocumentTypeOffer, CustomerID: fx.customer.ID,
				LineItems: []domain.LineItemInput{lineInput("", "1", "10", "", "")},
			},
		},
		{
			name: "zero quantity",
			req: domain.CreateDocumentRequest{
				Type: domain.DocumentTypeOffer, CustomerID: fx.customer.ID,
				LineItems: []domain.LineItemInput{lineInput("Work", "0", "10", "", "")},
			},
		},
		{
			name: "negative price",
			req: domain.CreateDocumentRequest{
				Type: domain.DocumentTypeOffer, CustomerID: fx.customer.ID,
				LineItems: []domain.LineItemInput{lineInput("Work", "1", "-10", "", "")},
			},
		},
		{
			name: "discount over 100",
			req: domain.CreateDocumentRequest{
				Type: domain.DocumentTypeOffer, CustomerID: fx.customer.ID,
				LineItems: []domain.LineItemInput{lineInput("Work", "1", "10", "101", "")},
			},
		},
		{
			name: "negative tax rate",
			req: domain.CreateDocumentRequest{
				Type: domain.DocumentTypeOffer, CustomerID: fx.customer.ID,
				LineItems: []domain.LineItemInput{lineInput("Work", "1", "10", "", "-1")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.service.Create(ctx, fx.companyID, &tt.req)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestUpdateDraftReplacesLineItems(t *testing.T) {
	fx := newFixture(t)
	offer := createOffer(t, fx)

	notes := "updated terms"
	updated, err := fx.service.Update(context.Background(), fx.companyID, offer.ID, &domain.UpdateDocumentRequest{
		Notes:     &notes,
		LineItems: []domain.LineItemInput{lineInput("Fixed fee", "1", "500", "", "21")},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Notes != "updated terms" {
		t.Errorf("notes = %q", updated.Notes)
	}
	if !updated.TotalAmount.Equal(decimal.RequireFromString("500")) {
		t.Errorf("TotalAmount = %s, want 500 after item replacement", updated.TotalAmount)
	}
	if !updated.TotalTax.Equal(decimal.RequireFromString("105")) {
		t.Errorf("TotalTax = %s, want 105", updated.TotalTax)
	}
	if len(updated.LineItems) != 1 {
		t.Errorf("line items = %d, want 1", len(updated.LineItems))
	}

	stored, _ := fx.store.FindByID(context.Background(), fx.companyID, offer.ID)
	if len(stored.LineItems) != 1 {
		t.Errorf("stored line items = %d, want 1", len(stored.LineItems))
	}
}

func TestUpdateRejectsDueDateOnOffer(t *testing.T) {
	fx := newFixture(t)
	offer := createOffer(t, fx)

	due := testNow.AddDate(0, 0, 14)
	_, err := fx.service.Update(context.Background(), fx.companyID, offer.ID, &domain.UpdateDocumentRequest{
		DueDate: &due,
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestUpdateLockedOutsideDraft(t *testing.T) {
	fx := newFixture(t)
	offer := createOffer(t, fx)

	if _, err := fx.service.ChangeStatus(context.Background(), fx.companyID, offer.ID, domain.StatusSent); err != nil {
		t.Fatalf("ChangeStatus failed: %v", err)
	}

	notes := "late edit"
	_, err := fx.service.Update(context.Background(), fx.companyID, offer.ID, &domain.UpdateDocumentRequest{
		Notes: &notes,
	})
	if !errors.Is(err, ErrEditLocked) {
		t.Errorf("err = %v, want ErrEditLocked", err)
	}

	// A content change combined with a status change is still rejected
	accepted := domain.StatusAccepted
	_, err = fx.service.Update(context.Background(), fx.companyID, offer.ID, &domain.UpdateDocumentRequest{
		Notes:  &notes,
		Status: &accepted,
	})
	if !errors.Is(err, ErrEditLocked) {
		t.Errorf("err = %v, want ErrEditLocked", err)
	}
}

func TestUpdateStatusOnlyOutsideDraft(t *testing.T) {
	fx := newFixture(t)
	offer := createOffer(t, fx)

	if _, err := fx.service.ChangeStatus(context.Background(), fx.companyID, offer.ID, domain.StatusSent); err != nil {
		t.Fatalf("ChangeStatus failed: %v", err)
	}

	accepted := domain.StatusAccepted
	updated, err := fx.service.Update(context.Background(), fx.companyID, offer.ID, &domain.UpdateDocumentRequest{
		Status: &accepted,
	})
	if err != nil {
		t.Fatalf("status-only update failed: %v", err)
	}
	if updated.Status != domain.StatusAccepted {
		t.Errorf("status = %s, want ACCEPTED", updated.Status)
	}

	// Resubmitting the unchanged fields is a no-op, not an error
	same, err := fx.service.Update(context.Background(), fx.companyID, offer.ID, &domain.UpdateDocumentRequest{
		Status: &accepted,
	})
	if err != nil {
		t.Fatalf("no-op update failed: %v", err)
	}
	if same.Status != domain.StatusAccepted {
		t.Errorf("status = %s, want ACCEPTED", same.Status)
	}
}

func TestChangeStatus(t *testing.T) {
	fx := newFixture(t)
	offer := createOffer(t, fx)
	ctx := context.Background()

	doc, err := fx.service.ChangeStatus(ctx, fx.companyID, offer.ID, domain.StatusSent)
	if err != nil {
		t.Fatalf("DRAFT -> SENT failed: %v", err)
	}
	if doc.Status != domain.StatusSent {
		t.Errorf("status = %s, want SENT", doc.Status)
	}

	if _, err := fx.service.ChangeStatus(ctx, fx.companyID, offer.ID, domain.StatusDraft); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("SENT -> DRAFT err = %v, want ErrIllegalTransition", err)
	}
	if _, err := fx.service.ChangeStatus(ctx, fx.companyID, offer.ID, domain.StatusPaid); !errors.Is(err, ErrValidation) {
		t.Errorf("offer -> PAID err = %v, want ErrValidation", err)
	}
	if _, err := fx.service.ChangeStatus(ctx, fx.companyID, uuid.New(), domain.StatusSent); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id err = %v, want ErrNotFound", err)
	}
}

func TestChangeStatusConflict(t *testing.T) {
	fx := newFixture(t)
	offer := createOffer(t, fx)
	fx.store.failStatusWrites = true

	_, err := fx.service.ChangeStatus(context.Background(), fx.companyID, offer.ID, domain.StatusSent)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("err = %v, want ErrConflict when conditional write keeps missing", err)
	}
}

func acceptOffer(t *testing.T, fx *fixture, offerID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	if _, err := fx.service.ChangeStatus(ctx, fx.companyID, offerID, domain.StatusSent); err != nil {
		t.Fatalf("to SENT: %v", err)
	}
	if _, err := fx.service.ChangeStatus(ctx, fx.companyID, offerID, domain.StatusAccepted); err != nil {
		t.Fatalf("to ACCEPTED: %v", err)
	}
}

func TestConvert(t *testing.T) {
	fx := newFixture(t)
	offer := createOffer(t, fx)
	acceptOffer(t, fx, offer.ID)

	invoice, err := fx.service.Convert(context.Background(), fx.companyID, offer.ID)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if invoice.Type != domain.DocumentTypeInvoice {
		t.Errorf("type = %s, want INVOICE", invoice.Type)
	}
	if invoice.Status != domain.StatusDraft {
		t.Errorf("status = %s, want DRAFT", invoice.Status)
	}
	if invoice.DocumentNumber != "INV-2026-0001" {
		t.Errorf("number = %q, want INV-2026-0001", invoice.DocumentNumber)
	}
	if invoice.ConvertedFromOfferID == nil || *invoice.ConvertedFromOfferID != offer.ID {
		t.Error("invoice should link back to the offer")
	}
	if !invoice.TotalAmount.Equal(offer.TotalAmount) || !invoice.TotalTax.Equal(offer.TotalTax) || !invoice.TotalDiscount.Equal(offer.TotalDiscount) {
		t.Error("invoice totals should match the offer verbatim")
	}
	if len(invoice.LineItems) != len(offer.LineItems) {
		t.Fatalf("line items = %d, want %d", len(invoice.LineItems), len(offer.LineItems))
	}
	for i, item := range invoice.LineItems {
		src := offer.LineItems[i]
		if item.ID == src.ID || item.DocumentID != invoice.ID {
			t.Errorf("line %d not cloned under the invoice", i)
		}
		if item.Description != src.Description || !item.Quantity.Equal(src.Quantity) || !item.UnitPrice.Equal(src.UnitPrice) {
			t.Errorf("line %d content differs from the offer", i)
		}
	}

	stored, _ := fx.store.FindByID(context.Background(), fx.companyID, offer.ID)
	if stored.Status != domain.StatusAccepted {
		t.Errorf("offer status = %s, conversion must not change it", stored.Status)
	}
	if stored.ConvertedToInvoiceID == nil || *stored.ConvertedToInvoiceID != invoice.ID {
		t.Error("offer should link to the created invoice")
	}
}

func TestConvertIsNotRepeatable(t *testing.T) {
	fx := newFixture(t)
	offer := createOffer(t, fx)
	acceptOffer(t, fx, offer.ID)

	if _, err := fx.service.Convert(context.Background(), fx.companyID, offer.ID); err != nil {
		t.Fatalf("first Convert failed: %v", err)
	}
	_, err := fx.service.Convert(context.Background(), fx.companyID, offer.ID)
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("second Convert err = %v, want ErrPreconditionFailed", err)
	}
}

func TestConvertPreconditions(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	draft := createOffer(t, fx)
	if _, err := fx.service.Convert(ctx, fx.companyID, draft.ID); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("DRAFT offer err = %v, want ErrPreconditionFailed", err)
	}

	invoice, err := fx.service.Create(ctx, fx.companyID, &domain.CreateDocumentRequest{
		Type:       domain.DocumentTypeInvoice,
		CustomerID: fx.customer.ID,
		LineItems:  []domain.LineItemInput{lineInput("Work", "1", "100", "", "")},
	})
	if err != nil {
		t.Fatalf("Create invoice failed: %v", err)
	}
	if _, err := fx.service.Convert(ctx, fx.companyID, invoice.ID); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("invoice err = %v, want ErrPreconditionFailed", err)
	}

	if _, err := fx.service.Convert(ctx, fx.companyID, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id err = %v, want ErrNotFound", err)
	}
}

func TestConvertRequiresDefaultTemplate(t *testing.T) {
	fx := newFixture(t)
	fx.customer.LanguageCode = "de"

	offer := createOffer(t, fx)
	acceptOffer(t, fx, offer.ID)

	_, err := fx.service.Convert(context.Background(), fx.companyID, offer.ID)
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("err = %v, want ErrPreconditionFailed without a default template for %q", err, "de")
	}
}

func TestSend(t *testing.T) {
	fx := newFixture(t)
	offer := createOffer(t, fx)

	doc, err := fx.service.Send(context.Background(), fx.companyID, offer.ID, &domain.SendDocumentRequest{})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if len(fx.mailer.sent) != 1 || fx.mailer.sent[0] != "billing@acme.example" {
		t.Errorf("recipient = %v, want customer email", fx.mailer.sent)
	}
	if doc.Status != domain.StatusSent {
		t.Errorf("status = %s, want SENT", doc.Status)
	}
}

func TestSendResendKeepsStatus(t *testing.T) {
	fx := newFixture(t)
	offer := createOffer(t, fx)
	ctx := context.Background()

	if _, err := fx.service.Send(ctx, fx.companyID, offer.ID, &domain.SendDocumentRequest{}); err != nil {
		t.Fatalf("first Send failed: %v", err)
	}
	doc, err := fx.service.Send(ctx, fx.companyID, offer.ID, &domain.SendDocumentRequest{Recipient: "other@acme.example"})
	if err != nil {
		t.Fatalf("resend failed: %v", err)
	}

	if doc.Status != domain.StatusSent {
		t.Errorf("status = %s, want SENT after resend", doc.Status)
	}
	if len(fx.mailer.sent) != 2 || fx.mailer.sent[1] != "other@acme.example" {
		t.Errorf("sent = %v, want explicit recipient honored", fx.mailer.sent)
	}
}

func TestSendWithoutRecipient(t *testing.T) {
	fx := newFixture(t)
	fx.customer.Email = ""
	offer := createOffer(t, fx)

	_, err := fx.service.Send(context.Background(), fx.companyID, offer.ID, &domain.SendDocumentRequest{})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestSendMailerFailureKeepsStatus(t *testing.T) {
	fx := newFixture(t)
	offer := createOffer(t, fx)
	fx.mailer.err = errors.New("smtp down")

	_, err := fx.service.Send(context.Background(), fx.companyID, offer.ID, &domain.SendDocumentRequest{})
	if err == nil {
		t.Fatal("expected error from failing mailer")
	}

	stored, _ := fx.store.FindByID(context.Background(), fx.companyID, offer.ID)
	if stored.Status != domain.StatusDraft {
		t.Errorf("status = %s, want DRAFT when delivery fails", stored.Status)
	}
}

func TestGetScopedByCompany(t *testing.T) {
	fx := newFixture(t)
	offer := createOffer(t, fx)

	if _, err := fx.service.Get(context.Background(), uuid.New(), offer.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign company err = %v, want ErrNotFound", err)
	}
}

func TestListFilters(t *testing.T) {
	fx := newFixture(t)
	createOffer(t, fx)
	offer := createOffer(t, fx)
	acceptOffer(t, fx, offer.ID)

	accepted := domain.StatusAccepted
	docs, err := fx.service.List(context.Background(), fx.companyID, domain.DocumentFilter{Status: &accepted})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != offer.ID {
		t.Errorf("filtered list = %d docs, want the single ACCEPTED offer", len(docs))
	}

	offerType := domain.DocumentTypeOffer
	docs, err = fx.service.List(context.Background(), fx.companyID, domain.DocumentFilter{Type: &offerType})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("type filter = %d docs, want 2 offers", len(docs))
	}
}
