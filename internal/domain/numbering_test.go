package domain

import "testing"

func TestNumberSeriesPrefix(t *testing.T) {
	if got := NumberSeriesPrefix(DocumentTypeInvoice, 2026); got != "INV-2026-" {
		t.Errorf("invoice prefix = %q, want INV-2026-", got)
	}
	if got := NumberSeriesPrefix(DocumentTypeOffer, 2025); got != "OFFER-2025-" {
		t.Errorf("offer prefix = %q, want OFFER-2025-", got)
	}
}

func TestNextDocumentNumber(t *testing.T) {
	tests := []struct {
		name    string
		docType DocumentType
		year    int
		latest  string
		want    string
		wantOK  bool
	}{
		{
			name:    "first number in series",
			docType: DocumentTypeInvoice,
			year:    2026,
			latest:  "",
			want:    "INV-2026-0001",
			wantOK:  true,
		},
		{
			name:    "increments latest",
			docType: DocumentTypeInvoice,
			year:    2026,
			latest:  "INV-2026-0041",
			want:    "INV-2026-0042",
			wantOK:  true,
		},
		{
			name:    "offer series",
			docType: DocumentTypeOffer,
			year:    2026,
			latest:  "OFFER-2026-0007",
			want:    "OFFER-2026-0008",
			wantOK:  true,
		},
		{
			name:    "sequence beyond four digits",
			docType: DocumentTypeInvoice,
			year:    2026,
			latest:  "INV-2026-9999",
			want:    "INV-2026-10000",
			wantOK:  true,
		},
		{
			name:    "new year starts at 0001",
			docType: DocumentTypeInvoice,
			year:    2027,
			latest:  "",
			want:    "INV-2027-0001",
			wantOK:  true,
		},
		{
			name:    "malformed latest resets sequence",
			docType: DocumentTypeInvoice,
			year:    2026,
			latest:  "INV-2026-00X1",
			want:    "INV-2026-0001",
			wantOK:  false,
		},
		{
			name:    "wrong segment count resets sequence",
			docType: DocumentTypeOffer,
			year:    2026,
			latest:  "garbage",
			want:    "OFFER-2026-0001",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextDocumentNumber(tt.docType, tt.year, tt.latest)
			if got != tt.want {
				t.Errorf("number = %q, want %q", got, tt.want)
			}
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}
