package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Number prefixes per document type
const (
	NumberPrefixInvoice = "INV"
	NumberPrefixOffer   = "OFFER"
)

// NumberPrefix returns the document-number prefix for a type
func NumberPrefix(docType DocumentType) string {
	if docType == DocumentTypeInvoice {
		return NumberPrefixInvoice
	}
	return NumberPrefixOffer
}

// NumberSeriesPrefix returns the "{PREFIX}-{YEAR}-" prefix that scopes a
// company's numbering series for one type and calendar year.
func NumberSeriesPrefix(docType DocumentType, year int) string {
	return fmt.Sprintf("%s-%d-", NumberPrefix(docType), year)
}

// NextDocumentNumber computes the next number in a company's series,
// formatted "{PREFIX}-{YEAR}-{0001}". latest is the highest existing
// number for the same company, type and year, or "" when none exists.
//
// The returned bool reports whether latest was usable: a non-empty latest
// that does not parse into PREFIX-YEAR-SEQ resets the sequence to 0001
// rather than blocking creation, and callers should log that.
func NextDocumentNumber(docType DocumentType, year int, latest string) (string, bool) {
	seq := 1
	ok := true

	if latest != "" {
		parts := strings.Split(latest, "-")
		if len(parts) == 3 {
			if n, err := strconv.Atoi(parts[2]); err == nil {
				seq = n + 1
			} else {
				ok = false
			}
		} else {
			ok = false
		}
	}

	return fmt.Sprintf("%s-%d-%04d", NumberPrefix(docType), year, seq), ok
}
