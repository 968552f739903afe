package domain

// Legal status transitions per document type. A status missing from the
// map, or mapped to an empty set, is terminal.
var offerTransitions = map[DocumentStatus][]DocumentStatus{
	StatusDraft:    {StatusSent, StatusVoided},
	StatusSent:     {StatusAccepted, StatusDeclined, StatusExpired, StatusVoided},
	StatusAccepted: {StatusVoided},
	StatusDeclined: {},
	StatusExpired:  {},
	StatusVoided:   {},
}

var invoiceTransitions = map[DocumentStatus][]DocumentStatus{
	StatusDraft:         {StatusSent, StatusVoided},
	StatusSent:          {StatusPaid, StatusPartiallyPaid, StatusOverdue, StatusVoided},
	StatusPartiallyPaid: {StatusPaid, StatusOverdue, StatusVoided},
	StatusOverdue:       {StatusPaid, StatusPartiallyPaid, StatusVoided},
	StatusPaid:          {StatusVoided},
	StatusVoided:        {},
}

func transitionTable(docType DocumentType) map[DocumentStatus][]DocumentStatus {
	if docType == DocumentTypeInvoice {
		return invoiceTransitions
	}
	return offerTransitions
}

// ValidStatus reports whether status exists at all for the document type
func ValidStatus(docType DocumentType, status DocumentStatus) bool {
	_, ok := transitionTable(docType)[status]
	return ok
}

// NextStatuses returns the statuses a document may legally move to.
// Terminal statuses return an empty set.
func NextStatuses(docType DocumentType, from DocumentStatus) []DocumentStatus {
	return transitionTable(docType)[from]
}

// CanTransition reports whether from -> to is a legal transition for the
// document type. Staying on the same status is not a transition.
func CanTransition(docType DocumentType, from, to DocumentStatus) bool {
	for _, next := range NextStatuses(docType, from) {
		if next == to {
			return true
		}
	}
	return false
}
