// Package model defines the core domain models used throughout the application.
package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the canonical layout for dates in field extraction and storage.
const DateFormat = "2006-01-02"

// DateLayouts returns the accepted textual date formats, tried in order by
// ParseDate. Both trigger values and CSV imports use the same set.
func DateLayouts() []string {
	return []string{DateFormat, "02-01-2006", "02/01/2006"}
}

// ParseDate parses a date string against the accepted layouts in order.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts() {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Transaction represents a single financial transaction from any source.
type Transaction struct {
	Date   time.Time
	Amount decimal.Decimal
	ID     string

	Description  string // Raw transaction description from the bank export
	AccountName  string
	CounterParty string // Raw counter-party / merchant string
	IBAN         string
	CounterIBAN  string
	Type         string // Transaction type (e.g. DEBIT, CREDIT, TRANSFER)

	// Optional metadata that may be available depending on source
	Category          string // Category already assigned upstream, if any
	Notes             string
	InternalReference string
	ContributorTag    string // Donation platform tag, set during ingestion
}
