package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mjhoekstra/florijn/internal/model"
)

// Recognized CSV headers. Columns outside this set are ignored.
const (
	colDate           = "date"
	colAmount         = "amount"
	colDescription    = "description"
	colCounterParty   = "counterparty"
	colAccountName    = "account_name"
	colIBAN           = "iban"
	colCounterIBAN    = "counter_iban"
	colType           = "type"
	colNotes          = "notes"
	colReference      = "reference"
	colContributorTag = "contributor_tag"
	colID             = "id"
)

// ParseCSV reads a header-driven CSV export. The date and amount columns are
// required; everything else is optional and maps by header name. Rows that
// fail to parse abort the import with their record number, so a bad export
// never loads partially.
func ParseCSV(reader io.Reader) ([]model.Transaction, error) {
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns[colDate]; !ok {
		return nil, fmt.Errorf("CSV header is missing required column %q", colDate)
	}
	if _, ok := columns[colAmount]; !ok {
		return nil, fmt.Errorf("CSV header is missing required column %q", colAmount)
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var transactions []model.Transaction
	for row := 2; ; row++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", row, err)
		}

		date, ok := model.ParseDate(field(record, colDate))
		if !ok {
			return nil, fmt.Errorf("CSV row %d: unrecognized date %q (accepted formats: %s)",
				row, field(record, colDate), strings.Join(model.DateLayouts(), ", "))
		}

		amount, err := decimal.NewFromString(field(record, colAmount))
		if err != nil {
			return nil, fmt.Errorf("CSV row %d: invalid amount %q", row, field(record, colAmount))
		}

		txn := model.Transaction{
			ID:                field(record, colID),
			Date:              date,
			Amount:            amount,
			Description:       field(record, colDescription),
			CounterParty:      field(record, colCounterParty),
			AccountName:       field(record, colAccountName),
			IBAN:              field(record, colIBAN),
			CounterIBAN:       field(record, colCounterIBAN),
			Type:              field(record, colType),
			Notes:             field(record, colNotes),
			InternalReference: field(record, colReference),
			ContributorTag:    field(record, colContributorTag),
		}
		if txn.ID == "" {
			txn.ID = fmt.Sprintf("csv-%d", len(transactions)+1)
		}

		transactions = append(transactions, txn)
	}

	return transactions, nil
}
