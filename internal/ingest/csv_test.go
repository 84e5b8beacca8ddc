package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSVMapsRecognizedColumns(t *testing.T) {
	input := strings.Join([]string{
		"id,date,amount,description,counterparty,account_name,iban,counter_iban,type,notes,reference,contributor_tag",
		"tx-1,2025-03-14,-23.45,Betaalautomaat,ALBERT HEIJN 1308,Betaalrekening,NL91ABNA0417164300,NL27INGB0000026500,DEBIT,pinpas,REF-1,",
		"tx-2,14-03-2025,5.00,Donatie,GITHUB SPONSORS,,,,CREDIT,,," + "github-sponsors",
	}, "\n")

	transactions, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	tx1 := transactions[0]
	assert.Equal(t, "tx-1", tx1.ID)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), tx1.Date)
	assert.True(t, tx1.Amount.Equal(decimal.RequireFromString("-23.45")))
	assert.Equal(t, "Betaalautomaat", tx1.Description)
	assert.Equal(t, "ALBERT HEIJN 1308", tx1.CounterParty)
	assert.Equal(t, "Betaalrekening", tx1.AccountName)
	assert.Equal(t, "NL91ABNA0417164300", tx1.IBAN)
	assert.Equal(t, "NL27INGB0000026500", tx1.CounterIBAN)
	assert.Equal(t, "DEBIT", tx1.Type)
	assert.Equal(t, "pinpas", tx1.Notes)
	assert.Equal(t, "REF-1", tx1.InternalReference)
	assert.Empty(t, tx1.ContributorTag)

	tx2 := transactions[1]
	assert.Equal(t, "tx-2", tx2.ID)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), tx2.Date,
		"Dutch dashed dates should parse")
	assert.Equal(t, "github-sponsors", tx2.ContributorTag)
}

func TestParseCSVGeneratesIDsWhenMissing(t *testing.T) {
	input := "date,amount,counterparty\n" +
		"2025-03-14,-10.00,JUMBO 044\n" +
		"2025-03-15,-20.00,LIDL 12\n"

	transactions, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, "csv-1", transactions[0].ID)
	assert.Equal(t, "csv-2", transactions[1].ID)
}

func TestParseCSVIgnoresUnknownColumns(t *testing.T) {
	input := "date,amount,saldo_na_boeking,counterparty\n" +
		"2025-03-14,-10.00,1234.56,JUMBO 044\n"

	transactions, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "JUMBO 044", transactions[0].CounterParty)
}

func TestParseCSVHeaderIsCaseInsensitive(t *testing.T) {
	input := "Date, Amount ,COUNTERPARTY\n2025-03-14,-10.00,JUMBO 044\n"

	transactions, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "JUMBO 044", transactions[0].CounterParty)
}

func TestParseCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "missing date column",
			input:   "amount,counterparty\n-10.00,JUMBO\n",
			wantErr: `missing required column "date"`,
		},
		{
			name:    "missing amount column",
			input:   "date,counterparty\n2025-03-14,JUMBO\n",
			wantErr: `missing required column "amount"`,
		},
		{
			name:    "unparseable date reports the row",
			input:   "date,amount\n2025-03-14,-10.00\nmorgen,-5.00\n",
			wantErr: "row 3",
		},
		{
			name:    "unparseable amount reports the row",
			input:   "date,amount\n2025-03-14,tientje\n",
			wantErr: "row 2",
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: "header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
