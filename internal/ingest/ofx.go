// Package ingest reads bank exports (OFX/QFX and CSV) into transactions.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/mjhoekstra/florijn/internal/model"
)

// Preprocessing patterns for common bank-export quirks, compiled once.
var (
	// Mixed-case SEVERITY values (should be INFO, WARN, or ERROR).
	severityRe = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// SGML-style opening tags missing their closing angle bracket.
	openTagRe = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// counterPartyPrefixes are transaction-name prefixes that Dutch bank exports
// prepend before the actual merchant.
var counterPartyPrefixes = []string{
	"BEA, ",
	"GEA, ",
	"SEPA IDEAL ",
	"SEPA INCASSO ",
	"SEPA OVERBOEKING ",
	"POS PURCHASE ",
	"CARD PAYMENT ",
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRe.ReplaceAllStringFunc(content, strings.ToUpper)
	content = openTagRe.ReplaceAllString(content, "$1>")
	return content
}

// ParseFile parses an OFX/QFX file and returns transactions from every bank
// and credit-card statement it contains.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			bankStmts++
			converted := p.convertStatement(stmt.BankTranList.Transactions, string(stmt.BankAcctFrom.AcctID))
			transactions = append(transactions, converted...)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			ccStmts++
			converted := p.convertStatement(stmt.BankTranList.Transactions, string(stmt.CCAcctFrom.AcctID))
			transactions = append(transactions, converted...)
		}
	}

	slog.Info("parsed OFX file",
		"transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

// convertStatement converts one statement's transactions, skipping entries
// that cannot be converted rather than failing the whole file.
func (p *Parser) convertStatement(ofxTxns []ofxgo.Transaction, accountID string) []model.Transaction {
	transactions := make([]model.Transaction, 0, len(ofxTxns))
	for _, ofxTx := range ofxTxns {
		txn, err := p.convertTransaction(ofxTx, accountID)
		if err != nil {
			slog.Warn("skipping OFX transaction",
				"fitid", string(ofxTx.FiTID),
				"error", err)
			continue
		}
		transactions = append(transactions, txn)
	}
	return transactions
}

// convertTransaction converts an OFX transaction to our model. Amounts come
// through the OFX rational's decimal rendering, never a float.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, accountID string) (model.Transaction, error) {
	amount, err := decimal.NewFromString(ofxTx.TrnAmt.String())
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to parse amount %q: %w", ofxTx.TrnAmt.String(), err)
	}

	txn := model.Transaction{
		ID:                string(ofxTx.FiTID),
		Date:              ofxTx.DtPosted.Time,
		Amount:            amount,
		Description:       strings.TrimSpace(string(ofxTx.Name)),
		CounterParty:      p.extractCounterParty(ofxTx),
		IBAN:              accountID,
		Type:              fmt.Sprintf("%v", ofxTx.TrnType), // e.g. DEBIT, CREDIT, ATM
		Notes:             strings.TrimSpace(string(ofxTx.Memo)),
		InternalReference: string(ofxTx.RefNum),
	}

	if ofxTx.BankAcctTo != nil {
		txn.CounterIBAN = string(ofxTx.BankAcctTo.AcctID)
	}

	return txn, nil
}

// extractCounterParty tries to get a clean counter-party name from OFX data.
func (p *Parser) extractCounterParty(ofxTx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if ofxTx.Payee != nil && ofxTx.Payee.Name != "" {
		return strings.TrimSpace(string(ofxTx.Payee.Name))
	}

	name := strings.TrimSpace(string(ofxTx.Name))

	// Sometimes MEMO has better merchant info than a generic NAME
	if ofxTx.Memo != "" && isGenericDescription(name) {
		name = strings.TrimSpace(string(ofxTx.Memo))
	}

	for _, prefix := range counterPartyPrefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			break
		}
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic to serve
// as a counter-party.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"BETALING",
		"PINBETALING",
		"OVERBOEKING",
	}

	upperName := strings.ToUpper(name)
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}
