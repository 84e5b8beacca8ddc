package model

import "time"

// TriggerField identifies the transaction field a trigger inspects.
type TriggerField string

// Trigger field constants.
const (
	FieldDescription  TriggerField = "description"
	FieldAccountName  TriggerField = "account_name"
	FieldCounterParty TriggerField = "counterparty"
	FieldAmount       TriggerField = "amount"
	FieldDate         TriggerField = "date"
	FieldIBAN         TriggerField = "iban"
	FieldCounterIBAN  TriggerField = "counter_iban"
	FieldType         TriggerField = "transaction_type"
	FieldCategory     TriggerField = "category"
	FieldNotes        TriggerField = "notes"
	FieldExternalID   TriggerField = "external_id"
	FieldReference    TriggerField = "internal_reference"
	FieldTags         TriggerField = "tags"
)

// TriggerOperator identifies the comparison a trigger applies.
type TriggerOperator string

// Trigger operator constants.
const (
	OpContains       TriggerOperator = "contains"
	OpStartsWith     TriggerOperator = "starts_with"
	OpEndsWith       TriggerOperator = "ends_with"
	OpEquals         TriggerOperator = "equals"
	OpMatchesRegex   TriggerOperator = "matches"
	OpGreaterThan    TriggerOperator = "greater_than"
	OpGreaterOrEqual TriggerOperator = "greater_than_or_equal"
	OpLessThan       TriggerOperator = "less_than"
	OpLessOrEqual    TriggerOperator = "less_than_or_equal"
	OpBeforeDate     TriggerOperator = "before_date"
	OpAfterDate      TriggerOperator = "after_date"
	OpOnDate         TriggerOperator = "on_date"
	OpIsToday        TriggerOperator = "is_today"
	OpIsYesterday    TriggerOperator = "is_yesterday"
	OpIsTomorrow     TriggerOperator = "is_tomorrow"
)

// Trigger is a stored boolean condition evaluated against transactions.
type Trigger struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Field     TriggerField
	Operator  TriggerOperator
	Value     string
	ID        int64
	Inverted  bool
}

var stringOperators = []TriggerOperator{
	OpContains, OpStartsWith, OpEndsWith, OpEquals, OpMatchesRegex,
}

var amountOperators = []TriggerOperator{
	OpEquals, OpGreaterThan, OpGreaterOrEqual, OpLessThan, OpLessOrEqual,
}

var dateOperators = []TriggerOperator{
	OpEquals, OpBeforeDate, OpAfterDate, OpOnDate, OpIsToday, OpIsYesterday, OpIsTomorrow,
}

// fieldOperators is the static valid-operator table, built once.
var fieldOperators = map[TriggerField][]TriggerOperator{
	FieldDescription:  stringOperators,
	FieldAccountName:  stringOperators,
	FieldCounterParty: stringOperators,
	FieldAmount:       amountOperators,
	FieldDate:         dateOperators,
	FieldIBAN:         stringOperators,
	FieldCounterIBAN:  stringOperators,
	FieldType:         stringOperators,
	FieldCategory:     stringOperators,
	FieldNotes:        stringOperators,
	FieldExternalID:   stringOperators,
	FieldReference:    stringOperators,
	FieldTags:         stringOperators,
}

// ValidOperators returns the operators accepted for a field, and whether the
// field is known at all.
func ValidOperators(field TriggerField) ([]TriggerOperator, bool) {
	ops, ok := fieldOperators[field]
	return ops, ok
}

// TriggerFields lists every addressable field in display order.
func TriggerFields() []TriggerField {
	return []TriggerField{
		FieldDescription, FieldAccountName, FieldCounterParty, FieldAmount,
		FieldDate, FieldIBAN, FieldCounterIBAN, FieldType, FieldCategory,
		FieldNotes, FieldExternalID, FieldReference, FieldTags,
	}
}

// RequiresValue reports whether the operator needs a comparison value.
func (op TriggerOperator) RequiresValue() bool {
	switch op {
	case OpIsToday, OpIsYesterday, OpIsTomorrow:
		return false
	}
	return true
}

// IsNumeric reports whether the operator compares decimal magnitudes.
func (op TriggerOperator) IsNumeric() bool {
	switch op {
	case OpGreaterThan, OpGreaterOrEqual, OpLessThan, OpLessOrEqual:
		return true
	}
	return false
}

// IsDate reports whether the operator compares calendar days.
func (op TriggerOperator) IsDate() bool {
	switch op {
	case OpBeforeDate, OpAfterDate, OpOnDate, OpIsToday, OpIsYesterday, OpIsTomorrow:
		return true
	}
	return false
}

// FieldValue projects the comparable string form of a single transaction
// field. Unpopulated fields extract to the empty string rather than failing.
func FieldValue(txn Transaction, field TriggerField) string {
	switch field {
	case FieldDescription:
		return txn.Description
	case FieldAccountName:
		return txn.AccountName
	case FieldCounterParty:
		return txn.CounterParty
	case FieldAmount:
		return txn.Amount.String()
	case FieldDate:
		return txn.Date.Format(DateFormat)
	case FieldIBAN:
		return txn.IBAN
	case FieldCounterIBAN:
		return txn.CounterIBAN
	case FieldType:
		return txn.Type
	case FieldCategory:
		return txn.Category
	case FieldNotes:
		return txn.Notes
	case FieldReference:
		return txn.InternalReference
	case FieldExternalID, FieldTags:
		return "" // not carried by the transaction model yet
	}
	return ""
}
