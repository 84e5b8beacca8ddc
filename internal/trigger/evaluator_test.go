package trigger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjhoekstra/florijn/internal/cache"
	"github.com/mjhoekstra/florijn/internal/model"
)

func newTestEvaluator() *Evaluator {
	return NewEvaluator(cache.NewLRU(100), cache.NewRegexCache(50), DefaultConfig())
}

func testTransaction() model.Transaction {
	return model.Transaction{
		ID:           "tx-001",
		Date:         time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Amount:       decimal.RequireFromString("75.00"),
		Description:  "Betaalautomaat ALBERT HEIJN 1308 AMSTERDAM",
		CounterParty: "ALBERT HEIJN 1308",
		AccountName:  "Betaalrekening",
		IBAN:         "NL91ABNA0417164300",
		CounterIBAN:  "NL27INGB0000026500",
		Type:         "DEBIT",
	}
}

func TestEvaluateStringOperators(t *testing.T) {
	evaluator := newTestEvaluator()
	txn := testTransaction()

	tests := []struct {
		name     string
		field    model.TriggerField
		operator model.TriggerOperator
		value    string
		want     bool
	}{
		{
			name:     "description contains merchant case-insensitively",
			field:    model.FieldDescription,
			operator: model.OpContains,
			value:    "albert heijn",
			want:     true,
		},
		{
			name:     "description contains misses absent text",
			field:    model.FieldDescription,
			operator: model.OpContains,
			value:    "jumbo",
			want:     false,
		},
		{
			name:     "description equals requires the full string",
			field:    model.FieldDescription,
			operator: model.OpEquals,
			value:    "betaalautomaat albert heijn 1308 amsterdam",
			want:     true,
		},
		{
			name:     "description equals rejects partial match",
			field:    model.FieldDescription,
			operator: model.OpEquals,
			value:    "albert heijn",
			want:     false,
		},
		{
			name:     "counterparty starts_with",
			field:    model.FieldCounterParty,
			operator: model.OpStartsWith,
			value:    "albert",
			want:     true,
		},
		{
			name:     "counterparty ends_with",
			field:    model.FieldCounterParty,
			operator: model.OpEndsWith,
			value:    "1308",
			want:     true,
		},
		{
			name:     "transaction type equals",
			field:    model.FieldType,
			operator: model.OpEquals,
			value:    "debit",
			want:     true,
		},
		{
			name:     "iban contains bank code",
			field:    model.FieldIBAN,
			operator: model.OpContains,
			value:    "abna",
			want:     true,
		},
		{
			name:     "regex matches case-insensitively",
			field:    model.FieldDescription,
			operator: model.OpMatchesRegex,
			value:    `heijn \d{4}`,
			want:     true,
		},
		{
			name:     "invalid regex evaluates to false",
			field:    model.FieldDescription,
			operator: model.OpMatchesRegex,
			value:    `heijn [`,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trg := model.Trigger{Field: tt.field, Operator: tt.operator, Value: tt.value}
			got := evaluator.Evaluate(context.Background(), trg, txn)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateAmountComparisons(t *testing.T) {
	evaluator := newTestEvaluator()

	tests := []struct {
		name     string
		amount   string
		operator model.TriggerOperator
		value    string
		want     bool
	}{
		{name: "greater_than strict above", amount: "75.00", operator: model.OpGreaterThan, value: "50.00", want: true},
		{name: "greater_than strict at boundary", amount: "50.00", operator: model.OpGreaterThan, value: "50.00", want: false},
		{name: "greater_than_or_equal at boundary", amount: "50.00", operator: model.OpGreaterOrEqual, value: "50.00", want: true},
		{name: "less_than strict below", amount: "-12.50", operator: model.OpLessThan, value: "0", want: true},
		{name: "less_than strict at boundary", amount: "50.00", operator: model.OpLessThan, value: "50.00", want: false},
		{name: "less_than_or_equal at boundary", amount: "50.00", operator: model.OpLessOrEqual, value: "50.00", want: true},
		{name: "exact decimal comparison without float drift", amount: "0.30", operator: model.OpGreaterThan, value: "0.1", want: true},
		{name: "unparseable trigger value is false", amount: "75.00", operator: model.OpGreaterThan, value: "vijftig", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := model.Transaction{Amount: decimal.RequireFromString(tt.amount)}
			trg := model.Trigger{Field: model.FieldAmount, Operator: tt.operator, Value: tt.value}
			got := evaluator.Evaluate(context.Background(), trg, txn)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateDateOperators(t *testing.T) {
	evaluator := newTestEvaluator()
	txn := model.Transaction{Date: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		name     string
		operator model.TriggerOperator
		value    string
		want     bool
	}{
		{name: "before_date earlier day", operator: model.OpBeforeDate, value: "2025-03-15", want: true},
		{name: "before_date same day", operator: model.OpBeforeDate, value: "2025-03-14", want: false},
		{name: "after_date later day", operator: model.OpAfterDate, value: "2025-03-13", want: true},
		{name: "on_date same day", operator: model.OpOnDate, value: "2025-03-14", want: true},
		{name: "on_date accepts Dutch dashed format", operator: model.OpOnDate, value: "14-03-2025", want: true},
		{name: "on_date accepts Dutch slashed format", operator: model.OpOnDate, value: "14/03/2025", want: true},
		{name: "unparseable value is false", operator: model.OpOnDate, value: "morgen", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trg := model.Trigger{Field: model.FieldDate, Operator: tt.operator, Value: tt.value}
			got := evaluator.Evaluate(context.Background(), trg, txn)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateRelativeDates(t *testing.T) {
	evaluator := newTestEvaluator()
	now := time.Now()

	tests := []struct {
		name     string
		date     time.Time
		operator model.TriggerOperator
		want     bool
	}{
		{name: "is_today matches today", date: now, operator: model.OpIsToday, want: true},
		{name: "is_today rejects yesterday", date: now.AddDate(0, 0, -1), operator: model.OpIsToday, want: false},
		{name: "is_yesterday matches yesterday", date: now.AddDate(0, 0, -1), operator: model.OpIsYesterday, want: true},
		{name: "is_tomorrow matches tomorrow", date: now.AddDate(0, 0, 1), operator: model.OpIsTomorrow, want: true},
		{name: "is_tomorrow rejects today", date: now, operator: model.OpIsTomorrow, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := model.Transaction{Date: tt.date}
			trg := model.Trigger{Field: model.FieldDate, Operator: tt.operator}
			got := evaluator.Evaluate(context.Background(), trg, txn)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateInversion(t *testing.T) {
	evaluator := newTestEvaluator()
	txn := testTransaction()

	trg := model.Trigger{
		Field:    model.FieldDescription,
		Operator: model.OpContains,
		Value:    "albert heijn",
	}
	require.True(t, evaluator.Evaluate(context.Background(), trg, txn))

	trg.Inverted = true
	assert.False(t, evaluator.Evaluate(context.Background(), trg, txn))

	trg.Value = "jumbo"
	assert.True(t, evaluator.Evaluate(context.Background(), trg, txn),
		"inverted miss should evaluate to true")
}

func TestEvaluateCachesSlowPathResults(t *testing.T) {
	results := cache.NewLRU(100)
	evaluator := NewEvaluator(results, cache.NewRegexCache(50), DefaultConfig())
	txn := testTransaction()

	// counterparty+contains is not a fast path, so it must populate the
	// result cache exactly once.
	trg := model.Trigger{
		Field:    model.FieldCounterParty,
		Operator: model.OpContains,
		Value:    "heijn",
	}

	require.Equal(t, 0, results.Len())
	assert.True(t, evaluator.Evaluate(context.Background(), trg, txn))
	require.Equal(t, 1, results.Len())

	assert.True(t, evaluator.Evaluate(context.Background(), trg, txn))
	assert.Equal(t, 1, results.Len(), "repeat evaluation should hit the cache")
}

func TestEvaluateFastPathsBypassCache(t *testing.T) {
	results := cache.NewLRU(100)
	evaluator := NewEvaluator(results, cache.NewRegexCache(50), DefaultConfig())
	txn := testTransaction()

	fastPaths := []model.Trigger{
		{Field: model.FieldDescription, Operator: model.OpEquals, Value: "x"},
		{Field: model.FieldDescription, Operator: model.OpContains, Value: "albert"},
		{Field: model.FieldAmount, Operator: model.OpGreaterThan, Value: "50.00"},
		{Field: model.FieldAmount, Operator: model.OpLessThan, Value: "100.00"},
	}
	for _, trg := range fastPaths {
		evaluator.Evaluate(context.Background(), trg, txn)
	}

	assert.Equal(t, 0, results.Len(), "fast paths should not touch the result cache")
}

func TestEvaluateInvertedResultIsNotCachedInverted(t *testing.T) {
	results := cache.NewLRU(100)
	evaluator := NewEvaluator(results, cache.NewRegexCache(50), DefaultConfig())
	txn := testTransaction()

	trg := model.Trigger{
		Field:    model.FieldCounterParty,
		Operator: model.OpContains,
		Value:    "heijn",
		Inverted: true,
	}
	assert.False(t, evaluator.Evaluate(context.Background(), trg, txn))

	// The same predicate without inversion must see the cached raw result,
	// not the inverted one.
	trg.Inverted = false
	assert.True(t, evaluator.Evaluate(context.Background(), trg, txn))
	assert.Equal(t, 1, results.Len())
}

func TestCacheKeyTruncatesLongFieldValues(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}

	key := cacheKey(model.OpContains, "needle", string(long))
	assert.Len(t, key, len("contains")+1+len("needle")+1+keyFieldLimit)
}

func TestEvaluateUnknownFieldIsFalse(t *testing.T) {
	evaluator := newTestEvaluator()
	trg := model.Trigger{Field: "saldo", Operator: model.OpContains, Value: "x"}
	assert.False(t, evaluator.Evaluate(context.Background(), trg, testTransaction()))
}
