// Package trigger validates and evaluates boolean trigger predicates against
// transactions.
package trigger

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mjhoekstra/florijn/internal/cache"
	"github.com/mjhoekstra/florijn/internal/match"
	"github.com/mjhoekstra/florijn/internal/model"
)

// Config tunes the evaluation strategy.
type Config struct {
	// SequentialCutoff is the trigger count below which evaluation stays
	// sequential; batching overhead would dominate for tiny sets.
	SequentialCutoff int
	// BatchSize caps how many triggers are evaluated concurrently per batch.
	BatchSize int
}

// DefaultConfig returns the reference evaluation thresholds.
func DefaultConfig() Config {
	return Config{
		SequentialCutoff: 10,
		BatchSize:        25,
	}
}

// keyFieldLimit bounds the field-value component of evaluation cache keys so
// pathological field values cannot grow keys without bound.
const keyFieldLimit = 50

// Evaluator evaluates triggers against transactions. Results for slow
// operator/field combinations are memoized in a shared LRU cache; regex
// triggers compile through a shared pattern cache. Both caches serialize
// their own access, so one Evaluator may be used from many goroutines.
type Evaluator struct {
	results *cache.LRU
	regexes *cache.RegexCache
	cfg     Config
}

// NewEvaluator builds an evaluator over the shared caches.
func NewEvaluator(results *cache.LRU, regexes *cache.RegexCache, cfg Config) *Evaluator {
	defaults := DefaultConfig()
	if cfg.SequentialCutoff <= 0 {
		cfg.SequentialCutoff = defaults.SequentialCutoff
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaults.BatchSize
	}
	return &Evaluator{results: results, regexes: regexes, cfg: cfg}
}

// Evaluate applies a single trigger to a transaction. Malformed triggers
// never error; they evaluate to false before the inversion flag is applied.
func (e *Evaluator) Evaluate(_ context.Context, trg model.Trigger, txn model.Transaction) bool {
	result := e.evaluate(trg, txn)
	if trg.Inverted {
		return !result
	}
	return result
}

func (e *Evaluator) evaluate(trg model.Trigger, txn model.Transaction) bool {
	// Fast paths for the highest-frequency combinations skip the result
	// cache; computing them directly is cheaper than a cache round trip.
	switch {
	case trg.Field == model.FieldDescription && trg.Operator == model.OpEquals:
		return strings.EqualFold(txn.Description, trg.Value)

	case trg.Field == model.FieldDescription && trg.Operator == model.OpContains:
		return strings.Contains(strings.ToLower(txn.Description), strings.ToLower(trg.Value))

	case trg.Field == model.FieldAmount &&
		(trg.Operator == model.OpGreaterThan || trg.Operator == model.OpLessThan):
		value, err := decimal.NewFromString(trg.Value)
		if err != nil {
			return false
		}
		if trg.Operator == model.OpGreaterThan {
			return txn.Amount.GreaterThan(value)
		}
		return txn.Amount.LessThan(value)
	}

	fieldValue := model.FieldValue(txn, trg.Field)
	key := cacheKey(trg.Operator, trg.Value, fieldValue)
	if cached, ok := e.results.Get(key); ok {
		return cached
	}

	result := e.apply(trg.Operator, trg.Value, fieldValue)
	e.results.Set(key, result)
	return result
}

// cacheKey builds the bounded evaluation-cache key from the operator, the
// trigger value, and a truncated field value.
func cacheKey(op model.TriggerOperator, value, fieldValue string) string {
	if len(fieldValue) > keyFieldLimit {
		fieldValue = fieldValue[:keyFieldLimit]
	}
	return string(op) + "|" + value + "|" + fieldValue
}

// apply is the generic operator dispatcher. String operators compare
// case-insensitively; numeric operators compare exact decimals, never
// floats; date operators compare calendar days. Unparseable values make the
// predicate false rather than erroring, so one malformed trigger cannot
// block the rest of an evaluation run.
func (e *Evaluator) apply(op model.TriggerOperator, value, fieldValue string) bool {
	switch op {
	case model.OpContains:
		return strings.Contains(strings.ToLower(fieldValue), strings.ToLower(value))
	case model.OpStartsWith:
		return strings.HasPrefix(strings.ToLower(fieldValue), strings.ToLower(value))
	case model.OpEndsWith:
		return strings.HasSuffix(strings.ToLower(fieldValue), strings.ToLower(value))
	case model.OpEquals:
		return strings.EqualFold(fieldValue, value)

	case model.OpMatchesRegex:
		re, err := e.regexes.Get(match.CaseInsensitive(value))
		if err != nil {
			return false
		}
		return re.MatchString(fieldValue)

	case model.OpGreaterThan, model.OpGreaterOrEqual, model.OpLessThan, model.OpLessOrEqual:
		return compareDecimal(op, fieldValue, value)

	case model.OpBeforeDate, model.OpAfterDate, model.OpOnDate,
		model.OpIsToday, model.OpIsYesterday, model.OpIsTomorrow:
		return compareDate(op, fieldValue, value)
	}

	return false
}

func compareDecimal(op model.TriggerOperator, fieldValue, value string) bool {
	have, err := decimal.NewFromString(fieldValue)
	if err != nil {
		return false
	}
	want, err := decimal.NewFromString(value)
	if err != nil {
		return false
	}

	switch op {
	case model.OpGreaterThan:
		return have.GreaterThan(want)
	case model.OpGreaterOrEqual:
		return have.GreaterThanOrEqual(want)
	case model.OpLessThan:
		return have.LessThan(want)
	case model.OpLessOrEqual:
		return have.LessThanOrEqual(want)
	}
	return false
}

func compareDate(op model.TriggerOperator, fieldValue, value string) bool {
	day, ok := model.ParseDate(fieldValue)
	if !ok {
		return false
	}
	have := dayOf(day)

	switch op {
	case model.OpIsToday:
		return have.Equal(dayOf(time.Now()))
	case model.OpIsYesterday:
		return have.Equal(dayOf(time.Now()).AddDate(0, 0, -1))
	case model.OpIsTomorrow:
		return have.Equal(dayOf(time.Now()).AddDate(0, 0, 1))
	}

	wantDay, ok := model.ParseDate(value)
	if !ok {
		return false
	}
	want := dayOf(wantDay)

	switch op {
	case model.OpBeforeDate:
		return have.Before(want)
	case model.OpAfterDate:
		return have.After(want)
	case model.OpOnDate:
		return have.Equal(want)
	}
	return false
}

// dayOf normalizes a timestamp to midnight UTC of its calendar day so that
// comparisons ignore both time of day and zone offsets.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
