package trigger

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjhoekstra/florijn/internal/cache"
	"github.com/mjhoekstra/florijn/internal/model"
)

// containsTriggers builds n contains-on-counterparty triggers that alternate
// between matching and missing the test transaction.
func containsTriggers(n int) []model.Trigger {
	triggers := make([]model.Trigger, n)
	for i := range triggers {
		value := "heijn"
		if i%2 == 1 {
			value = fmt.Sprintf("jumbo-%d", i)
		}
		triggers[i] = model.Trigger{
			Field:    model.FieldCounterParty,
			Operator: model.OpContains,
			Value:    value,
		}
	}
	return triggers
}

func TestEvaluateAllEmptyInput(t *testing.T) {
	evaluator := newTestEvaluator()
	assert.Nil(t, evaluator.EvaluateAll(context.Background(), nil, testTransaction(), nil))
}

func TestEvaluateAllPreservesTriggerOrder(t *testing.T) {
	evaluator := newTestEvaluator()
	txn := testTransaction()

	// 12 triggers crosses the sequential cutoff, so this exercises the
	// batched path.
	triggers := containsTriggers(12)
	results := evaluator.EvaluateAll(context.Background(), triggers, txn, nil)

	require.Len(t, results, 12)
	for i, got := range results {
		assert.Equal(t, i%2 == 0, got, "trigger %d", i)
	}
}

func TestEvaluateAllMatchesSequentialEvaluation(t *testing.T) {
	txn := testTransaction()
	triggers := containsTriggers(60)
	triggers = append(triggers,
		model.Trigger{Field: model.FieldAmount, Operator: model.OpGreaterThan, Value: "50.00"},
		model.Trigger{Field: model.FieldAmount, Operator: model.OpLessThan, Value: "50.00"},
		model.Trigger{Field: model.FieldDescription, Operator: model.OpMatchesRegex, Value: `heijn \d+`},
		model.Trigger{Field: model.FieldDescription, Operator: model.OpContains, Value: "albert", Inverted: true},
	)

	parallel := newTestEvaluator()
	got := parallel.EvaluateAll(context.Background(), triggers, txn, nil)

	sequential := newTestEvaluator()
	want := make([]bool, len(triggers))
	for i, trg := range triggers {
		want[i] = sequential.Evaluate(context.Background(), trg, txn)
	}

	assert.Equal(t, want, got)
}

func TestEvaluateAllSequentialProgress(t *testing.T) {
	evaluator := newTestEvaluator()
	txn := testTransaction()
	triggers := containsTriggers(4)

	var completed []int
	total := 0
	results := evaluator.EvaluateAll(context.Background(), triggers, txn, func(done, all int) {
		completed = append(completed, done)
		total = all
	})

	require.Len(t, results, 4)
	assert.Equal(t, []int{1, 2, 3, 4}, completed, "below the cutoff progress fires per trigger")
	assert.Equal(t, 4, total)
}

func TestEvaluateAllBatchedProgress(t *testing.T) {
	evaluator := NewEvaluator(cache.NewLRU(100), cache.NewRegexCache(50), Config{
		SequentialCutoff: 10,
		BatchSize:        25,
	})
	txn := testTransaction()
	triggers := containsTriggers(60)

	var completed []int
	results := evaluator.EvaluateAll(context.Background(), triggers, txn, func(done, _ int) {
		completed = append(completed, done)
	})

	require.Len(t, results, 60)
	assert.Equal(t, []int{25, 50, 60}, completed, "above the cutoff progress fires per batch")
}

func TestWorkerCountIsBoundedByBatchSize(t *testing.T) {
	assert.Equal(t, 1, workerCount(1))
	assert.GreaterOrEqual(t, workerCount(25), 1)
	assert.LessOrEqual(t, workerCount(25), 25)
}
