package trigger

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mjhoekstra/florijn/internal/model"
)

// ProgressFunc receives evaluation progress: completed and total counts.
// Sequential runs report per trigger, batched runs per batch.
type ProgressFunc func(completed, total int)

// Evaluation runs beyond these bounds get a slow-path warning in the log.
const (
	slowEvalElapsed     = 10 * time.Millisecond
	slowEvalMinTriggers = 50
)

// EvaluateAll evaluates every trigger against one transaction and returns
// the results in trigger order. Small sets run sequentially; larger sets fan
// out in fixed-size batches. Per-trigger evaluation is pure given the
// transaction, so both strategies produce identical output.
func (e *Evaluator) EvaluateAll(ctx context.Context, triggers []model.Trigger, txn model.Transaction, onProgress ProgressFunc) []bool {
	if len(triggers) == 0 {
		return nil
	}

	start := time.Now()
	results := make([]bool, len(triggers))

	if len(triggers) < e.cfg.SequentialCutoff {
		for i, trg := range triggers {
			results[i] = e.Evaluate(ctx, trg, txn)
			if onProgress != nil {
				onProgress(i+1, len(triggers))
			}
		}
		return results
	}

	workers := workerCount(e.cfg.BatchSize)
	for lo := 0; lo < len(triggers); lo += e.cfg.BatchSize {
		hi := lo + e.cfg.BatchSize
		if hi > len(triggers) {
			hi = len(triggers)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i := lo; i < hi; i++ {
			i := i // pre-go1.22 loop semantics: capture per iteration
			g.Go(func() error {
				results[i] = e.Evaluate(gctx, triggers[i], txn)
				return nil
			})
		}
		_ = g.Wait() // evaluation tasks never return errors

		if onProgress != nil {
			onProgress(hi, len(triggers))
		}
	}

	if elapsed := time.Since(start); elapsed > slowEvalElapsed && len(triggers) > slowEvalMinTriggers {
		slog.Warn("slow trigger evaluation",
			"elapsed", elapsed,
			"triggers", len(triggers))
	}

	return results
}

// workerCount bounds batch concurrency by the machine's CPU count.
func workerCount(batchSize int) int {
	workers := runtime.NumCPU()
	if workers > batchSize {
		workers = batchSize
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}
