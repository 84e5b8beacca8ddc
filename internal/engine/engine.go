// Package engine implements the core classification engine for categorizing
// transactions and evaluating triggers.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mjhoekstra/florijn/internal/cache"
	"github.com/mjhoekstra/florijn/internal/categorize"
	"github.com/mjhoekstra/florijn/internal/model"
	"github.com/mjhoekstra/florijn/internal/normalize"
	"github.com/mjhoekstra/florijn/internal/rules"
	"github.com/mjhoekstra/florijn/internal/trigger"
)

// Config holds configuration options for the classification engine.
type Config struct {
	EvalCacheSize    int
	RegexCacheSize   int
	SequentialCutoff int
	BatchSize        int
}

// DefaultConfig returns the reference sizing.
func DefaultConfig() Config {
	evalCfg := trigger.DefaultConfig()
	return Config{
		EvalCacheSize:    cache.DefaultResultCapacity,
		RegexCacheSize:   cache.DefaultRegexCapacity,
		SequentialCutoff: evalCfg.SequentialCutoff,
		BatchSize:        evalCfg.BatchSize,
	}
}

// Engine owns the compiled classification state: the text normalizer, the
// built-in and user rule caches, the categorizer over both, and the trigger
// evaluator with its shared caches. All state behind the facade is either
// immutable or internally synchronized, so one Engine serves concurrent
// callers.
type Engine struct {
	cleaner   *normalize.Normalizer
	builtin   *rules.Cache
	evaluator *trigger.Evaluator

	// mu guards the user-rule snapshot; ReloadRules swaps both fields
	// together so readers always see a matching cache/categorizer pair.
	mu          sync.RWMutex
	userRules   *rules.Cache
	categorizer *categorize.Categorizer
}

// New builds an engine from the given user rule definitions.
func New(defs []model.RuleDefinition, cfg Config) *Engine {
	defaults := DefaultConfig()
	if cfg.EvalCacheSize <= 0 {
		cfg.EvalCacheSize = defaults.EvalCacheSize
	}
	if cfg.RegexCacheSize <= 0 {
		cfg.RegexCacheSize = defaults.RegexCacheSize
	}

	cleaner := normalize.New()
	builtin := rules.NewCache(rules.Builtin())
	userRules := rules.NewCache(defs)

	return &Engine{
		cleaner:     cleaner,
		builtin:     builtin,
		userRules:   userRules,
		categorizer: categorize.New(userRules, builtin, cleaner),
		evaluator: trigger.NewEvaluator(
			cache.NewLRU(cfg.EvalCacheSize),
			cache.NewRegexCache(cfg.RegexCacheSize),
			trigger.Config{
				SequentialCutoff: cfg.SequentialCutoff,
				BatchSize:        cfg.BatchSize,
			},
		),
	}
}

// Categorize classifies a single transaction.
func (e *Engine) Categorize(txn model.Transaction) model.CategorizationResult {
	return e.currentCategorizer().Categorize(txn)
}

// CategorizeBatch classifies transactions independently, preserving input
// order.
func (e *Engine) CategorizeBatch(txns []model.Transaction) []model.CategorizationResult {
	return e.currentCategorizer().CategorizeBatch(txns)
}

// EvaluateTriggers evaluates every trigger against the transaction and
// returns results in trigger order.
func (e *Engine) EvaluateTriggers(ctx context.Context, triggers []model.Trigger, txn model.Transaction, onProgress trigger.ProgressFunc) []bool {
	return e.evaluator.EvaluateAll(ctx, triggers, txn, onProgress)
}

// EvaluateTrigger evaluates a single trigger against the transaction.
func (e *Engine) EvaluateTrigger(ctx context.Context, trg model.Trigger, txn model.Transaction) bool {
	return e.evaluator.Evaluate(ctx, trg, txn)
}

// ValidateTrigger checks a trigger before it is stored.
func (e *Engine) ValidateTrigger(trg model.Trigger) trigger.Validation {
	return trigger.Validate(trg)
}

// ReloadRules rebuilds the user-rule cache from fresh definitions and swaps
// it in atomically. In-flight categorizations finish against the old
// snapshot; later calls see the new one.
func (e *Engine) ReloadRules(defs []model.RuleDefinition) {
	userRules := rules.NewCache(defs)
	categorizer := categorize.New(userRules, e.builtin, e.cleaner)

	e.mu.Lock()
	e.userRules = userRules
	e.categorizer = categorizer
	e.mu.Unlock()

	slog.Debug("reloaded user rules", "count", userRules.Len())
}

// RuleCount returns the number of compiled user rules.
func (e *Engine) RuleCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.userRules.Len()
}

// RulesBuiltAt returns when the current user-rule snapshot was compiled.
func (e *Engine) RulesBuiltAt() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.userRules.BuiltAt()
}

func (e *Engine) currentCategorizer() *categorize.Categorizer {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.categorizer
}
