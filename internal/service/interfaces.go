// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/mjhoekstra/florijn/internal/model"
)

// RuleStore defines the contract for rule persistence.
type RuleStore interface {
	ListRules(ctx context.Context) ([]model.RuleDefinition, error)
	GetRule(ctx context.Context, id int64) (*model.RuleDefinition, error)
	CreateRule(ctx context.Context, rule *model.RuleDefinition) error
	UpdateRule(ctx context.Context, rule *model.RuleDefinition) error
	DeleteRule(ctx context.Context, id int64) error
}

// TriggerStore defines the contract for trigger persistence.
type TriggerStore interface {
	ListTriggers(ctx context.Context) ([]model.Trigger, error)
	CreateTrigger(ctx context.Context, trg *model.Trigger) error
	DeleteTrigger(ctx context.Context, id int64) error
}

// HistoryStore defines the contract for classification run history.
type HistoryStore interface {
	SaveClassifications(ctx context.Context, runID string, classifications []model.Classification) error
	ListRuns(ctx context.Context) ([]model.RunSummary, error)
	ListClassifications(ctx context.Context, runID string) ([]model.Classification, error)
}

// Store combines every persistence surface the CLI needs.
type Store interface {
	RuleStore
	TriggerStore
	HistoryStore

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
