package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mjhoekstra/florijn/internal/model"
)

// SaveClassifications persists one classification run: a run row plus one
// history row per transaction, all in a single database transaction.
func (s *SQLiteStore) SaveClassifications(ctx context.Context, runID string, classifications []model.Classification) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(runID, "runID"); err != nil {
		return err
	}
	if err := validateClassifications(classifications); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	categorized := 0
	for _, c := range classifications {
		if c.Result.Categorized() {
			categorized++
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO classification_runs (id, started_at, total, categorized) VALUES (?, ?, ?, ?)`,
		runID, time.Now().UTC(), len(classifications), categorized,
	); err != nil {
		return fmt.Errorf("failed to save classification run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO classification_history (
			run_id, transaction_id, transaction_date, counterparty, description,
			amount, category, standardized_name, matched_pattern, confidence, classified_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare history insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range classifications {
		classifiedAt := c.ClassifiedAt
		if classifiedAt.IsZero() {
			classifiedAt = time.Now().UTC()
		}

		if _, err := stmt.ExecContext(ctx,
			runID, c.Transaction.ID, c.Transaction.Date,
			c.Transaction.CounterParty, c.Transaction.Description,
			c.Transaction.Amount.String(),
			c.Result.Category, c.Result.StandardizedName, c.Result.MatchedPattern,
			c.Result.Confidence, classifiedAt,
		); err != nil {
			return fmt.Errorf("failed to save classification for transaction %s: %w", c.Transaction.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit classifications: %w", err)
	}

	return nil
}

// ListRuns retrieves classification run summaries, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context) ([]model.RunSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, started_at, total, categorized
		FROM classification_runs
		ORDER BY started_at DESC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.RunSummary
	for rows.Next() {
		var run model.RunSummary
		if err := rows.Scan(&run.RunID, &run.StartedAt, &run.Total, &run.Categorized); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// ListClassifications retrieves the history rows of a single run in insert
// order.
func (s *SQLiteStore) ListClassifications(ctx context.Context, runID string) ([]model.Classification, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(runID, "runID"); err != nil {
		return nil, err
	}

	query := `
		SELECT transaction_id, transaction_date, counterparty, description,
			amount, category, standardized_name, matched_pattern, confidence, classified_at
		FROM classification_history
		WHERE run_id = ?
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list classifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var classifications []model.Classification
	for rows.Next() {
		var c model.Classification
		var amount string
		if err := rows.Scan(
			&c.Transaction.ID, &c.Transaction.Date,
			&c.Transaction.CounterParty, &c.Transaction.Description,
			&amount,
			&c.Result.Category, &c.Result.StandardizedName, &c.Result.MatchedPattern,
			&c.Result.Confidence, &c.ClassifiedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan classification: %w", err)
		}

		c.Transaction.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored amount %q: %w", amount, err)
		}

		classifications = append(classifications, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating classifications: %w", err)
	}

	return classifications, nil
}
