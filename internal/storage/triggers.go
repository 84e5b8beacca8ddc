package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/mjhoekstra/florijn/internal/common"
	"github.com/mjhoekstra/florijn/internal/model"
)

// ListTriggers retrieves all stored triggers in creation order.
func (s *SQLiteStore) ListTriggers(ctx context.Context) ([]model.Trigger, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, field, operator, value, inverted, created_at, updated_at
		FROM triggers
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list triggers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var triggers []model.Trigger
	for rows.Next() {
		var trg model.Trigger
		if err := rows.Scan(
			&trg.ID, &trg.Field, &trg.Operator, &trg.Value, &trg.Inverted,
			&trg.CreatedAt, &trg.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trigger: %w", err)
		}
		triggers = append(triggers, trg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating triggers: %w", err)
	}

	return triggers, nil
}

// CreateTrigger creates a new trigger and fills in its generated ID.
func (s *SQLiteStore) CreateTrigger(ctx context.Context, trg *model.Trigger) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTrigger(trg); err != nil {
		return err
	}

	query := `INSERT INTO triggers (field, operator, value, inverted) VALUES (?, ?, ?, ?)`

	result, err := s.db.ExecContext(ctx, query, trg.Field, trg.Operator, trg.Value, trg.Inverted)
	if err != nil {
		return fmt.Errorf("failed to create trigger: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get trigger ID: %w", err)
	}

	trg.ID = id
	trg.CreatedAt = time.Now()
	trg.UpdatedAt = time.Now()

	return nil
}

// DeleteTrigger deletes a trigger by ID.
func (s *SQLiteStore) DeleteTrigger(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM triggers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete trigger: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("trigger %d: %w", id, common.ErrNotFound)
	}

	return nil
}
