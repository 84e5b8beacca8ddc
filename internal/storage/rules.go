package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mjhoekstra/florijn/internal/common"
	"github.com/mjhoekstra/florijn/internal/model"
)

const ruleColumns = `id, pattern, match_type, standardized_name, category, priority, enabled, created_at, updated_at`

// ListRules retrieves all rules ordered by priority. Lower priority values
// come first, matching the order the rule cache evaluates them in.
func (s *SQLiteStore) ListRules(ctx context.Context) ([]model.RuleDefinition, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + ruleColumns + ` FROM rules ORDER BY priority ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []model.RuleDefinition
	for rows.Next() {
		rule, scanErr := scanRule(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rules: %w", err)
	}

	return rules, nil
}

// GetRule retrieves a rule by ID.
func (s *SQLiteStore) GetRule(ctx context.Context, id int64) (*model.RuleDefinition, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + ruleColumns + ` FROM rules WHERE id = ?`

	var rule model.RuleDefinition
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&rule.ID, &rule.Pattern, &rule.MatchType, &rule.StandardizedName,
		&rule.Category, &rule.Priority, &rule.Enabled,
		&rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("rule %d: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}

	return &rule, nil
}

// CreateRule creates a new rule and fills in its generated ID.
func (s *SQLiteStore) CreateRule(ctx context.Context, rule *model.RuleDefinition) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}

	query := `
		INSERT INTO rules (pattern, match_type, standardized_name, category, priority, enabled)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		rule.Pattern, rule.MatchType, rule.StandardizedName,
		rule.Category, rule.Priority, rule.Enabled,
	)
	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get rule ID: %w", err)
	}

	rule.ID = id
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = time.Now()

	return nil
}

// UpdateRule updates an existing rule.
func (s *SQLiteStore) UpdateRule(ctx context.Context, rule *model.RuleDefinition) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}

	query := `
		UPDATE rules SET
			pattern = ?, match_type = ?, standardized_name = ?,
			category = ?, priority = ?, enabled = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		rule.Pattern, rule.MatchType, rule.StandardizedName,
		rule.Category, rule.Priority, rule.Enabled,
		rule.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("rule %d: %w", rule.ID, common.ErrNotFound)
	}

	return nil
}

// DeleteRule deletes a rule by ID.
func (s *SQLiteStore) DeleteRule(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM rules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("rule %d: %w", id, common.ErrNotFound)
	}

	return nil
}

// scanRule scans one rules row from a multi-row query.
func scanRule(rows *sql.Rows) (model.RuleDefinition, error) {
	var rule model.RuleDefinition
	err := rows.Scan(
		&rule.ID, &rule.Pattern, &rule.MatchType, &rule.StandardizedName,
		&rule.Category, &rule.Priority, &rule.Enabled,
		&rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		return model.RuleDefinition{}, fmt.Errorf("failed to scan rule: %w", err)
	}
	return rule, nil
}
