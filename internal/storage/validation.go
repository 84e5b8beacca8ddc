// Package storage provides the data persistence layer for florijn.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mjhoekstra/florijn/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrEmptySlice   = errors.New("slice cannot be empty")
	ErrInvalidRule  = errors.New("invalid rule")
	ErrInvalidTrig  = errors.New("invalid trigger")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRule validates a rule definition before it touches the database.
func validateRule(rule *model.RuleDefinition) error {
	if rule == nil {
		return fmt.Errorf("%w: rule", ErrNilParameter)
	}
	if err := rule.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	return nil
}

// validateTrigger checks the structural shape of a trigger. Semantic checks
// (operator/value compatibility) belong to the trigger package; storage only
// refuses rows that could never be loaded back.
func validateTrigger(trg *model.Trigger) error {
	if trg == nil {
		return fmt.Errorf("%w: trigger", ErrNilParameter)
	}
	if strings.TrimSpace(string(trg.Field)) == "" {
		return fmt.Errorf("%w: missing field", ErrInvalidTrig)
	}
	if _, ok := model.ValidOperators(trg.Field); !ok {
		return fmt.Errorf("%w: unknown field %q", ErrInvalidTrig, trg.Field)
	}
	if strings.TrimSpace(string(trg.Operator)) == "" {
		return fmt.Errorf("%w: missing operator", ErrInvalidTrig)
	}
	return nil
}

// validateClassifications validates a history batch before persisting it.
func validateClassifications(classifications []model.Classification) error {
	if classifications == nil {
		return fmt.Errorf("%w: classifications", ErrNilParameter)
	}
	if len(classifications) == 0 {
		return fmt.Errorf("%w: classifications", ErrEmptySlice)
	}

	for i, c := range classifications {
		if c.Transaction.ID == "" {
			return fmt.Errorf("classification at index %d: missing transaction ID", i)
		}
		if c.Result.Confidence < 0 || c.Result.Confidence > 1 {
			return fmt.Errorf("classification at index %d: confidence must be between 0 and 1", i)
		}
	}
	return nil
}
