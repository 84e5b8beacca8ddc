package trigger

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mjhoekstra/florijn/internal/match"
	"github.com/mjhoekstra/florijn/internal/model"
)

// Validation reports whether a trigger is well formed, and if not, why and
// what to do about it.
type Validation struct {
	Message    string
	Suggestion string
	Valid      bool
}

func valid() Validation {
	return Validation{Valid: true}
}

func invalid(message, suggestion string) Validation {
	return Validation{Message: message, Suggestion: suggestion}
}

// Validate checks a trigger before it is stored: the field must exist, the
// operator must apply to that field, and the value must parse for the
// operator's type. Evaluation never errors on malformed triggers, so this is
// the only place a user hears about a bad one.
func Validate(trg model.Trigger) Validation {
	ops, ok := model.ValidOperators(trg.Field)
	if !ok {
		return invalid(
			fmt.Sprintf("unknown field %q", trg.Field),
			"valid fields: "+joinFields(model.TriggerFields()),
		)
	}

	if !operatorAllowed(trg.Operator, ops) {
		return invalid(
			fmt.Sprintf("operator %q cannot be used with field %q", trg.Operator, trg.Field),
			fmt.Sprintf("valid operators for %s: %s", trg.Field, joinOperators(ops)),
		)
	}

	if !trg.Operator.RequiresValue() {
		return valid()
	}

	if strings.TrimSpace(trg.Value) == "" {
		return invalid(
			fmt.Sprintf("operator %q requires a comparison value", trg.Operator),
			"provide a value with --value",
		)
	}

	switch {
	case trg.Operator == model.OpMatchesRegex:
		if _, err := regexp.Compile(match.CaseInsensitive(trg.Value)); err != nil {
			return invalid(
				fmt.Sprintf("invalid regular expression: %v", err),
				"check the pattern syntax; patterns match case-insensitively",
			)
		}

	case trg.Operator.IsNumeric(), trg.Field == model.FieldAmount && trg.Operator == model.OpEquals:
		if _, err := decimal.NewFromString(trg.Value); err != nil {
			return invalid(
				fmt.Sprintf("value %q is not a number", trg.Value),
				"use a decimal amount such as 50.00",
			)
		}

	case trg.Operator.IsDate(), trg.Field == model.FieldDate && trg.Operator == model.OpEquals:
		if _, ok := model.ParseDate(trg.Value); !ok {
			return invalid(
				fmt.Sprintf("value %q is not a recognized date", trg.Value),
				"accepted formats: "+strings.Join(model.DateLayouts(), ", "),
			)
		}
	}

	return valid()
}

func operatorAllowed(op model.TriggerOperator, ops []model.TriggerOperator) bool {
	for _, candidate := range ops {
		if op == candidate {
			return true
		}
	}
	return false
}

func joinFields(fields []model.TriggerField) string {
	names := make([]string, len(fields))
	for i, field := range fields {
		names[i] = string(field)
	}
	return strings.Join(names, ", ")
}

func joinOperators(ops []model.TriggerOperator) string {
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	return strings.Join(names, ", ")
}
