package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mjhoekstra/florijn/internal/cli"
	"github.com/mjhoekstra/florijn/internal/config"
	"github.com/mjhoekstra/florijn/internal/engine"
	"github.com/mjhoekstra/florijn/internal/model"
	"github.com/mjhoekstra/florijn/internal/trigger"
)

func triggersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "triggers",
		Short: "Manage trigger conditions",
		Long: `List, add, delete, validate, and test the boolean trigger conditions
evaluated against transactions.`,
	}

	cmd.AddCommand(listTriggersCmd())
	cmd.AddCommand(addTriggerCmd())
	cmd.AddCommand(deleteTriggerCmd())
	cmd.AddCommand(validateTriggerCmd())
	cmd.AddCommand(testTriggersCmd())

	return cmd
}

// triggerFlags registers the flags shared by add and validate.
func triggerFlags(cmd *cobra.Command, field, operator, value *string, inverted *bool) {
	cmd.Flags().StringVar(field, "field", "", "Transaction field to inspect (required)")
	cmd.Flags().StringVar(operator, "operator", "", "Comparison operator (required)")
	cmd.Flags().StringVar(value, "value", "", "Comparison value")
	cmd.Flags().BoolVar(inverted, "inverted", false, "Invert the result")
	_ = cmd.MarkFlagRequired("field")
	_ = cmd.MarkFlagRequired("operator")
}

func listTriggersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all triggers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store, err := initStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore(store)

			triggers, err := store.ListTriggers(ctx)
			if err != nil {
				return fmt.Errorf("failed to list triggers: %w", err)
			}

			if len(triggers) == 0 {
				fmt.Println(cli.InfoStyle.Render("No triggers found. Use 'florijn triggers add' to create one.")) //nolint:forbidigo // User-facing output
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() {
				if flushErr := w.Flush(); flushErr != nil {
					slog.Error("failed to flush table writer", "error", flushErr)
				}
			}()

			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Condition"),
				cli.TableHeaderStyle.Render("Created"))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				strings.Repeat("─", 4),
				strings.Repeat("─", 40),
				strings.Repeat("─", 10))

			for _, trg := range triggers {
				fmt.Fprintf(w, "%d\t%s\t%s\n",
					trg.ID, formatTrigger(trg), trg.CreatedAt.Format(model.DateFormat))
			}

			return nil
		},
	}
}

func addTriggerCmd() *cobra.Command {
	var (
		field    string
		operator string
		value    string
		inverted bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new trigger",
		Long: `Create a trigger condition. The condition is validated before it is
stored; malformed triggers are rejected with a suggestion.

Examples:
  florijn triggers add --field description --operator contains --value "albert heijn"
  florijn triggers add --field amount --operator greater_than --value 100.00
  florijn triggers add --field date --operator is_today
  florijn triggers add --field iban --operator equals --value NL91ABNA0417164300 --inverted`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			trg := model.Trigger{
				Field:    model.TriggerField(field),
				Operator: model.TriggerOperator(operator),
				Value:    value,
				Inverted: inverted,
			}

			if !reportValidation(trigger.Validate(trg)) {
				return fmt.Errorf("invalid trigger")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store, err := initStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore(store)

			if err := store.CreateTrigger(ctx, &trg); err != nil {
				return fmt.Errorf("failed to create trigger: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created trigger %d: %s", trg.ID, formatTrigger(trg)))) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	triggerFlags(cmd, &field, &operator, &value, &inverted)

	return cmd
}

func deleteTriggerCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a trigger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid trigger ID: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store, err := initStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore(store)

			// Confirm deletion
			if !force {
				fmt.Printf("Are you sure you want to delete trigger %d? (y/N): ", id) //nolint:forbidigo // User-facing output
				var response string
				_, _ = fmt.Scanln(&response)
				if strings.ToLower(response) != "y" {
					fmt.Println("Deletion cancelled.") //nolint:forbidigo // User-facing output
					return nil
				}
			}

			if err := store.DeleteTrigger(ctx, id); err != nil {
				return fmt.Errorf("failed to delete trigger: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted trigger %d", id))) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}

func validateTriggerCmd() *cobra.Command {
	var (
		field    string
		operator string
		value    string
		inverted bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a trigger without storing it",
		Long: `Check whether a trigger condition is well formed. Nothing is stored.

Examples:
  florijn triggers validate --field amount --operator greater_than --value 50.00
  florijn triggers validate --field date --operator before_date --value 2025-01-01`,
		RunE: func(_ *cobra.Command, _ []string) error {
			trg := model.Trigger{
				Field:    model.TriggerField(field),
				Operator: model.TriggerOperator(operator),
				Value:    value,
				Inverted: inverted,
			}

			if !reportValidation(trigger.Validate(trg)) {
				return fmt.Errorf("invalid trigger")
			}

			fmt.Println(cli.FormatSuccess("Trigger is valid: " + formatTrigger(trg))) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	triggerFlags(cmd, &field, &operator, &value, &inverted)

	return cmd
}

func testTriggersCmd() *cobra.Command {
	var (
		inputPath    string
		inputFormat  string
		description  string
		counterParty string
		amountStr    string
		dateStr      string
		txnType      string
	)

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test stored triggers against transactions",
		Long: `Evaluate every stored trigger, either against each transaction in a
bank export (--input) or against a single hypothetical transaction built
from flags.

Examples:
  florijn triggers test --input afschrift.ofx
  florijn triggers test --description "ALBERT HEIJN 1273" --amount 23.45
  florijn triggers test --counterparty "Netflix" --date 2025-03-01`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store, err := initStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore(store)

			triggers, err := store.ListTriggers(ctx)
			if err != nil {
				return fmt.Errorf("failed to list triggers: %w", err)
			}
			if len(triggers) == 0 {
				fmt.Println(cli.InfoStyle.Render("No triggers found. Use 'florijn triggers add' to create one.")) //nolint:forbidigo // User-facing output
				return nil
			}

			eng, err := initEngine(ctx, store, cfg)
			if err != nil {
				return err
			}

			if inputPath != "" {
				return testTriggersAgainstFile(ctx, eng, triggers, inputPath, inputFormat)
			}

			txn, err := buildTestTransaction(description, counterParty, amountStr, dateStr, txnType)
			if err != nil {
				return err
			}
			return testTriggersAgainstTransaction(ctx, eng, triggers, txn)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Bank export to evaluate triggers against")
	cmd.Flags().StringVar(&inputFormat, "format", "", "Input format: ofx or csv (default: from file extension)")
	cmd.Flags().StringVar(&description, "description", "", "Description for a hypothetical transaction")
	cmd.Flags().StringVar(&counterParty, "counterparty", "", "Counterparty for a hypothetical transaction")
	cmd.Flags().StringVar(&amountStr, "amount", "", "Amount for a hypothetical transaction")
	cmd.Flags().StringVar(&dateStr, "date", "", "Date for a hypothetical transaction (2006-01-02)")
	cmd.Flags().StringVar(&txnType, "type", "", "Transaction type for a hypothetical transaction")

	return cmd
}

// buildTestTransaction assembles a hypothetical transaction from flag values.
// The date defaults to now so the relative date operators behave sensibly.
func buildTestTransaction(description, counterParty, amountStr, dateStr, txnType string) (model.Transaction, error) {
	txn := model.Transaction{
		ID:           "test",
		Date:         time.Now(),
		Description:  description,
		CounterParty: counterParty,
		Type:         txnType,
	}

	if amountStr != "" {
		amount, err := decimal.NewFromString(strings.TrimPrefix(amountStr, "€"))
		if err != nil {
			return model.Transaction{}, fmt.Errorf("invalid amount: %w", err)
		}
		txn.Amount = amount
	}

	if dateStr != "" {
		date, ok := model.ParseDate(dateStr)
		if !ok {
			return model.Transaction{}, fmt.Errorf("invalid date %q (accepted formats: %s)", dateStr, strings.Join(model.DateLayouts(), ", "))
		}
		txn.Date = date
	}

	return txn, nil
}

func testTriggersAgainstTransaction(ctx context.Context, eng *engine.Engine, triggers []model.Trigger, txn model.Transaction) error {
	bar := cli.NewProgressBar(os.Stderr, len(triggers), "Evaluating triggers...")
	results := eng.EvaluateTriggers(ctx, triggers, txn, func(completed, _ int) {
		_ = bar.Set(completed)
	})
	_ = bar.Finish()

	fmt.Println(cli.FormatTitle("Trigger Test")) //nolint:forbidigo // User-facing output
	fmt.Println()                                //nolint:forbidigo // User-facing output

	matched := 0
	for i, trg := range triggers {
		icon := cli.ErrorStyle.Render(cli.ErrorIcon)
		if results[i] {
			icon = cli.SuccessStyle.Render(cli.SuccessIcon)
			matched++
		}
		fmt.Printf("%s [%d] %s\n", icon, trg.ID, formatTrigger(trg)) //nolint:forbidigo // User-facing output
	}

	fmt.Println()                                                                                 //nolint:forbidigo // User-facing output
	fmt.Println(cli.FormatInfo(fmt.Sprintf("%d of %d triggers matched", matched, len(triggers)))) //nolint:forbidigo // User-facing output
	return nil
}

func testTriggersAgainstFile(ctx context.Context, eng *engine.Engine, triggers []model.Trigger, path, format string) error {
	transactions, err := readTransactions(ctx, path, format)
	if err != nil {
		return err
	}

	bar := cli.NewProgressBar(os.Stderr, len(transactions), "Evaluating triggers...")
	counts := make([]int, len(triggers))
	for _, txn := range transactions {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		for i, matched := range eng.EvaluateTriggers(ctx, triggers, txn, nil) {
			if matched {
				counts[i]++
			}
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() {
		if flushErr := w.Flush(); flushErr != nil {
			slog.Error("failed to flush table writer", "error", flushErr)
		}
	}()

	fmt.Fprintf(w, "%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("ID"),
		cli.TableHeaderStyle.Render("Condition"),
		cli.TableHeaderStyle.Render("Matched"))
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		strings.Repeat("─", 4),
		strings.Repeat("─", 40),
		strings.Repeat("─", 12))

	for i, trg := range triggers {
		fmt.Fprintf(w, "%d\t%s\t%d / %d\n", trg.ID, formatTrigger(trg), counts[i], len(transactions))
	}

	return nil
}

// reportValidation prints the validation outcome and returns whether it
// passed.
func reportValidation(v trigger.Validation) bool {
	if v.Valid {
		return true
	}

	fmt.Println(cli.FormatError(v.Message)) //nolint:forbidigo // User-facing output
	if v.Suggestion != "" {
		fmt.Println(cli.SubtleStyle.Render("  " + v.Suggestion)) //nolint:forbidigo // User-facing output
	}
	return false
}

// formatTrigger renders a trigger as a readable condition.
func formatTrigger(trg model.Trigger) string {
	parts := []string{string(trg.Field), string(trg.Operator)}
	if trg.Operator.RequiresValue() {
		parts = append(parts, fmt.Sprintf("%q", trg.Value))
	}

	condition := strings.Join(parts, " ")
	if trg.Inverted {
		condition = "not (" + condition + ")"
	}
	return condition
}
