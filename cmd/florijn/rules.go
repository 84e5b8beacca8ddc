package main

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mjhoekstra/florijn/internal/categorize"
	"github.com/mjhoekstra/florijn/internal/cli"
	"github.com/mjhoekstra/florijn/internal/config"
	"github.com/mjhoekstra/florijn/internal/match"
	"github.com/mjhoekstra/florijn/internal/model"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage categorization rules",
		Long:  `List, add, delete, and test the rules used for transaction categorization.`,
	}

	cmd.AddCommand(listRulesCmd())
	cmd.AddCommand(addRuleCmd())
	cmd.AddCommand(deleteRuleCmd())
	cmd.AddCommand(testRulesCmd())

	return cmd
}

func listRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all rules",
		Long:  `Display all stored rules in matching order (lowest priority value first).`,
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

			rules, err := store.ListRules(ctx)
			if err != nil {
				return fmt.Errorf("failed to list rules: %w", err)
			}

			if len(rules) == 0 {
				fmt.Println(cli.InfoStyle.Render("No rules found. Use 'florijn rules add' to create one.")) //nolint:forbidigo // User-facing output
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() {
				if flushErr := w.Flush(); flushErr != nil {
					slog.Error("failed to flush table writer", "error", flushErr)
				}
			}()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Priority"),
				cli.TableHeaderStyle.Render("Pattern"),
				cli.TableHeaderStyle.Render("Match"),
				cli.TableHeaderStyle.Render("Category"),
				cli.TableHeaderStyle.Render("Standardized Name"),
				cli.TableHeaderStyle.Render("Enabled"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("─", 4),
				strings.Repeat("─", 8),
				strings.Repeat("─", 24),
				strings.Repeat("─", 11),
				strings.Repeat("─", 16),
				strings.Repeat("─", 20),
				strings.Repeat("─", 7))

			for _, rule := range rules {
				enabled := cli.SuccessStyle.Render(cli.SuccessIcon)
				if !rule.Enabled {
					enabled = cli.SubtleStyle.Render(cli.ErrorIcon)
				}

				name := rule.StandardizedName
				if name == "" {
					name = cli.SubtleStyle.Render("(keep original)")
				}

				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
					rule.ID, rule.Priority, rule.Pattern, rule.MatchType, rule.Category, name, enabled)
			}

			return nil
		},
	}
}

func addRuleCmd() *cobra.Command {
	var (
		category         string
		matchType        string
		standardizedName string
		priority         int
		disabled         bool
	)

	cmd := &cobra.Command{
		Use:   "add <pattern>",
		Short: "Add a new rule",
		Long: `Create a categorization rule.

The pattern is compared case-insensitively against the combined
counterparty and description text of each transaction.

Examples:
  florijn rules add "albert heijn" --category Boodschappen --name "Albert Heijn"
  florijn rules add "^NS GROEP" --match regex --category Vervoer --priority 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rule := model.RuleDefinition{
				Pattern:          args[0],
				MatchType:        model.MatchType(matchType),
				StandardizedName: standardizedName,
				Category:         category,
				Priority:         priority,
				Enabled:          !disabled,
			}

			if err := rule.Validate(); err != nil {
				return fmt.Errorf("invalid rule: %w", err)
			}
			// Regex patterns must compile before they are stored; a broken one
			// would be silently disabled at match time.
			if rule.MatchType == model.MatchRegex {
				if _, err := regexp.Compile(match.CaseInsensitive(rule.Pattern)); err != nil {
					return fmt.Errorf("invalid regex pattern: %w", err)
				}
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

			if err := store.CreateRule(ctx, &rule); err != nil {
				return fmt.Errorf("failed to create rule: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created rule %q (ID: %d)", rule.Pattern, rule.ID))) //nolint:forbidigo // User-facing output
			fmt.Printf("  %s %q → %s (priority %d)\n", rule.MatchType, rule.Pattern, rule.Category, rule.Priority) //nolint:forbidigo // User-facing output

			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Category to assign (required)")
	cmd.Flags().StringVar(&matchType, "match", "contains", "Match type (contains, starts_with, ends_with, equals, regex)")
	cmd.Flags().StringVar(&standardizedName, "name", "", "Standardized counterparty name to assign")
	cmd.Flags().IntVar(&priority, "priority", 100, "Priority (lower values match first)")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "Create the rule disabled")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func deleteRuleCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid rule ID: %w", err)
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
				fmt.Printf("Are you sure you want to delete rule %d? (y/N): ", id) //nolint:forbidigo // User-facing output
				var response string
				_, _ = fmt.Scanln(&response)
				if strings.ToLower(response) != "y" {
					fmt.Println("Deletion cancelled.") //nolint:forbidigo // User-facing output
					return nil
				}
			}

			if err := store.DeleteRule(ctx, id); err != nil {
				return fmt.Errorf("failed to delete rule: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted rule %d", id))) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}

func testRulesCmd() *cobra.Command {
	var counterParty string

	cmd := &cobra.Command{
		Use:   "test <text>",
		Short: "Test which rule matches a description",
		Long: `Run the full rule chain against a hypothetical transaction.

This helps you verify that a rule matches as expected before it meets
real transactions.

Examples:
  florijn rules test "ALBERT HEIJN 1273 AMSTERDAM"
  florijn rules test "maandabonnement" --counterparty "NS Groep"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			eng, err := initEngine(ctx, store, cfg)
			if err != nil {
				return err
			}

			txn := model.Transaction{
				Description:  args[0],
				CounterParty: counterParty,
				Date:         time.Now(),
			}
			result := eng.Categorize(txn)

			fmt.Println(cli.FormatTitle("Rule Test"))                         //nolint:forbidigo // User-facing output
			fmt.Println()                                                     //nolint:forbidigo // User-facing output
			fmt.Printf("Search text: %q\n\n", categorize.SearchText(txn))     //nolint:forbidigo // User-facing output

			if result.Categorized() {
				fmt.Println(cli.FormatSuccess("Category: " + result.Category)) //nolint:forbidigo // User-facing output
				if result.MatchedPattern != "" {
					fmt.Printf("  Matched pattern: %q\n", result.MatchedPattern) //nolint:forbidigo // User-facing output
				}
			} else {
				fmt.Println(cli.InfoStyle.Render("No rule matched this transaction.")) //nolint:forbidigo // User-facing output
			}
			if result.StandardizedName != "" {
				fmt.Printf("  Standardized name: %s\n", result.StandardizedName) //nolint:forbidigo // User-facing output
			}
			fmt.Printf("  Confidence: %.2f\n", result.Confidence) //nolint:forbidigo // User-facing output

			return nil
		},
	}

	cmd.Flags().StringVar(&counterParty, "counterparty", "", "Counterparty for the test transaction")

	return cmd
}
