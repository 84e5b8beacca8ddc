package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mjhoekstra/florijn/internal/cli"
	"github.com/mjhoekstra/florijn/internal/config"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect saved classification runs",
		Long: `List saved classification runs (newest first) or show the rows
saved for one run.

Examples:
  florijn runs
  florijn runs show 3f6c2a18-5a0e-4b2f-9a1d-8f0d5b6c7e9a`,
		RunE: runListRuns,
	}

	cmd.AddCommand(showRunCmd())

	return cmd
}

func runListRuns(cmd *cobra.Command, _ []string) error {
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

	runs, err := store.ListRuns(ctx)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println(cli.InfoStyle.Render("No runs saved yet. Run 'florijn classify' first.")) //nolint:forbidigo // User-facing output
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() {
		if flushErr := w.Flush(); flushErr != nil {
			slog.Error("failed to flush table writer", "error", flushErr)
		}
	}()

	fmt.Fprintf(w, "%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("Run ID"),
		cli.TableHeaderStyle.Render("Started"),
		cli.TableHeaderStyle.Render("Categorized"))
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		strings.Repeat("─", 36),
		strings.Repeat("─", 16),
		strings.Repeat("─", 12))

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d / %d\n",
			run.RunID,
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Categorized,
			run.Total)
	}

	return nil
}

func showRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the rows saved for one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runID := args[0]

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store, err := initStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore(store)

			classifications, err := store.ListClassifications(ctx, runID)
			if err != nil {
				return fmt.Errorf("failed to load run: %w", err)
			}

			if len(classifications) == 0 {
				fmt.Println(cli.InfoStyle.Render("No rows found for run " + runID + ".")) //nolint:forbidigo // User-facing output
				return nil
			}

			fmt.Println(cli.FormatTitle("Run " + runID)) //nolint:forbidigo // User-facing output
			fmt.Println()                                //nolint:forbidigo // User-facing output
			writeTable(os.Stdout, classifications)

			return nil
		},
	}
}
