package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mjhoekstra/florijn/internal/cli"
	"github.com/mjhoekstra/florijn/internal/common"
	"github.com/mjhoekstra/florijn/internal/config"
	"github.com/mjhoekstra/florijn/internal/ingest"
	"github.com/mjhoekstra/florijn/internal/model"
)

const (
	formatOFX = "ofx"
	formatCSV = "csv"
)

// classifyChunkSize bounds how many transactions are categorized between
// progress updates and cancellation checks.
const classifyChunkSize = 100

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Categorize transactions from a bank export",
		Long: `Categorize the transactions in an OFX/QFX or CSV bank export.

Each transaction runs through the rule chain: user rules in priority
order, built-in rules, then a normalized-name fallback. Results are
persisted as a run unless --dry-run is given.

Examples:
  florijn classify --input afschrift.ofx
  florijn classify --input export.csv --output json
  florijn classify --input afschrift.qfx --dry-run`,
		RunE: runClassify,
	}

	// Flags
	cmd.Flags().StringP("input", "i", "", "bank export file to classify (required)")
	cmd.Flags().String("format", "", "input format: ofx or csv (default: from file extension)")
	cmd.Flags().StringP("output", "o", "table", "output format: table or json")
	cmd.Flags().Bool("dry-run", false, "Preview without saving the run")

	_ = cmd.MarkFlagRequired("input")

	// Bind to viper (errors are rare and can be ignored in practice)
	_ = viper.BindPFlag("classify.format", cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("classify.output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("classify.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runClassify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	inputPath, _ := cmd.Flags().GetString("input")
	format := viper.GetString("classify.format")
	output := viper.GetString("classify.output")
	dryRun := viper.GetBool("classify.dry_run")

	if output != "table" && output != "json" {
		return fmt.Errorf("invalid output format: %s (use table or json)", output)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	transactions, err := readTransactions(ctx, inputPath, format)
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

	slog.Info("Classifying transactions",
		"count", len(transactions),
		"rules", eng.RuleCount())

	start := time.Now()
	bar := cli.NewProgressBar(os.Stderr, len(transactions), "Classifying transactions...")

	classifications := make([]model.Classification, 0, len(transactions))
	for lo := 0; lo < len(transactions); lo += classifyChunkSize {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		hi := min(lo+classifyChunkSize, len(transactions))
		results := eng.CategorizeBatch(transactions[lo:hi])
		now := time.Now().UTC()
		for i, result := range results {
			classifications = append(classifications, model.Classification{
				ClassifiedAt: now,
				Transaction:  transactions[lo+i],
				Result:       result,
			})
		}
		_ = bar.Add(hi - lo)
	}
	_ = bar.Finish()

	if output == "json" {
		if err := writeJSON(os.Stdout, classifications); err != nil {
			return err
		}
	} else {
		writeTable(os.Stdout, classifications)
	}

	fmt.Println(cli.RenderRunSummary(cli.NewRunStats(classifications, time.Since(start)))) //nolint:forbidigo // User-facing output

	if dryRun {
		fmt.Println(cli.FormatWarning("Dry run mode - the run was not saved")) //nolint:forbidigo // User-facing output
		return nil
	}

	runID := uuid.New().String()
	if err := store.SaveClassifications(ctx, runID, classifications); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Saved run %s (%d transactions)", runID, len(classifications)))) //nolint:forbidigo // User-facing output
	fmt.Println(cli.SubtleStyle.Render("Inspect it later with: florijn runs show " + runID))                   //nolint:forbidigo // User-facing output

	return nil
}

// readTransactions opens the export file and parses it with the resolved
// format. An export with zero transactions is an error, not an empty run.
func readTransactions(ctx context.Context, path, format string) ([]model.Transaction, error) {
	resolved, err := detectFormat(path, format)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Warn("Failed to close input file", "error", closeErr)
		}
	}()

	var transactions []model.Transaction
	switch resolved {
	case formatOFX:
		transactions, err = ingest.NewParser().ParseFile(ctx, file)
	case formatCSV:
		transactions, err = ingest.ParseCSV(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s input: %w", resolved, err)
	}

	if len(transactions) == 0 {
		return nil, common.ErrNoTransactions
	}

	return transactions, nil
}

// detectFormat resolves the input format from the explicit flag or, when the
// flag is empty, from the file extension.
func detectFormat(path, explicit string) (string, error) {
	switch strings.ToLower(explicit) {
	case formatOFX, formatCSV:
		return strings.ToLower(explicit), nil
	case "":
	default:
		return "", fmt.Errorf("%w: %s (use ofx or csv)", common.ErrUnsupportedFormat, explicit)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ofx", ".qfx":
		return formatOFX, nil
	case ".csv":
		return formatCSV, nil
	}

	return "", fmt.Errorf("%w: cannot detect format of %s (use --format)", common.ErrUnsupportedFormat, filepath.Base(path))
}

type classificationRow struct {
	Date             string  `json:"date"`
	Description      string  `json:"description,omitempty"`
	CounterParty     string  `json:"counterparty,omitempty"`
	Amount           string  `json:"amount"`
	Category         string  `json:"category,omitempty"`
	StandardizedName string  `json:"standardized_name,omitempty"`
	MatchedPattern   string  `json:"matched_pattern,omitempty"`
	Confidence       float64 `json:"confidence"`
}

func rowFromClassification(c model.Classification) classificationRow {
	return classificationRow{
		Date:             c.Transaction.Date.Format(model.DateFormat),
		Description:      c.Transaction.Description,
		CounterParty:     c.Transaction.CounterParty,
		Amount:           c.Transaction.Amount.String(),
		Category:         c.Result.Category,
		StandardizedName: c.Result.StandardizedName,
		MatchedPattern:   c.Result.MatchedPattern,
		Confidence:       c.Result.Confidence,
	}
}

func writeJSON(w io.Writer, classifications []model.Classification) error {
	rows := make([]classificationRow, len(classifications))
	for i, c := range classifications {
		rows[i] = rowFromClassification(c)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}

func writeTable(w io.Writer, classifications []model.Classification) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer func() {
		if flushErr := tw.Flush(); flushErr != nil {
			slog.Error("failed to flush table writer", "error", flushErr)
		}
	}()

	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("Date"),
		cli.TableHeaderStyle.Render("Counterparty"),
		cli.TableHeaderStyle.Render("Amount"),
		cli.TableHeaderStyle.Render("Category"),
		cli.TableHeaderStyle.Render("Confidence"))
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("─", 10),
		strings.Repeat("─", 24),
		strings.Repeat("─", 10),
		strings.Repeat("─", 16),
		strings.Repeat("─", 10))

	for _, c := range classifications {
		row := rowFromClassification(c)

		name := row.CounterParty
		if name == "" {
			name = row.Description
		}
		if row.StandardizedName != "" {
			name = row.StandardizedName
		}

		category := row.Category
		if category == "" {
			category = cli.SubtleStyle.Render("(uncategorized)")
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\n",
			row.Date, name, row.Amount, category, row.Confidence)
	}
}
