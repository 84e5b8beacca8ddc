package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mjhoekstra/florijn/internal/cli"
	"github.com/mjhoekstra/florijn/internal/config"
	"github.com/mjhoekstra/florijn/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

The other commands migrate automatically on startup; this command exists
to apply or inspect migrations explicitly.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	status, _ := cmd.Flags().GetBool("status")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("failed to close storage", "error", closeErr)
		}
	}()

	if status {
		version, versionErr := store.SchemaVersion(ctx)
		if versionErr != nil {
			return versionErr
		}

		fmt.Println(cli.FormatTitle("Migration Status"))                        //nolint:forbidigo // User-facing output
		fmt.Printf("  Database: %s\n", cfg.Database.Path)                       //nolint:forbidigo // User-facing output
		fmt.Printf("  Current version: %d\n", version)                          //nolint:forbidigo // User-facing output
		fmt.Printf("  Latest version: %d\n", storage.ExpectedSchemaVersion)     //nolint:forbidigo // User-facing output
		if version == storage.ExpectedSchemaVersion {
			fmt.Println(cli.FormatSuccess("Schema is up to date")) //nolint:forbidigo // User-facing output
		} else {
			fmt.Println(cli.FormatWarning("Schema is behind; run 'florijn migrate'")) //nolint:forbidigo // User-facing output
		}
		return nil
	}

	slog.Info("Running database migrations", "database", cfg.Database.Path)

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Println(cli.FormatSuccess("Database migrations completed")) //nolint:forbidigo // User-facing output
	return nil
}
