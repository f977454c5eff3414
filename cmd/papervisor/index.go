// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/papervisor/internal/index"
	"github.com/pdiddy/papervisor/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the record index (store, search, export)",
	Long: `Index maintains a SQLite full-text index over the project's extracted
records. Use subcommands to ingest records, search section contents, or
rewrite the export summary.`,
}

// --- store subcommand ---

var indexStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Ingest extraction records into the index",
	Long: `Store reads record JSON files from pdfs/extracted_texts/, indexes
papers and section contents with FTS5, and writes an export summary.
Unchanged records are skipped on subsequent runs.`,
	RunE: runIndexStore,
}

func runIndexStore(cmd *cobra.Command, args []string) error {
	store, cfg, err := openIndex(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	recordsDir := types.ExtractionConfig{ProjectDir: cfg.ProjectDir}.RecordsRoot()
	summary, err := store.Ingest(context.Background(), recordsDir, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d record(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- search subcommand ---

var indexSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over extracted section contents",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexSearch,
}

func runIndexSearch(cmd *cobra.Command, args []string) error {
	store, _, err := openIndex(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	hits, err := store.Search(context.Background(), args[0], limit)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Fprintln(os.Stdout, "no matches")
		return nil
	}

	for _, h := range hits {
		year := ""
		if h.Year > 0 {
			year = fmt.Sprintf(" (%d)", h.Year)
		}
		fmt.Fprintf(os.Stdout, "%s%s [%s]\n    %s\n", h.PaperID, year, h.Section, h.Snippet)
		if h.Title != "" {
			fmt.Fprintf(os.Stdout, "    %s\n", h.Title)
		}
	}
	return nil
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Rewrite the export summary from the index",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cfg, err := openIndex(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Export(context.Background()); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "wrote %s/%s\n", cfg.IndexRoot(), types.IndexExport)
		return nil
	},
}

func init() {
	indexSearchCmd.Flags().Int("limit", 0, "maximum results (default 20)")

	indexCmd.AddCommand(indexStoreCmd)
	indexCmd.AddCommand(indexSearchCmd)
	indexCmd.AddCommand(indexExportCmd)
	rootCmd.AddCommand(indexCmd)
}

func openIndex(cmd *cobra.Command) (*index.Store, types.IndexConfig, error) {
	cfg := types.IndexConfig{
		ProjectDir: projectDir(cmd),
		MaxResults: viper.GetInt("index.max_results"),
	}
	store, err := index.NewStore(cfg)
	if err != nil {
		return nil, cfg, err
	}
	return store, cfg, nil
}
