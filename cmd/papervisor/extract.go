// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/papervisor/internal/ledger"
	"github.com/pdiddy/papervisor/internal/library"
	"github.com/pdiddy/papervisor/internal/runner"
	"github.com/pdiddy/papervisor/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Run the batch extraction pipeline over a project's PDFs",
	Long: `Extract decodes every downloaded PDF in the project, segments the text
into academic sections, infers bibliographic metadata, and writes one
record JSON per paper under pdfs/extracted_texts/.

Each paper's outcome (success, partial, failed) is recorded in the
project's status ledger. By default only papers without a prior success
are processed; --scope all reprocesses everything, and --retry-all first
clears the ledger so every paper counts as unprocessed.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("scope", string(runner.ScopeUnprocessed), "batch scope: all or unprocessed")
	extractCmd.Flags().Bool("retry-all", false, "clear the status ledger, then run a full-scope batch")
	extractCmd.Flags().Int("workers", 0, "bounded concurrency within the batch (default 1)")
	extractCmd.Flags().Int("min-section-words", 0, "minimum words for a section match (default 10)")
	extractCmd.Flags().String("library", "", "override the consolidated CSV path")

	rootCmd.AddCommand(extractCmd)
}

func extractionConfig(cmd *cobra.Command) types.ExtractionConfig {
	cfg := types.ExtractionConfig{
		ProjectDir:      projectDir(cmd),
		MinSectionWords: viper.GetInt("extraction.min_section_words"),
		Workers:         viper.GetInt("extraction.workers"),
	}
	if v, _ := cmd.Flags().GetInt("min-section-words"); v > 0 {
		cfg.MinSectionWords = v
	}
	if v, _ := cmd.Flags().GetInt("workers"); v > 0 {
		cfg.Workers = v
	}
	if v, _ := cmd.Flags().GetString("library"); v != "" {
		cfg.LibraryPath = v
	}
	return cfg
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := extractionConfig(cmd)

	docs, err := library.Documents(cfg)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintln(os.Stdout, "no downloaded papers to extract")
		return nil
	}

	led, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		return err
	}

	scope := runner.Scope(mustString(cmd, "scope"))
	if retryAll, _ := cmd.Flags().GetBool("retry-all"); retryAll {
		if err := led.ClearAll(); err != nil {
			return err
		}
		scope = runner.ScopeAll
		fmt.Fprintln(os.Stdout, "cleared extraction status; reprocessing all papers")
	}

	r := runner.New(cfg, led, os.Stdout)
	if err := r.Start(context.Background(), docs, scope); err != nil {
		return err
	}
	r.Wait()

	snap := r.Snapshot()
	if snap.State == runner.StateAborted {
		return fmt.Errorf("batch aborted after %d of %d papers", snap.Processed, snap.Total)
	}
	if snap.Failed > 0 {
		return fmt.Errorf("%d paper(s) failed extraction", snap.Failed)
	}
	return nil
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
