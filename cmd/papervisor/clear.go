// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/papervisor/internal/ledger"
	"github.com/pdiddy/papervisor/pkg/types"
)

var clearCmd = &cobra.Command{
	Use:   "clear [paper-id]",
	Short: "Clear recorded extraction status for retry",
	Long: `Clear removes status entries so the next batch treats the affected
papers as unprocessed. Record JSON files are not deleted; a prior
successful extraction stays on disk until a new pass overwrites it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClear,
}

func init() {
	clearCmd.Flags().Bool("all", false, "clear every paper's status")

	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	if all == (len(args) == 1) {
		return fmt.Errorf("specify either a paper identifier or --all")
	}

	cfg := types.ExtractionConfig{ProjectDir: projectDir(cmd)}
	led, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		return err
	}

	if all {
		if err := led.ClearAll(); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "cleared extraction status for all papers")
		return nil
	}

	if err := led.Clear(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "cleared extraction status for paper %s\n", args[0])
	return nil
}
