// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/papervisor/internal/ledger"
	"github.com/pdiddy/papervisor/pkg/types"
)

var statusCmd = &cobra.Command{
	Use:   "status [paper-id]",
	Short: "Show extraction outcomes from the status ledger",
	Long: `Status lists the recorded extraction outcome for every paper in the
project ledger, or the full entry for a single paper when an identifier
is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := types.ExtractionConfig{ProjectDir: projectDir(cmd)}
	led, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		return err
	}

	if len(args) == 1 {
		return showEntry(led, args[0])
	}

	entries := led.List()
	if len(entries) == 0 {
		fmt.Fprintln(os.Stdout, "no extraction attempts recorded")
		return nil
	}

	counts := map[types.Outcome]int{}
	for _, id := range led.IDs() {
		entry := entries[id]
		counts[entry.Outcome]++
		line := fmt.Sprintf("%-8s %s", entry.Outcome, id)
		if entry.Error != "" {
			line += ": " + entry.Error
		}
		fmt.Fprintln(os.Stdout, line)
	}

	fmt.Fprintf(os.Stdout, "\n%d succeeded, %d partial, %d failed (total: %d)\n",
		counts[types.OutcomeSuccess], counts[types.OutcomePartial],
		counts[types.OutcomeFailed], len(entries))
	return nil
}

func showEntry(led *ledger.Ledger, id string) error {
	entry, ok := led.Get(id)
	if !ok {
		return fmt.Errorf("no extraction recorded for paper %s", id)
	}

	fmt.Fprintf(os.Stdout, "paper:      %s\n", id)
	fmt.Fprintf(os.Stdout, "outcome:    %s\n", entry.Outcome)
	fmt.Fprintf(os.Stdout, "attempted:  %s\n", entry.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
	if len(entry.Sections) > 0 {
		fmt.Fprintf(os.Stdout, "sections:   %s\n", strings.Join(entry.Sections, ", "))
	}
	if entry.RecordFile != "" {
		fmt.Fprintf(os.Stdout, "record:     %s\n", entry.RecordFile)
	}
	if entry.Error != "" {
		fmt.Fprintf(os.Stdout, "error:      %s\n", entry.Error)
	}
	return nil
}
