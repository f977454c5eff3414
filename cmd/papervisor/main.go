// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the papervisor CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the papervisor CLI.
var rootCmd = &cobra.Command{
	Use:   "papervisor",
	Short: "Structured text extraction for literature review projects",
	Long: `papervisor turns a literature review project's downloaded PDFs into
structured, schema-conformant records: title, authors, year, DOI, section
texts, and extraction metadata, one JSON file per paper.

The extract command runs the batch pipeline and tracks per-paper outcomes
in a durable status ledger, so interrupted or partially failed runs can be
resumed or retried. The index command builds a SQLite full-text index over
the extracted records for downstream screening tools.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./papervisor.yaml or ~/.config/papervisor/config.yaml)")
	rootCmd.PersistentFlags().String("project", "", "literature review project directory")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("papervisor")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "papervisor"))
		}
	}

	viper.SetEnvPrefix("PAPERVISOR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// projectDir resolves the project directory from the flag, the config
// file, or the working directory, in that order.
func projectDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("project"); dir != "" {
		return dir
	}
	if dir := viper.GetString("extraction.project_dir"); dir != "" {
		return dir
	}
	return "."
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
