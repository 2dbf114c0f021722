// Package cmd implements the CLI commands for the listing-scout server.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "listing-scout",
	Short: "Profitability and opportunity scoring for marketplace listings",
	Long: "An API-first service that scores marketplace listing opportunities for a reseller:\n" +
		"fee and margin math, BOM matching against the component catalog, buildable-unit\n" +
		"feasibility, demand forecasting, and an explainable 0-100 opportunity score.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
