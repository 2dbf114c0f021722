package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/resellkit/listing-scout/internal/engine"
	score "github.com/resellkit/listing-scout/pkg/scorer"
)

func analyzeCmd() *cobra.Command {
	var (
		location     string
		forcedBomID  string
		minMargin    float64
		targetMargin float64
		horizonDays  int
		detail       bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <asin> [asin...]",
		Short: "Analyze marketplace identifiers",
		Example: `  scout analyze B0DRILLKIT
  scout analyze B0DRILLKIT B0OTHERSKU --location warehouse-2
  scout analyze B0DRILLKIT --min-margin 5 --target-margin 12 --horizon 14`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := engine.Request{
				Identifiers: args,
				Location:    location,
				ForcedBomID: forcedBomID,
			}
			// Only flags the user set travel as overrides; the server
			// keeps its configured thresholds for the rest.
			overrides := &score.Overrides{}
			if cmd.Flags().Changed("min-margin") {
				overrides.MinMarginPct = &minMargin
			}
			if cmd.Flags().Changed("target-margin") {
				overrides.TargetMarginPct = &targetMargin
			}
			if cmd.Flags().Changed("horizon") {
				overrides.HorizonDays = &horizonDays
			}
			if overrides.MinMarginPct != nil || overrides.TargetMarginPct != nil ||
				overrides.HorizonDays != nil {
				req.ScoringOverrides = overrides
			}

			result, err := newClient().Analyze(context.Background(), req)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(result)
			}

			if detail && len(result.Results) > 0 {
				for i := range result.Results {
					if i > 0 {
						fmt.Println()
					}
					if err := printOpportunityDetail(&result.Results[i]); err != nil {
						return err
					}
				}
			} else if err := printOpportunityTable(result.Results); err != nil {
				return err
			}

			if len(result.Meta.InvalidIdentifiers) > 0 {
				fmt.Printf("\nInvalid identifiers: %v\n", result.Meta.InvalidIdentifiers)
			}
			if len(result.Meta.UnresolvedIdentifiers) > 0 {
				fmt.Printf("Unresolved (no market data): %v\n", result.Meta.UnresolvedIdentifiers)
			}
			for _, w := range result.Meta.Warnings {
				fmt.Printf("Warning: %s\n", w)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "stock location for feasibility")
	cmd.Flags().StringVar(&forcedBomID, "bom", "", "force a BOM for every identifier")
	cmd.Flags().Float64Var(&minMargin, "min-margin", 10, "minimum net margin percent")
	cmd.Flags().Float64Var(&targetMargin, "target-margin", 15, "target net margin percent")
	cmd.Flags().IntVar(&horizonDays, "horizon", 30, "demand horizon in days")
	cmd.Flags().BoolVar(&detail, "detail", false, "print full per-candidate breakdown")

	return cmd
}
