package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apiclient "github.com/resellkit/listing-scout/internal/api/client"
)

func mappingsCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mappings",
		Short: "Manage listing-to-BOM mappings",
	}

	root.AddCommand(
		mappingGetCmd(),
		mappingSetCmd(),
		mappingDeleteCmd(),
	)

	return root
}

func mappingGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <asin> [asin...]",
		Short: "Look up mappings for identifiers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mappings, err := newClient().GetMappings(context.Background(), args)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(mappings)
			}
			if len(mappings) == 0 {
				fmt.Println("No mappings found.")
				return nil
			}

			tw := newTabWriter(os.Stdout)
			tw.writef("ASIN\tBOM\tFEE OVERRIDE\n")
			for _, asin := range args {
				m, ok := mappings[asin]
				if !ok {
					continue
				}
				override := "-"
				if m.FeeOverridePercent != nil {
					override = fmt.Sprintf("%.1f%%", *m.FeeOverridePercent)
				}
				tw.writef("%s\t%s\t%s\n", m.ASIN, m.BomID, override)
			}
			return tw.finish()
		},
	}
}

func mappingSetCmd() *cobra.Command {
	var feeOverride float64

	cmd := &cobra.Command{
		Use:   "set <asin> <bom-id>",
		Short: "Create or replace a mapping",
		Example: `  scout mappings set B0DRILLKIT bom-1
  scout mappings set B0DRILLKIT bom-1 --fee-override 8`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := apiclient.MappingRequest{
				ASIN:  args[0],
				BomID: args[1],
			}
			if cmd.Flags().Changed("fee-override") {
				req.FeeOverridePercent = &feeOverride
			}

			if err := newClient().UpsertMapping(context.Background(), req); err != nil {
				return err
			}
			fmt.Println("Mapping saved.")
			return nil
		},
	}

	cmd.Flags().Float64Var(&feeOverride, "fee-override", 0, "referral fee override percent")
	return cmd
}

func mappingDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <asin>",
		Short: "Delete a mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := newClient().DeleteMapping(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Mapping deleted.")
			return nil
		},
	}
}
