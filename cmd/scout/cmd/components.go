package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/resellkit/listing-scout/internal/api/client"
)

func componentsCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "components",
		Short: "Manage the component catalog",
	}

	root.AddCommand(
		componentListCmd(),
		componentCreateCmd(),
		componentCostCmd(),
		componentDeleteCmd(),
	)

	return root
}

func componentListCmd() *cobra.Command {
	var brand string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List components",
		Example: `  scout components list
  scout components list --brand Makita`,
		RunE: func(_ *cobra.Command, _ []string) error {
			components, total, err := newClient().ListComponents(context.Background(), brand)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(components)
			}
			if len(components) == 0 {
				fmt.Println("No components found.")
				return nil
			}
			if err := printComponentTable(components); err != nil {
				return err
			}
			fmt.Printf("\n%d total\n", total)
			return nil
		},
	}

	cmd.Flags().StringVar(&brand, "brand", "", "filter by brand")
	return cmd
}

func componentCreateCmd() *cobra.Command {
	var (
		description string
		brand       string
		cost        int64
	)

	cmd := &cobra.Command{
		Use:   "create <sku>",
		Short: "Create a component",
		Example: `  scout components create BL1850 --brand Makita --cost 4500
  scout components create DHP484Z --description "18V combi drill, bare"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := apiclient.ComponentRequest{
				SKU:         args[0],
				Description: description,
				Brand:       brand,
			}
			if cmd.Flags().Changed("cost") {
				req.UnitCost = &cost
			}

			created, err := newClient().CreateComponent(context.Background(), req)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(created)
			}
			fmt.Printf("Created component %s (%s)\n", created.SKU, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "component description")
	cmd.Flags().StringVar(&brand, "brand", "", "component brand")
	cmd.Flags().Int64Var(&cost, "cost", 0, "unit cost in minor units (pence)")
	return cmd
}

func componentCostCmd() *cobra.Command {
	var (
		cost  int64
		clear bool
	)

	cmd := &cobra.Command{
		Use:   "cost <id>",
		Short: "Update a component's unit cost",
		Example: `  scout components cost c1a2b3 --cost 5200
  scout components cost c1a2b3 --clear`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var unitCost *int64
			switch {
			case clear:
			case cmd.Flags().Changed("cost"):
				unitCost = &cost
			default:
				return fmt.Errorf("either --cost or --clear is required")
			}

			if err := newClient().UpdateComponentCost(context.Background(), args[0], unitCost); err != nil {
				return err
			}
			fmt.Println("Cost updated.")
			return nil
		},
	}

	cmd.Flags().Int64Var(&cost, "cost", 0, "new unit cost in minor units")
	cmd.Flags().BoolVar(&clear, "clear", false, "mark the cost as unknown")
	return cmd
}

func componentDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := newClient().DeleteComponent(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Component deleted.")
			return nil
		},
	}
}
