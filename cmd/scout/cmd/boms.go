package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	apiclient "github.com/resellkit/listing-scout/internal/api/client"
)

func bomsCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "boms",
		Short: "Manage bills of materials",
		Long: "Manage the BOMs that map sellable products to the components and\n" +
			"quantities needed to assemble them.",
	}

	root.AddCommand(
		bomListCmd(),
		bomGetCmd(),
		bomCreateCmd(),
		bomActivateCmd(),
		bomDeactivateCmd(),
		bomDeleteCmd(),
	)

	return root
}

func bomListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active BOMs",
		RunE: func(_ *cobra.Command, _ []string) error {
			boms, err := newClient().ListActiveBoms(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(boms)
			}
			if len(boms) == 0 {
				fmt.Println("No active BOMs.")
				return nil
			}
			return printBomTable(boms)
		},
	}
}

func bomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show BOM details",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			b, err := newClient().GetBom(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(b)
			}
			return printBomDetail(b)
		},
	}
}

func bomCreateCmd() *cobra.Command {
	var (
		description string
		lines       []string
		inactive    bool
	)

	cmd := &cobra.Command{
		Use:   "create <sku>",
		Short: "Create a BOM",
		Long: "Create a BOM from component lines. Each --line is a component ID and\n" +
			"quantity separated by a colon. Without --line flags the SKU is treated\n" +
			"as a compound recipe and the server derives the lines from it.",
		Example: `  scout boms create KIT-DHP484-2x5 --line comp-battery:2 --line comp-drill:1
  scout boms create MAKDJR186+2xBL1850+DC18RC`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			req := apiclient.BomRequest{
				SKU:         args[0],
				Description: description,
				Active:      !inactive,
			}
			for _, raw := range lines {
				id, qtyStr, found := strings.Cut(raw, ":")
				if !found {
					return fmt.Errorf("invalid line %q: expected component-id:quantity", raw)
				}
				qty, err := strconv.Atoi(qtyStr)
				if err != nil || qty < 1 {
					return fmt.Errorf("invalid quantity in line %q", raw)
				}
				req.Lines = append(req.Lines, apiclient.BomLineRequest{
					ComponentID: id,
					Quantity:    qty,
				})
			}
			created, err := newClient().CreateBom(context.Background(), req)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(created)
			}
			fmt.Printf("Created BOM %s (%s)\n", created.SKU, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "BOM description")
	cmd.Flags().StringArrayVar(&lines, "line", nil, "component line as component-id:quantity")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create without activating")
	return cmd
}

func bomActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <id>",
		Short: "Activate a BOM",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := newClient().SetBomActive(context.Background(), args[0], true); err != nil {
				return err
			}
			fmt.Println("BOM activated.")
			return nil
		},
	}
}

func bomDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Deactivate a BOM",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := newClient().SetBomActive(context.Background(), args[0], false); err != nil {
				return err
			}
			fmt.Println("BOM deactivated.")
			return nil
		},
	}
}

func bomDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a BOM",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := newClient().DeleteBom(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("BOM deleted.")
			return nil
		},
	}
}
