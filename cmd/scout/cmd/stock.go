package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/resellkit/listing-scout/internal/api/client"
)

func stockCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "stock",
		Short: "Manage component stock levels",
	}

	root.AddCommand(stockSetCmd())
	return root
}

func stockSetCmd() *cobra.Command {
	var (
		location string
		onHand   int
		reserved int
	)

	cmd := &cobra.Command{
		Use:   "set <component-id>",
		Short: "Set a component's stock level",
		Example: `  scout stock set comp-battery --on-hand 20 --reserved 4
  scout stock set comp-drill --location warehouse-2 --on-hand 12`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			err := newClient().UpsertStock(context.Background(), apiclient.StockRequest{
				ComponentID: args[0],
				Location:    location,
				OnHand:      onHand,
				Reserved:    reserved,
			})
			if err != nil {
				return err
			}
			fmt.Println("Stock level saved.")
			return nil
		},
	}

	cmd.Flags().StringVar(&location, "location", "main", "stock location")
	cmd.Flags().IntVar(&onHand, "on-hand", 0, "units physically on hand")
	cmd.Flags().IntVar(&reserved, "reserved", 0, "units reserved for open orders")
	return cmd
}
