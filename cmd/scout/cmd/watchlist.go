package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func watchlistCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "watchlist",
		Short: "Manage the scheduled watchlist",
		Long: "Manage the identifiers the scheduler re-analyzes on its interval.\n" +
			"Opportunities that score GREEN trigger notifications.",
	}

	root.AddCommand(
		watchlistListCmd(),
		watchlistAddCmd(),
		watchlistRemoveCmd(),
		watchlistRunCmd(),
	)

	return root
}

func watchlistListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List watched identifiers",
		RunE: func(_ *cobra.Command, _ []string) error {
			asins, err := newClient().ListWatchlist(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(asins)
			}
			if len(asins) == 0 {
				fmt.Println("Watchlist is empty.")
				return nil
			}
			for _, asin := range asins {
				fmt.Println(asin)
			}
			return nil
		},
	}
}

func watchlistAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <asin>",
		Short: "Add an identifier to the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := newClient().AddWatchlistItem(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Added to watchlist.")
			return nil
		},
	}
}

func watchlistRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <asin>",
		Short: "Remove an identifier from the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := newClient().RemoveWatchlistItem(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Removed from watchlist.")
			return nil
		},
	}
}

func watchlistRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Trigger a watchlist analysis run now",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := newClient().RunWatchlist(context.Background()); err != nil {
				return err
			}
			fmt.Println("Watchlist run completed.")
			return nil
		},
	}
}
