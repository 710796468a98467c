package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vitos/trade_journal/internal/usecase"
)

var deleteAll bool

var deleteCmd = &cobra.Command{
	Use:   "delete [trade-id]",
	Short: "Delete one trade, or all of them with --all",
	Args: func(cmd *cobra.Command, args []string) error {
		if deleteAll && len(args) > 0 {
			return errors.New("give either a trade id or --all, not both")
		}
		if !deleteAll && len(args) != 1 {
			return errors.New("a trade id is required unless --all is set")
		}
		return nil
	},
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVar(&deleteAll, "all", false, "delete every trade in the journal")
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	session := usecase.NewEditSession(a.store, a.log)
	ctx := context.Background()
	if deleteAll {
		if err := session.DeleteAllTrades(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All trades deleted")
		return nil
	}

	if err := session.DeleteTrade(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Trade %s deleted\n", args[0])
	return nil
}
