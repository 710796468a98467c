package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vitos/trade_journal/internal/usecase"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print overall profit and today's result",
	Args:  cobra.NoArgs,
	RunE:  runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	formula, err := usecase.ParseTodayFormula(a.cfg.Dashboard.TodayFormula)
	if err != nil {
		return err
	}
	info, err := usecase.NewDashboardService(a.store, a.store, formula, a.log).Current(context.Background())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Overall: %s\n", info.Overall.StringFixed(2))
	fmt.Fprintf(out, "Today:   %.2f%% (%s)\n", info.TodayPercents, formula)
	return nil
}
