package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vitos/trade_journal/internal/infrastructure/export"
	"go.uber.org/zap"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the journal to CSV",
	Long: `Export writes every trade, newest first, to a CSV file together with
its profit, percents and status.

Examples:
  journal export
  journal export --out trades.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default journal-<date>.csv)")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	trades, err := a.store.ListTrades(context.Background())
	if err != nil {
		return fmt.Errorf("list trades: %w", err)
	}

	out := exportOut
	if out == "" {
		out = export.DefaultFileName(time.Now())
	}
	if err := export.WriteFile(out, trades); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	a.log.Info("Journal exported", zap.String("file", out), zap.Int("trades", len(trades)))
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d trades to %s\n", len(trades), out)
	return nil
}
