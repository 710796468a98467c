package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/vitos/trade_journal/internal/domain"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show <trade-id>",
	Short: "Show one trade with its derived figures",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	trades, err := a.store.ListTrades(context.Background())
	if err != nil {
		return fmt.Errorf("list trades: %w", err)
	}
	return printTrades(cmd.OutOrStdout(), trades, time.Now())
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.store.GetTrade(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}
	return printTrade(cmd.OutOrStdout(), t, time.Now())
}

func printTrades(w io.Writer, trades []*domain.TradeSave, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tASSET\tSIDE\tENTRY\tEXIT\tPROFIT\tPERCENTS\tSTATUS")
	for _, t := range trades {
		exit := "open"
		if t.Exit != nil {
			exit = t.Exit.Date.String()
		}
		if t.IsToday(now) {
			exit += " (today)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.AssetName, t.PositionType, legDate(t.Entry), exit,
			t.Profit().String(), percents(t), t.Status())
	}
	return tw.Flush()
}

func printTrade(w io.Writer, t *domain.TradeSave, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", t.ID)
	fmt.Fprintf(tw, "Asset:\t%s\n", t.AssetName)
	fmt.Fprintf(tw, "Position:\t%s\n", t.PositionType)
	fmt.Fprintf(tw, "Entry:\t%s\n", legLine(t.Entry))
	fmt.Fprintf(tw, "Exit:\t%s\n", legLine(t.Exit))
	fmt.Fprintf(tw, "Entry value:\t%s\n", t.EntryValue().String())
	fmt.Fprintf(tw, "Profit:\t%s\n", t.Profit().String())
	fmt.Fprintf(tw, "Percents:\t%s\n", percents(t))
	fmt.Fprintf(tw, "Status:\t%s\n", t.Status())
	fmt.Fprintf(tw, "Closed today:\t%t\n", t.IsToday(now))
	if t.Note != nil {
		fmt.Fprintf(tw, "Note:\t%s\n", *t.Note)
	}
	return tw.Flush()
}

func legDate(p *domain.TradePoint) string {
	if p == nil {
		return "-"
	}
	return p.Date.String()
}

func legLine(p *domain.TradePoint) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%s %s price=%s qty=%s fees=%s",
		p.Date, p.Time, amount(p.Price.Valid, p.Price.Decimal.String()),
		amount(p.Quantity.Valid, p.Quantity.Decimal.String()),
		amount(p.Fees.Valid, p.Fees.Decimal.String()))
}

func amount(valid bool, s string) string {
	if !valid {
		return "-"
	}
	return s
}

func percents(t *domain.TradeSave) string {
	pct, ok := t.Percents()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", pct)
}
