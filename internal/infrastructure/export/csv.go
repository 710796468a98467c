package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vitos/trade_journal/internal/domain"
)

// Header is the first row of every exported journal.
var Header = []string{
	"id", "position_type", "asset_name",
	"entry_date", "entry_time", "entry_price", "entry_quantity", "entry_fees",
	"exit_date", "exit_time", "exit_price", "exit_quantity", "exit_fees",
	"profit", "percents", "status", "note",
}

// WriteCSV writes trades as one row each, in the given order.
func WriteCSV(w io.Writer, trades []*domain.TradeSave) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, t := range trades {
		if err := cw.Write(row(t)); err != nil {
			return fmt.Errorf("failed to write trade %s: %w", t.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates (or truncates) path and writes the journal into it.
func WriteFile(path string, trades []*domain.TradeSave) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, trades); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func row(t *domain.TradeSave) []string {
	r := make([]string, 0, len(Header))
	r = append(r, t.ID, t.PositionType.String(), t.AssetName)
	r = append(r, legColumns(t.Entry)...)
	r = append(r, legColumns(t.Exit)...)

	percents := ""
	if pct, ok := t.Percents(); ok {
		percents = strconv.FormatFloat(pct, 'f', 2, 64)
	}
	note := ""
	if t.Note != nil {
		note = *t.Note
	}
	return append(r, t.Profit().String(), percents, string(t.Status()), note)
}

func legColumns(p *domain.TradePoint) []string {
	if p == nil {
		return []string{"", "", "", "", ""}
	}
	return []string{p.Date.String(), p.Time.String(), amount(p.Price), amount(p.Quantity), amount(p.Fees)}
}

func amount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

// DefaultFileName names an export after the day it was taken.
func DefaultFileName(now time.Time) string {
	return "journal-" + now.Format("2006-01-02") + ".csv"
}
