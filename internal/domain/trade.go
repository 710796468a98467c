package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradePoint is one leg (entry or exit) of a trade.
// Numeric fields are independently optional so a leg can be filled in step by step.
type TradePoint struct {
	Date     Date                `json:"date"`
	Time     Clock               `json:"time"`
	Price    decimal.NullDecimal `json:"price"`
	Quantity decimal.NullDecimal `json:"quantity"`
	Fees     decimal.NullDecimal `json:"fees"`
}

// EmptyTradePoint returns a leg stamped with now and no numbers.
func EmptyTradePoint(now time.Time) TradePoint {
	return TradePoint{
		Date: DateOf(now),
		Time: ClockOf(now),
	}
}

func (p TradePoint) value() (decimal.Decimal, bool) {
	if !p.Price.Valid || !p.Quantity.Valid {
		return decimal.Zero, false
	}
	return p.Price.Decimal.Mul(p.Quantity.Decimal), true
}

func (p TradePoint) complete() bool {
	return p.Price.Valid && p.Quantity.Valid && p.Fees.Valid
}

func (p TradePoint) Equal(o TradePoint) bool {
	return p.Date == o.Date &&
		p.Time == o.Time &&
		nullEqual(p.Price, o.Price) &&
		nullEqual(p.Quantity, o.Quantity) &&
		nullEqual(p.Fees, o.Fees)
}

// TradeSave is a single journal record. Values handed out by the store and the
// edit session are never mutated; edits build new values.
type TradeSave struct {
	ID           string       `json:"id"`
	PositionType PositionType `json:"position_type"`
	AssetName    string       `json:"asset_name"`
	Entry        *TradePoint  `json:"entry"`
	Exit         *TradePoint  `json:"exit"`
	Note         *string      `json:"note"`
}

// EmptyTradeSave starts a new long trade with an empty entry leg.
func EmptyTradeSave(id string, now time.Time) *TradeSave {
	entry := EmptyTradePoint(now)
	return &TradeSave{
		ID:           id,
		PositionType: PositionLong,
		Entry:        &entry,
	}
}

// legs returns entry and exit values when all four numbers are present.
func (t *TradeSave) legs() (entry, exit decimal.Decimal, ok bool) {
	if t.Entry == nil || t.Exit == nil {
		return decimal.Zero, decimal.Zero, false
	}
	entry, okEntry := t.Entry.value()
	exit, okExit := t.Exit.value()
	if !okEntry || !okExit {
		return decimal.Zero, decimal.Zero, false
	}
	return entry, exit, true
}

// Profit is the realized profit, zero while any price or quantity is missing.
// Fees are not subtracted.
func (t *TradeSave) Profit() decimal.Decimal {
	entry, exit, ok := t.legs()
	if !ok {
		return decimal.Zero
	}
	if t.PositionType == PositionShort {
		return entry.Sub(exit)
	}
	return exit.Sub(entry)
}

// Percents is the relative return. The short-side base is the exit quantity
// squared, not the entry value. ok is false when data is missing or the base is zero.
func (t *TradeSave) Percents() (pct float64, ok bool) {
	entry, exit, ok := t.legs()
	if !ok {
		return 0, false
	}

	var diff decimal.Decimal
	var base float64
	if t.PositionType == PositionShort {
		qty := t.Exit.Quantity.Decimal.InexactFloat64()
		diff = entry.Sub(exit)
		base = qty * qty / 100
	} else {
		diff = exit.Sub(entry)
		base = entry.InexactFloat64() / 100
	}

	if base == 0 {
		return 0, false
	}
	return diff.InexactFloat64() / base, true
}

// EntryValue is entry price times entry quantity, zero if either is missing.
func (t *TradeSave) EntryValue() decimal.Decimal {
	if t.Entry == nil {
		return decimal.Zero
	}
	v, _ := t.Entry.value()
	return v
}

// Status compares raw exit and entry prices only; quantities are ignored, so it
// can disagree with the sign of Profit when the legs have different sizes.
func (t *TradeSave) Status() Status {
	if t.Entry == nil || t.Exit == nil || !t.Entry.Price.Valid || !t.Exit.Price.Valid {
		return StatusUndefined
	}
	diff := t.Exit.Price.Decimal.Sub(t.Entry.Price.Decimal)
	if t.PositionType == PositionShort {
		if diff.IsNegative() {
			return StatusProfit
		}
		return StatusLoss
	}
	if diff.IsPositive() {
		return StatusProfit
	}
	return StatusLoss
}

// IsToday reports whether the trade was closed on now's calendar day.
func (t *TradeSave) IsToday(now time.Time) bool {
	if t.Exit == nil {
		return false
	}
	return t.Exit.Date == DateOf(now)
}

func (t *TradeSave) IsValidForSave() bool {
	if t.AssetName == "" || t.Entry == nil || !t.Entry.complete() {
		return false
	}
	return t.Exit == nil || t.Exit.complete()
}

// Clone returns a copy that shares no pointers with t.
func (t *TradeSave) Clone() *TradeSave {
	c := *t
	if t.Entry != nil {
		e := *t.Entry
		c.Entry = &e
	}
	if t.Exit != nil {
		e := *t.Exit
		c.Exit = &e
	}
	if t.Note != nil {
		n := *t.Note
		c.Note = &n
	}
	return &c
}

// WithEntry applies fn to the entry leg if there is one.
func (t *TradeSave) WithEntry(fn func(TradePoint) TradePoint) *TradeSave {
	c := t.Clone()
	if c.Entry != nil {
		p := fn(*c.Entry)
		c.Entry = &p
	}
	return c
}

// WithExit applies fn to the exit leg if there is one.
func (t *TradeSave) WithExit(fn func(TradePoint) TradePoint) *TradeSave {
	c := t.Clone()
	if c.Exit != nil {
		p := fn(*c.Exit)
		c.Exit = &p
	}
	return c
}

// Equal compares field by field, decimals by numeric value.
func (t *TradeSave) Equal(o *TradeSave) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.ID == o.ID &&
		t.PositionType == o.PositionType &&
		t.AssetName == o.AssetName &&
		pointEqual(t.Entry, o.Entry) &&
		pointEqual(t.Exit, o.Exit) &&
		stringPtrEqual(t.Note, o.Note)
}

func pointEqual(a, b *TradePoint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func nullEqual(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}
