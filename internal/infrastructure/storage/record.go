package storage

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vitos/trade_journal/internal/domain"
)

// TradeRecord is the flat row a trade is stored as. Every leg column is
// nullable; decimals are kept as their base-10 strings.
type TradeRecord struct {
	ID            string
	PositionType  int
	AssetName     string
	EntryDate     sql.NullString
	EntryTime     sql.NullString
	EntryPrice    sql.NullString
	EntryQuantity sql.NullString
	EntryFees     sql.NullString
	ExitDate      sql.NullString
	ExitTime      sql.NullString
	ExitPrice     sql.NullString
	ExitQuantity  sql.NullString
	ExitFees      sql.NullString
	Note          sql.NullString
}

// EncodeTrade flattens a trade into its stored form.
func EncodeTrade(t *domain.TradeSave) TradeRecord {
	rec := TradeRecord{
		ID:           t.ID,
		PositionType: int(t.PositionType),
		AssetName:    t.AssetName,
	}
	if t.Entry != nil {
		rec.EntryDate = validString(t.Entry.Date.String())
		rec.EntryTime = validString(t.Entry.Time.String())
		rec.EntryPrice = encodeAmount(t.Entry.Price)
		rec.EntryQuantity = encodeAmount(t.Entry.Quantity)
		rec.EntryFees = encodeAmount(t.Entry.Fees)
	}
	if t.Exit != nil {
		rec.ExitDate = validString(t.Exit.Date.String())
		rec.ExitTime = validString(t.Exit.Time.String())
		rec.ExitPrice = encodeAmount(t.Exit.Price)
		rec.ExitQuantity = encodeAmount(t.Exit.Quantity)
		rec.ExitFees = encodeAmount(t.Exit.Fees)
	}
	if t.Note != nil {
		rec.Note = validString(*t.Note)
	}
	return rec
}

// DecodeTrade rebuilds a trade. A leg exists only when both its date and time do.
func DecodeTrade(rec TradeRecord) (*domain.TradeSave, error) {
	pos, err := domain.PositionTypeFromCode(rec.PositionType)
	if err != nil {
		return nil, fmt.Errorf("trade %s: %w", rec.ID, err)
	}

	t := &domain.TradeSave{
		ID:           rec.ID,
		PositionType: pos,
		AssetName:    rec.AssetName,
	}

	t.Entry, err = decodeLeg(rec.EntryDate, rec.EntryTime, rec.EntryPrice, rec.EntryQuantity, rec.EntryFees)
	if err != nil {
		return nil, fmt.Errorf("trade %s entry: %w", rec.ID, err)
	}
	t.Exit, err = decodeLeg(rec.ExitDate, rec.ExitTime, rec.ExitPrice, rec.ExitQuantity, rec.ExitFees)
	if err != nil {
		return nil, fmt.Errorf("trade %s exit: %w", rec.ID, err)
	}
	if rec.Note.Valid {
		n := rec.Note.String
		t.Note = &n
	}
	return t, nil
}

func decodeLeg(date, clock, price, qty, fees sql.NullString) (*domain.TradePoint, error) {
	if !date.Valid || !clock.Valid {
		return nil, nil
	}

	d, err := domain.ParseDate(date.String)
	if err != nil {
		return nil, err
	}
	c, err := domain.ParseClock(clock.String)
	if err != nil {
		return nil, err
	}

	p := domain.TradePoint{Date: d, Time: c}
	if p.Price, err = decodeAmount(price); err != nil {
		return nil, err
	}
	if p.Quantity, err = decodeAmount(qty); err != nil {
		return nil, err
	}
	if p.Fees, err = decodeAmount(fees); err != nil {
		return nil, err
	}
	return &p, nil
}

func validString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func encodeAmount(d decimal.NullDecimal) sql.NullString {
	if !d.Valid {
		return sql.NullString{}
	}
	return validString(d.Decimal.String())
}

func decodeAmount(s sql.NullString) (decimal.NullDecimal, error) {
	if !s.Valid {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid amount %q: %w", s.String, err)
	}
	return decimal.NewNullDecimal(d), nil
}
