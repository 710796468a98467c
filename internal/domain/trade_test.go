package domain_test

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitos/trade_journal/internal/domain"
)

func amount(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func leg(price, qty, fees string) *domain.TradePoint {
	p := domain.TradePoint{
		Date: domain.Date{Year: 2024, Month: time.March, Day: 5},
		Time: domain.Clock{Hour: 10, Minute: 30},
	}
	if price != "" {
		p.Price = amount(price)
	}
	if qty != "" {
		p.Quantity = amount(qty)
	}
	if fees != "" {
		p.Fees = amount(fees)
	}
	return &p
}

func trade(pos domain.PositionType, entry, exit *domain.TradePoint) *domain.TradeSave {
	return &domain.TradeSave{
		ID:           "t1",
		PositionType: pos,
		AssetName:    "BTCUSDT",
		Entry:        entry,
		Exit:         exit,
	}
}

func TestProfit(t *testing.T) {
	tests := []struct {
		name  string
		trade *domain.TradeSave
		want  string
	}{
		{"Long gain", trade(domain.PositionLong, leg("100", "2", ""), leg("150", "2", "")), "100"},
		{"Short same legs", trade(domain.PositionShort, leg("100", "2", ""), leg("150", "2", "")), "-100"},
		{"Short gain", trade(domain.PositionShort, leg("150", "2", ""), leg("100", "2", "")), "100"},
		{"Fees ignored", trade(domain.PositionLong, leg("100", "2", "5"), leg("150", "2", "5")), "100"},
		{"Exact decimals", trade(domain.PositionLong, leg("0.1", "3", ""), leg("0.2", "3", "")), "0.3"},
		{"Open trade", trade(domain.PositionLong, leg("100", "2", ""), nil), "0"},
		{"Missing exit price", trade(domain.PositionLong, leg("100", "2", ""), leg("", "2", "")), "0"},
		{"Missing exit quantity", trade(domain.PositionLong, leg("100", "2", ""), leg("150", "", "")), "0"},
		{"Missing entry price", trade(domain.PositionLong, leg("", "2", ""), leg("150", "2", "")), "0"},
		{"Missing entry quantity", trade(domain.PositionLong, leg("100", "", ""), leg("150", "2", "")), "0"},
		{"No entry", trade(domain.PositionLong, nil, leg("150", "2", "")), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.trade.Profit()
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "Profit() = %s, want %s", got, tt.want)
		})
	}
}

func TestPercents(t *testing.T) {
	t.Run("Long uses entry value base", func(t *testing.T) {
		pct, ok := trade(domain.PositionLong, leg("100", "2", ""), leg("150", "2", "")).Percents()
		require.True(t, ok)
		assert.InDelta(t, 50.0, pct, 1e-9)
	})

	t.Run("Short uses exit quantity squared base", func(t *testing.T) {
		// (200 - 300) / ((2*2)/100) = -100 / 0.04
		pct, ok := trade(domain.PositionShort, leg("100", "2", ""), leg("150", "2", "")).Percents()
		require.True(t, ok)
		assert.InDelta(t, -2500.0, pct, 1e-9)
	})

	t.Run("Missing data is absent", func(t *testing.T) {
		_, ok := trade(domain.PositionLong, leg("100", "2", ""), leg("", "2", "")).Percents()
		assert.False(t, ok)
		_, ok = trade(domain.PositionLong, leg("100", "2", ""), nil).Percents()
		assert.False(t, ok)
	})

	t.Run("Tiny entry value still has a result", func(t *testing.T) {
		// entry 1e-15, exit 2e-15: +100%
		pct, ok := trade(domain.PositionLong, leg("0.0000001", "0.00000001", ""), leg("0.0000002", "0.00000001", "")).Percents()
		require.True(t, ok)
		assert.InDelta(t, 100.0, pct, 1e-6)

		pct, ok = trade(domain.PositionShort, leg("0.0000002", "0.00000001", ""), leg("0.0000001", "0.00000001", "")).Percents()
		require.True(t, ok)
		assert.Greater(t, pct, 0.0)
	})

	t.Run("Zero base is absent", func(t *testing.T) {
		_, ok := trade(domain.PositionLong, leg("0", "2", ""), leg("150", "2", "")).Percents()
		assert.False(t, ok)
		_, ok = trade(domain.PositionShort, leg("100", "2", ""), leg("150", "0", "")).Percents()
		assert.False(t, ok)
	})
}

func TestEntryValue(t *testing.T) {
	assert.True(t, trade(domain.PositionLong, leg("12.5", "4", ""), nil).EntryValue().Equal(decimal.NewFromInt(50)))
	assert.True(t, trade(domain.PositionLong, leg("12.5", "", ""), nil).EntryValue().IsZero())
	assert.True(t, trade(domain.PositionLong, nil, nil).EntryValue().IsZero())
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name  string
		trade *domain.TradeSave
		want  domain.Status
	}{
		{"Long down", trade(domain.PositionLong, leg("100", "1", ""), leg("90", "1", "")), domain.StatusLoss},
		{"Long up", trade(domain.PositionLong, leg("100", "1", ""), leg("110", "1", "")), domain.StatusProfit},
		{"Long flat", trade(domain.PositionLong, leg("100", "1", ""), leg("100", "1", "")), domain.StatusLoss},
		{"Short down", trade(domain.PositionShort, leg("100", "1", ""), leg("90", "1", "")), domain.StatusProfit},
		{"Short up", trade(domain.PositionShort, leg("100", "1", ""), leg("110", "1", "")), domain.StatusLoss},
		{"Short flat", trade(domain.PositionShort, leg("100", "1", ""), leg("100", "1", "")), domain.StatusLoss},
		{"Open", trade(domain.PositionLong, leg("100", "1", ""), nil), domain.StatusUndefined},
		{"No exit price", trade(domain.PositionLong, leg("100", "1", ""), leg("", "1", "")), domain.StatusUndefined},
		{"No entry price", trade(domain.PositionLong, leg("", "1", ""), leg("100", "1", "")), domain.StatusUndefined},
		// Price rose but the exit leg is smaller: status says profit while Profit() is negative.
		{"Quantities ignored", trade(domain.PositionLong, leg("100", "10", ""), leg("110", "1", "")), domain.StatusProfit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.trade.Status())
		})
	}
}

func TestIsToday(t *testing.T) {
	now := time.Date(2024, time.March, 5, 23, 59, 0, 0, time.Local)

	assert.True(t, trade(domain.PositionLong, leg("1", "1", ""), leg("1", "1", "")).IsToday(now))
	assert.False(t, trade(domain.PositionLong, leg("1", "1", ""), leg("1", "1", "")).IsToday(now.Add(time.Minute)))
	assert.False(t, trade(domain.PositionLong, leg("1", "1", ""), nil).IsToday(now))
}

func TestIsValidForSave(t *testing.T) {
	full := leg("100", "1", "0.5")

	tests := []struct {
		name  string
		trade *domain.TradeSave
		want  bool
	}{
		{"Open with full entry", trade(domain.PositionLong, full, nil), true},
		{"Closed with full legs", trade(domain.PositionLong, full, leg("110", "1", "0")), true},
		{"Empty asset name", &domain.TradeSave{ID: "x", Entry: full, Exit: leg("110", "1", "0")}, false},
		{"Entry missing fees", trade(domain.PositionLong, leg("100", "1", ""), nil), false},
		{"Entry missing price", trade(domain.PositionLong, leg("", "1", "1"), nil), false},
		{"Exit missing quantity", trade(domain.PositionLong, full, leg("110", "", "0")), false},
		{"No entry", trade(domain.PositionLong, nil, nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.trade.IsValidForSave())
		})
	}
}

func TestEmptyTradeSave(t *testing.T) {
	now := time.Date(2024, time.March, 5, 9, 7, 42, 0, time.UTC)
	tr := domain.EmptyTradeSave("abc", now)

	assert.Equal(t, "abc", tr.ID)
	assert.Equal(t, domain.PositionLong, tr.PositionType)
	assert.Empty(t, tr.AssetName)
	require.NotNil(t, tr.Entry)
	assert.Equal(t, domain.Date{Year: 2024, Month: time.March, Day: 5}, tr.Entry.Date)
	assert.Equal(t, domain.Clock{Hour: 9, Minute: 7}, tr.Entry.Time)
	assert.False(t, tr.Entry.Price.Valid)
	assert.False(t, tr.Entry.Quantity.Valid)
	assert.False(t, tr.Entry.Fees.Valid)
	assert.Nil(t, tr.Exit)
	assert.Nil(t, tr.Note)
}

func TestWithLegLeavesOriginalUntouched(t *testing.T) {
	orig := trade(domain.PositionLong, leg("100", "1", "0"), nil)

	updated := orig.WithEntry(func(p domain.TradePoint) domain.TradePoint {
		p.Price = amount("200")
		return p
	})
	assert.True(t, orig.Entry.Price.Decimal.Equal(decimal.NewFromInt(100)))
	assert.True(t, updated.Entry.Price.Decimal.Equal(decimal.NewFromInt(200)))

	same := orig.WithExit(func(p domain.TradePoint) domain.TradePoint {
		p.Price = amount("1")
		return p
	})
	assert.Nil(t, same.Exit)
	assert.True(t, same.Equal(orig))
}

func TestProfitProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	legGen := gopter.CombineGens(
		gen.Int64Range(1, 1_000_000),
		gen.Int32Range(0, 4),
		gen.Int64Range(1, 10_000),
	).Map(func(v []interface{}) *domain.TradePoint {
		p := domain.TradePoint{
			Price:    decimal.NewNullDecimal(decimal.New(v[0].(int64), -v[1].(int32))),
			Quantity: decimal.NewNullDecimal(decimal.NewFromInt(v[2].(int64))),
		}
		return &p
	})

	properties.Property("short profit is the negation of long profit", prop.ForAll(
		func(entry, exit *domain.TradePoint) bool {
			long := trade(domain.PositionLong, entry, exit).Profit()
			short := trade(domain.PositionShort, entry, exit).Profit()
			return long.Neg().Equal(short)
		},
		legGen, legGen,
	))

	properties.Property("an open trade has no realized result", prop.ForAll(
		func(entry *domain.TradePoint) bool {
			tr := trade(domain.PositionLong, entry, nil)
			_, ok := tr.Percents()
			return tr.Profit().IsZero() && !ok && tr.Status() == domain.StatusUndefined
		},
		legGen,
	))

	properties.TestingRun(t)
}
