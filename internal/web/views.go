package web

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vitos/trade_journal/internal/domain"
)

// TradeView is a trade as served to clients, with its derived figures.
type TradeView struct {
	*domain.TradeSave
	Profit     decimal.Decimal `json:"profit"`
	Percents   *float64        `json:"percents"`
	Status     domain.Status   `json:"status"`
	EntryValue decimal.Decimal `json:"entry_value"`
	IsToday    bool            `json:"is_today"`
}

func newTradeView(t *domain.TradeSave, now time.Time) *TradeView {
	if t == nil {
		return nil
	}
	v := &TradeView{
		TradeSave:  t,
		Profit:     t.Profit(),
		Status:     t.Status(),
		EntryValue: t.EntryValue(),
		IsToday:    t.IsToday(now),
	}
	if pct, ok := t.Percents(); ok {
		v.Percents = &pct
	}
	return v
}

func newTradeViews(trades []*domain.TradeSave, now time.Time) []*TradeView {
	views := make([]*TradeView, 0, len(trades))
	for _, t := range trades {
		views = append(views, newTradeView(t, now))
	}
	return views
}
