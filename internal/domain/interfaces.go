package domain

import "context"

// TradeRepository defines storage operations for journal trades.
type TradeRepository interface {
	// SaveTrade inserts the trade or replaces the one with the same ID.
	SaveTrade(ctx context.Context, trade *TradeSave) error
	// GetTrade returns ErrTradeNotFound for an unknown ID.
	GetTrade(ctx context.Context, id string) (*TradeSave, error)
	// ListTrades returns every trade, newest first.
	ListTrades(ctx context.Context) ([]*TradeSave, error)
	DeleteTrade(ctx context.Context, id string) error
	DeleteAllTrades(ctx context.Context) error
}

// TradeFeed streams the committed trades. Each channel first receives the
// current state and then every later snapshot; it is closed when ctx ends.
type TradeFeed interface {
	WatchTrades(ctx context.Context) <-chan []*TradeSave
	// WatchTrade sends nil while no trade has the ID.
	WatchTrade(ctx context.Context, id string) <-chan *TradeSave
}
