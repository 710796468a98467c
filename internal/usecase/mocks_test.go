package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vitos/trade_journal/internal/domain"
	"github.com/vitos/trade_journal/internal/stream"
)

// MockTradeRepo keeps trades in memory and can be told to fail.
type MockTradeRepo struct {
	mu       sync.Mutex
	Trades   []*domain.TradeSave
	SaveErr  error
	ListErr  error
	Saved    int
	History  []*domain.TradeSave
	Deleted  []string
	Wiped    bool
	saveHook func()
	feed     *stream.Value[[]*domain.TradeSave]
}

func NewMockTradeRepo() *MockTradeRepo {
	return &MockTradeRepo{feed: stream.NewValueOf([]*domain.TradeSave{})}
}

func (m *MockTradeRepo) SaveTrade(ctx context.Context, t *domain.TradeSave) error {
	if m.saveHook != nil {
		m.saveHook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved++
	m.History = append(m.History, t)
	for i, existing := range m.Trades {
		if existing.ID == t.ID {
			m.Trades[i] = t
			m.publish()
			return nil
		}
	}
	m.Trades = append([]*domain.TradeSave{t}, m.Trades...)
	m.publish()
	return nil
}

func (m *MockTradeRepo) GetTrade(ctx context.Context, id string) (*domain.TradeSave, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.Trades {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, domain.ErrTradeNotFound
}

func (m *MockTradeRepo) ListTrades(ctx context.Context) ([]*domain.TradeSave, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]*domain.TradeSave(nil), m.Trades...), nil
}

func (m *MockTradeRepo) DeleteTrade(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, id)
	return nil
}

func (m *MockTradeRepo) DeleteAllTrades(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Wiped = true
	m.Trades = nil
	m.publish()
	return nil
}

func (m *MockTradeRepo) WatchTrades(ctx context.Context) <-chan []*domain.TradeSave {
	return m.feed.Subscribe(ctx)
}

func (m *MockTradeRepo) WatchTrade(ctx context.Context, id string) <-chan *domain.TradeSave {
	panic("not used")
}

func (m *MockTradeRepo) publish() {
	m.feed.Publish(append([]*domain.TradeSave(nil), m.Trades...))
}

var testNow = time.Date(2024, time.June, 10, 14, 5, 0, 0, time.UTC)

func dec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func leg(day int, price, qty string) *domain.TradePoint {
	return &domain.TradePoint{
		Date:     domain.Date{Year: 2024, Month: time.June, Day: day},
		Time:     domain.Clock{Hour: 12},
		Price:    dec(price),
		Quantity: dec(qty),
		Fees:     dec("0"),
	}
}

func closed(id string, pos domain.PositionType, entry, exit *domain.TradePoint) *domain.TradeSave {
	return &domain.TradeSave{ID: id, PositionType: pos, AssetName: "A", Entry: entry, Exit: exit}
}
