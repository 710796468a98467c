package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vitos/trade_journal/internal/domain"
	"go.uber.org/zap"
)

// TodayFormula selects how the dashboard's "today" figure is computed.
type TodayFormula string

const (
	// TodaySum adds |percents| of each trade closed today, signed by its status.
	TodaySum TodayFormula = "sum"
	// TodayRatio is today's profit relative to the profit of all other trades, in percent.
	TodayRatio TodayFormula = "ratio"
)

func ParseTodayFormula(s string) (TodayFormula, error) {
	switch f := TodayFormula(s); f {
	case TodaySum, TodayRatio:
		return f, nil
	}
	return "", fmt.Errorf("unknown today formula %q", s)
}

// Aggregate reduces the committed trades to the dashboard figures.
func Aggregate(trades []*domain.TradeSave, now time.Time, formula TodayFormula) domain.DashboardInfo {
	info := domain.EmptyDashboardInfo()
	for _, t := range trades {
		info.Overall = info.Overall.Add(t.Profit())
	}

	if formula == TodayRatio {
		info.TodayPercents = todayRatio(trades, now)
	} else {
		info.TodayPercents = todaySum(trades, now)
	}
	return info
}

func todaySum(trades []*domain.TradeSave, now time.Time) float64 {
	var total float64
	for _, t := range trades {
		if !t.IsToday(now) {
			continue
		}
		pct, _ := t.Percents()
		if t.Status() == domain.StatusProfit {
			total += math.Abs(pct)
		} else {
			total -= math.Abs(pct)
		}
	}
	return total
}

func todayRatio(trades []*domain.TradeSave, now time.Time) float64 {
	today, before := decimal.Zero, decimal.Zero
	for _, t := range trades {
		if t.IsToday(now) {
			today = today.Add(t.Profit())
		} else {
			before = before.Add(t.Profit())
		}
	}
	if before.IsZero() {
		return 0
	}
	return today.Div(before.Abs()).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// DashboardService keeps the dashboard in step with the committed trades.
type DashboardService struct {
	repo    domain.TradeRepository
	feed    domain.TradeFeed
	formula TodayFormula
	now     func() time.Time
	logger  *zap.Logger
}

func NewDashboardService(repo domain.TradeRepository, feed domain.TradeFeed, formula TodayFormula, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		repo:    repo,
		feed:    feed,
		formula: formula,
		now:     time.Now,
		logger:  logger,
	}
}

// SetClock replaces the time source used to decide what "today" is.
// Call it before Current or Watch; it is not synchronized.
func (s *DashboardService) SetClock(now func() time.Time) {
	s.now = now
}

// Current computes the dashboard from a fresh read of the store.
func (s *DashboardService) Current(ctx context.Context) (domain.DashboardInfo, error) {
	trades, err := s.repo.ListTrades(ctx)
	if err != nil {
		return domain.DashboardInfo{}, fmt.Errorf("failed to list trades: %w", err)
	}
	return Aggregate(trades, s.now(), s.formula), nil
}

// Watch emits a dashboard for every snapshot of the trade feed until ctx ends.
func (s *DashboardService) Watch(ctx context.Context) <-chan domain.DashboardInfo {
	out := make(chan domain.DashboardInfo, 1)
	in := s.feed.WatchTrades(ctx)

	go func() {
		defer close(out)
		for trades := range in {
			info := Aggregate(trades, s.now(), s.formula)
			s.logger.Debug("Dashboard updated",
				zap.Int("trades", len(trades)),
				zap.String("overall", info.Overall.String()),
				zap.Float64("today_percents", info.TodayPercents))
			select {
			case out <- info:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
