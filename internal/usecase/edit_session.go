package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vitos/trade_journal/internal/domain"
	"github.com/vitos/trade_journal/internal/stream"
	"go.uber.org/zap"
)

// EditSession owns the one trade currently being edited. Create a single
// instance at startup and pass it to whatever sends edits.
//
// Every operation is a read-modify-write under mu, so edits apply whole and in
// arrival order. Field edits are no-ops while nothing is being edited.
type EditSession struct {
	repo   domain.TradeRepository
	logger *zap.Logger
	now    func() time.Time
	newID  func() string

	mu      sync.Mutex
	current *domain.TradeSave
	version uint64
	state   *stream.Value[*domain.TradeSave]
}

func NewEditSession(repo domain.TradeRepository, logger *zap.Logger) *EditSession {
	return &EditSession{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
		state:  stream.NewValueOf[*domain.TradeSave](nil),
	}
}

// SetClock replaces the time source for new legs. It is not synchronized;
// call it before the session is shared.
func (s *EditSession) SetClock(now func() time.Time) {
	s.now = now
}

// Current returns the trade being edited, or nil.
func (s *EditSession) Current() *domain.TradeSave {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe streams the edit slot, starting with its current value.
func (s *EditSession) Subscribe(ctx context.Context) <-chan *domain.TradeSave {
	return s.state.Subscribe(ctx)
}

// set replaces the slot. Callers hold mu.
func (s *EditSession) set(t *domain.TradeSave) {
	s.current = t
	s.version++
	s.state.Publish(t)
}

// update applies fn to the trade in edit, if any.
func (s *EditSession) update(fn func(*domain.TradeSave) *domain.TradeSave) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return
	}
	s.set(fn(s.current))
}

func (s *EditSession) NewTrade() *domain.TradeSave {
	t := domain.EmptyTradeSave(s.newID(), s.now())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(t)
	return t
}

// Load puts an existing trade into the slot for editing.
func (s *EditSession) Load(t *domain.TradeSave) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t == nil {
		s.set(nil)
		return
	}
	s.set(t.Clone())
}

// Abandon drops the trade in edit without saving it.
func (s *EditSession) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.set(nil)
	}
}

func (s *EditSession) SetPositionType(p domain.PositionType) {
	s.update(func(t *domain.TradeSave) *domain.TradeSave {
		c := t.Clone()
		c.PositionType = p
		return c
	})
}

func (s *EditSession) SetAssetName(name string) {
	s.update(func(t *domain.TradeSave) *domain.TradeSave {
		c := t.Clone()
		c.AssetName = name
		return c
	})
}

// SetNote replaces the note; nil removes it.
func (s *EditSession) SetNote(note *string) {
	s.update(func(t *domain.TradeSave) *domain.TradeSave {
		c := t.Clone()
		c.Note = nil
		if note != nil {
			n := *note
			c.Note = &n
		}
		return c
	})
}

func (s *EditSession) updateEntry(fn func(domain.TradePoint) domain.TradePoint) {
	s.update(func(t *domain.TradeSave) *domain.TradeSave { return t.WithEntry(fn) })
}

func (s *EditSession) updateExit(fn func(domain.TradePoint) domain.TradePoint) {
	s.update(func(t *domain.TradeSave) *domain.TradeSave { return t.WithExit(fn) })
}

func (s *EditSession) SetEntryDate(d domain.Date) {
	s.updateEntry(func(p domain.TradePoint) domain.TradePoint { p.Date = d; return p })
}

func (s *EditSession) SetEntryTime(c domain.Clock) {
	s.updateEntry(func(p domain.TradePoint) domain.TradePoint { p.Time = c; return p })
}

func (s *EditSession) SetEntryPrice(v decimal.NullDecimal) {
	s.updateEntry(func(p domain.TradePoint) domain.TradePoint { p.Price = v; return p })
}

func (s *EditSession) SetEntryQuantity(v decimal.NullDecimal) {
	s.updateEntry(func(p domain.TradePoint) domain.TradePoint { p.Quantity = v; return p })
}

func (s *EditSession) SetEntryFees(v decimal.NullDecimal) {
	s.updateEntry(func(p domain.TradePoint) domain.TradePoint { p.Fees = v; return p })
}

func (s *EditSession) SetExitDate(d domain.Date) {
	s.updateExit(func(p domain.TradePoint) domain.TradePoint { p.Date = d; return p })
}

func (s *EditSession) SetExitTime(c domain.Clock) {
	s.updateExit(func(p domain.TradePoint) domain.TradePoint { p.Time = c; return p })
}

func (s *EditSession) SetExitPrice(v decimal.NullDecimal) {
	s.updateExit(func(p domain.TradePoint) domain.TradePoint { p.Price = v; return p })
}

func (s *EditSession) SetExitQuantity(v decimal.NullDecimal) {
	s.updateExit(func(p domain.TradePoint) domain.TradePoint { p.Quantity = v; return p })
}

func (s *EditSession) SetExitFees(v decimal.NullDecimal) {
	s.updateExit(func(p domain.TradePoint) domain.TradePoint { p.Fees = v; return p })
}

// AddExit replaces any exit leg with a fresh empty one.
func (s *EditSession) AddExit() {
	now := s.now()
	s.update(func(t *domain.TradeSave) *domain.TradeSave {
		c := t.Clone()
		exit := domain.EmptyTradePoint(now)
		c.Exit = &exit
		return c
	})
}

func (s *EditSession) RemoveExit() {
	s.update(func(t *domain.TradeSave) *domain.TradeSave {
		c := t.Clone()
		c.Exit = nil
		return c
	})
}

type snapshot struct {
	trade   *domain.TradeSave
	version uint64
}

// capture takes the trade to persist at call time.
func (s *EditSession) capture() (snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return snapshot{}, domain.ErrNoTradeInEdit
	}
	if !s.current.IsValidForSave() {
		return snapshot{}, fmt.Errorf("%w: %s", domain.ErrInvalidTrade, s.current.ID)
	}
	return snapshot{trade: s.current, version: s.version}, nil
}

// persist writes the snapshot and clears the slot, unless it was edited in the
// meantime; those later edits stay in the slot.
func (s *EditSession) persist(ctx context.Context, snap snapshot) error {
	if err := s.repo.SaveTrade(ctx, snap.trade); err != nil {
		s.logger.Error("Failed to save trade", zap.String("id", snap.trade.ID), zap.Error(err))
		return fmt.Errorf("failed to save trade: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version == snap.version {
		s.set(nil)
	} else {
		s.logger.Debug("Trade edited while saving, keeping edit state", zap.String("id", snap.trade.ID))
	}
	s.logger.Info("Trade saved", zap.String("id", snap.trade.ID), zap.String("asset", snap.trade.AssetName))
	return nil
}

// Save commits the trade in edit. On failure the slot is left as it was.
func (s *EditSession) Save(ctx context.Context) (*domain.TradeSave, error) {
	snap, err := s.capture()
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, snap); err != nil {
		return nil, err
	}
	return snap.trade, nil
}

// SaveAsync captures the trade now and persists it on another goroutine.
// The channel yields the result once.
func (s *EditSession) SaveAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	snap, err := s.capture()
	if err != nil {
		done <- err
		close(done)
		return done
	}
	go func() {
		defer close(done)
		done <- s.persist(ctx, snap)
	}()
	return done
}

func (s *EditSession) DeleteTrade(ctx context.Context, id string) error {
	if err := s.repo.DeleteTrade(ctx, id); err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	s.logger.Info("Trade deleted", zap.String("id", id))
	return nil
}

func (s *EditSession) DeleteAllTrades(ctx context.Context) error {
	if err := s.repo.DeleteAllTrades(ctx); err != nil {
		return fmt.Errorf("failed to delete trades: %w", err)
	}
	s.logger.Info("All trades deleted")
	return nil
}
