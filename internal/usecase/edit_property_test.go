package usecase_test

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/vitos/trade_journal/internal/usecase"
)

func TestEditIdempotenceProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	kinds := gen.OneConstOf(
		usecase.IntentSetEntryPrice, usecase.IntentSetEntryQty, usecase.IntentSetEntryFees,
		usecase.IntentSetExitPrice, usecase.IntentSetExitQty, usecase.IntentSetExitFees,
	)

	properties.Property("setting the same amount twice equals setting it once", prop.ForAll(
		func(kind usecase.IntentKind, units int64, withExit bool) bool {
			in := usecase.Intent{Kind: kind, Value: fmt.Sprintf("%d,%02d", units/100, units%100)}

			s := newSession(NewMockTradeRepo())
			s.NewTrade()
			if withExit {
				s.AddExit()
			}
			if s.Apply(in) != nil {
				return false
			}
			once := s.Current()
			if s.Apply(in) != nil {
				return false
			}
			return once.Equal(s.Current())
		},
		kinds, gen.Int64Range(0, 1_000_000), gen.Bool(),
	))

	properties.Property("removing the exit leg twice equals removing it once", prop.ForAll(
		func(withExit bool) bool {
			s := newSession(NewMockTradeRepo())
			s.NewTrade()
			if withExit {
				s.AddExit()
			}
			s.RemoveExit()
			once := s.Current()
			s.RemoveExit()
			return once.Exit == nil && once.Equal(s.Current())
		},
		gen.Bool(),
	))

	properties.TestingRun(t)
}
