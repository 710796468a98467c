package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vitos/trade_journal/internal/domain"
)

// IntentKind names one edit a client can send as text.
type IntentKind string

const (
	IntentSetPositionType IntentKind = "set_position_type"
	IntentSetAssetName    IntentKind = "set_asset_name"
	IntentSetNote         IntentKind = "set_note"
	IntentSetEntryDate    IntentKind = "set_entry_date"
	IntentSetEntryTime    IntentKind = "set_entry_time"
	IntentSetEntryPrice   IntentKind = "set_entry_price"
	IntentSetEntryQty     IntentKind = "set_entry_quantity"
	IntentSetEntryFees    IntentKind = "set_entry_fees"
	IntentSetExitDate     IntentKind = "set_exit_date"
	IntentSetExitTime     IntentKind = "set_exit_time"
	IntentSetExitPrice    IntentKind = "set_exit_price"
	IntentSetExitQty      IntentKind = "set_exit_quantity"
	IntentSetExitFees     IntentKind = "set_exit_fees"
	IntentAddExit         IntentKind = "add_exit"
	IntentRemoveExit      IntentKind = "remove_exit"
)

// Intent is a text-level edit as typed by the user.
type Intent struct {
	Kind  IntentKind `json:"kind"`
	Value string     `json:"value,omitempty"`
}

// Apply parses the intent and runs the matching edit. Input that does not parse
// leaves the trade unchanged and returns an error wrapping ErrMalformedInput.
func (s *EditSession) Apply(in Intent) error {
	switch in.Kind {
	case IntentSetPositionType:
		p, err := domain.ParsePositionType(in.Value)
		if err != nil {
			return malformed(in, err)
		}
		s.SetPositionType(p)
	case IntentSetAssetName:
		s.SetAssetName(in.Value)
	case IntentSetNote:
		s.SetNote(domain.NormalizeNote(in.Value))
	case IntentSetEntryDate, IntentSetExitDate:
		d, err := domain.ParseDate(in.Value)
		if err != nil {
			return malformed(in, err)
		}
		if in.Kind == IntentSetEntryDate {
			s.SetEntryDate(d)
		} else {
			s.SetExitDate(d)
		}
	case IntentSetEntryTime, IntentSetExitTime:
		c, err := domain.ParseClock(in.Value)
		if err != nil {
			return malformed(in, err)
		}
		if in.Kind == IntentSetEntryTime {
			s.SetEntryTime(c)
		} else {
			s.SetExitTime(c)
		}
	case IntentSetEntryPrice, IntentSetEntryQty, IntentSetEntryFees,
		IntentSetExitPrice, IntentSetExitQty, IntentSetExitFees:
		v, err := domain.ParseAmount(in.Value)
		if err != nil {
			return malformed(in, err)
		}
		s.amountSetter(in.Kind)(v)
	case IntentAddExit:
		s.AddExit()
	case IntentRemoveExit:
		s.RemoveExit()
	default:
		return fmt.Errorf("%w: unknown intent %q", domain.ErrMalformedInput, in.Kind)
	}
	return nil
}

func (s *EditSession) amountSetter(kind IntentKind) func(decimal.NullDecimal) {
	switch kind {
	case IntentSetEntryPrice:
		return s.SetEntryPrice
	case IntentSetEntryQty:
		return s.SetEntryQuantity
	case IntentSetEntryFees:
		return s.SetEntryFees
	case IntentSetExitPrice:
		return s.SetExitPrice
	case IntentSetExitQty:
		return s.SetExitQuantity
	}
	return s.SetExitFees
}

func malformed(in Intent, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrMalformedInput, in.Kind, err)
}
