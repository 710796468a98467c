package domain

import (
	"fmt"
	"strings"
)

// PositionType decides the sign convention of a trade's profit.
// The integer values are the persisted codes.
type PositionType int

const (
	PositionLong PositionType = iota
	PositionShort
)

func (p PositionType) String() string {
	switch p {
	case PositionLong:
		return "long"
	case PositionShort:
		return "short"
	}
	return fmt.Sprintf("PositionType(%d)", int(p))
}

// PositionTypeFromCode maps a persisted code back to a PositionType.
func PositionTypeFromCode(code int) (PositionType, error) {
	p := PositionType(code)
	if p != PositionLong && p != PositionShort {
		return 0, fmt.Errorf("%w: code %d", ErrUnknownPositionType, code)
	}
	return p, nil
}

// ParsePositionType accepts "long"/"short" in any case or the codes "0"/"1".
func ParsePositionType(s string) (PositionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long", "0":
		return PositionLong, nil
	case "short", "1":
		return PositionShort, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPositionType, s)
}

func (p PositionType) MarshalText() ([]byte, error) {
	if p != PositionLong && p != PositionShort {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPositionType, int(p))
	}
	return []byte(p.String()), nil
}

func (p *PositionType) UnmarshalText(b []byte) error {
	parsed, err := ParsePositionType(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Status is the win/loss classification of a closed trade.
type Status string

const (
	StatusProfit    Status = "profit"
	StatusLoss      Status = "loss"
	StatusUndefined Status = "undefined"
)
