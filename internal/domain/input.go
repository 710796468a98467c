package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MaxNoteLength is the editor cap on a note, in characters.
const MaxNoteLength = 900

// MaxAmountExponent bounds the base-10 exponent of an amount in either
// direction. Products of two amounts must stay within int32 exponents.
const MaxAmountExponent = 64

// ParseAmount reads a price, quantity or fee typed by the user.
// Blank input clears the field; a comma is accepted as the decimal separator.
func ParseAmount(text string) (decimal.NullDecimal, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %q", ErrMalformedAmount, text)
	}
	if e := d.Exponent(); e < -MaxAmountExponent || e > MaxAmountExponent {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %q out of range", ErrMalformedAmount, text)
	}
	return decimal.NewNullDecimal(d), nil
}

// NormalizeNote trims the note, drops it when blank and cuts it to MaxNoteLength.
func NormalizeNote(text string) *string {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil
	}
	if utf8.RuneCountInString(s) > MaxNoteLength {
		s = strings.TrimSpace(string([]rune(s)[:MaxNoteLength]))
	}
	return &s
}
