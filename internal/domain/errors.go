package domain

import "errors"

var (
	ErrTradeNotFound       = errors.New("trade not found")
	ErrNoTradeInEdit       = errors.New("no trade in edit")
	ErrInvalidTrade        = errors.New("trade is not valid for save")
	ErrMalformedAmount     = errors.New("malformed amount")
	ErrMalformedInput      = errors.New("malformed input")
	ErrUnknownPositionType = errors.New("unknown position type")
)
