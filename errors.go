package stockfolio

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTrade is matched by every *ValidationError.
	ErrInvalidTrade = errors.New("invalid trade")
	// ErrOversell is matched by every *OversellError.
	ErrOversell = errors.New("oversell")
	// ErrNoQuote is returned when no current price is known for a symbol.
	ErrNoQuote = errors.New("no quote")
	// ErrCurrencyMismatch is returned when amounts in different currencies
	// would be added together.
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// ValidationError reports a malformed trade. It is returned before any state
// is mutated.
type ValidationError struct {
	Trade  Trade
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid trade %s: %s %s", e.Trade, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidTrade || target == ErrCurrencyMismatch && e.Field == "currency"
}

// OversellError reports a sell of more shares than held.
type OversellError struct {
	Trade Trade
	Held  Quantity
}

func (e *OversellError) Error() string {
	return fmt.Sprintf("cannot sell %s %s: only %s held", e.Trade.Quantity, e.Trade.Symbol, e.Held)
}

func (e *OversellError) Is(target error) bool { return target == ErrOversell }
