package stockfolio

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Trade is an executed buy or sell of a quantity of shares at a price.
// Trades are immutable facts produced by the order desk.
type Trade struct {
	Symbol   string
	Side     Side
	Quantity Quantity // number of shares, a positive integer
	Price    Money    // price per share
	Time     time.Time
}

// NewBuy creates a new buy trade.
func NewBuy(on time.Time, symbol string, quantity Quantity, price Money) Trade {
	return Trade{Symbol: symbol, Side: Buy, Quantity: quantity, Price: price, Time: on}
}

// NewSell creates a new sell trade.
func NewSell(on time.Time, symbol string, quantity Quantity, price Money) Trade {
	return Trade{Symbol: symbol, Side: Sell, Quantity: quantity, Price: price, Time: on}
}

func (t Trade) String() string {
	return fmt.Sprintf("%s %s %s @ %s", t.Side, t.Quantity, t.Symbol, t.Price)
}

// Notional returns the total amount exchanged.
func (t Trade) Notional() Money { return t.Price.Mul(t.Quantity) }

// Validate checks the trade fields on their own.
func (t Trade) Validate() error {
	switch {
	case t.Symbol == "":
		return &ValidationError{Trade: t, Field: "symbol", Reason: "is missing"}
	case t.Side != Buy && t.Side != Sell:
		return &ValidationError{Trade: t, Field: "side", Reason: "must be BUY or SELL"}
	case !t.Quantity.IsPositive():
		return &ValidationError{Trade: t, Field: "quantity", Reason: "must be positive"}
	case !t.Quantity.IsInteger():
		return &ValidationError{Trade: t, Field: "quantity", Reason: "must be a whole number of shares"}
	case t.Price.IsNegative():
		return &ValidationError{Trade: t, Field: "price", Reason: "must not be negative"}
	}
	return nil
}

func (t Trade) MarshalJSON() ([]byte, error) {
	var o object
	o.Field("time", t.Time).
		Field("side", t.Side).
		Field("symbol", t.Symbol).
		Field("quantity", t.Quantity).
		Field("price", t.Price.value).
		OmitEmpty("currency", t.Price.cur)
	return o.MarshalJSON()
}

func (t *Trade) UnmarshalJSON(data []byte) error {
	var temp struct {
		Time     time.Time       `json:"time"`
		Side     Side            `json:"side"`
		Symbol   string          `json:"symbol"`
		Quantity Quantity        `json:"quantity"`
		Price    decimal.Decimal `json:"price"`
		Currency string          `json:"currency"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = Trade{
		Symbol:   temp.Symbol,
		Side:     temp.Side,
		Quantity: temp.Quantity,
		Price:    M(temp.Price, temp.Currency),
		Time:     temp.Time,
	}
	return nil
}
