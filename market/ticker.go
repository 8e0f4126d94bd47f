package market

import (
	"fmt"
	"strings"
	"time"

	"github.com/etnz/stockfolio"
)

// Ticker is a listed stock or a market index.
type Ticker struct {
	Symbol    string
	Name      string
	Exchange  string
	Sector    string
	Price     stockfolio.Money
	Change    stockfolio.Money   // daily change per share
	ChangePct stockfolio.Percent // daily change in percent
	Volume    int64
	IsIndex   bool
	Updated   time.Time
}

// Validate checks the ticker fields.
func (t Ticker) Validate() error {
	switch {
	case t.Symbol == "":
		return fmt.Errorf("ticker symbol is missing")
	case t.Symbol != strings.ToUpper(t.Symbol) || strings.ContainsAny(t.Symbol, " \t"):
		return fmt.Errorf("ticker symbol %q must be upper case without spaces", t.Symbol)
	case t.Price.IsNegative():
		return fmt.Errorf("ticker %s: price must not be negative", t.Symbol)
	case t.Volume < 0:
		return fmt.Errorf("ticker %s: volume must not be negative", t.Symbol)
	}
	return nil
}

// Quote returns the ticker as a quote for the portfolio computations.
func (t Ticker) Quote() stockfolio.Quote {
	return stockfolio.Quote{Symbol: t.Symbol, Sector: t.Sector, Price: t.Price, Change: t.Change}
}

// IsGainer reports whether the ticker is up over the day.
func (t Ticker) IsGainer() bool { return t.ChangePct > 0 }

// IsLoser reports whether the ticker is down over the day.
func (t Ticker) IsLoser() bool { return t.ChangePct < 0 }

func (t Ticker) String() string { return t.Symbol + " - " + t.Name }
