package market

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/stockfolio"
	"github.com/shopspring/decimal"
)

// Selectors locate ticker fields in an arbitrary JSON document.
//
// Items selects the list of ticker objects in the document, the other
// selectors are evaluated against each object. An empty selector leaves the
// field unset.
type Selectors struct {
	Items     string
	Symbol    string
	Name      string
	Exchange  string
	Sector    string
	Price     string
	Change    string
	ChangePct string
	Volume    string
	IsIndex   string
}

// DefaultSelectors reads documents like {"tickers":[{"symbol":"TCS",...}]}.
var DefaultSelectors = Selectors{
	Items:     "$.tickers[*]",
	Symbol:    "$.symbol",
	Name:      "$.name",
	Exchange:  "$.exchange",
	Sector:    "$.sector",
	Price:     "$.price",
	Change:    "$.change",
	ChangePct: "$.change_pct",
	Volume:    "$.volume",
	IsIndex:   "$.is_index",
}

// ImportTickers decodes a JSON document and extracts tickers with sel.
// Prices are in currency. Every ticker is validated.
func ImportTickers(r io.Reader, sel Selectors, currency string) ([]Ticker, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding ticker document: %w", err)
	}
	items, err := jsonpath.Get(sel.Items, doc)
	if err != nil {
		return nil, fmt.Errorf("selecting tickers with %q: %w", sel.Items, err)
	}
	list, ok := items.([]any)
	if !ok {
		list = []any{items}
	}

	tickers := make([]Ticker, 0, len(list))
	for i, item := range list {
		t, err := sel.ticker(item, currency)
		if err != nil {
			return nil, fmt.Errorf("ticker #%d: %w", i, err)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("ticker #%d: %w", i, err)
		}
		tickers = append(tickers, t)
	}
	return tickers, nil
}

func (sel Selectors) ticker(item any, currency string) (Ticker, error) {
	var t Ticker
	var err error
	str := func(path string) string {
		if err != nil {
			return ""
		}
		var v string
		v, err = getString(path, item)
		return v
	}
	num := func(path string) decimal.Decimal {
		if err != nil {
			return decimal.Zero
		}
		var v decimal.Decimal
		v, err = getDecimal(path, item)
		return v
	}

	t.Symbol = strings.ToUpper(str(sel.Symbol))
	t.Name = str(sel.Name)
	t.Exchange = str(sel.Exchange)
	t.Sector = str(sel.Sector)
	t.Price = stockfolio.M(num(sel.Price), currency)
	t.Change = stockfolio.M(num(sel.Change), currency)
	t.ChangePct = stockfolio.Percent(num(sel.ChangePct).InexactFloat64())
	t.Volume = num(sel.Volume).IntPart()
	if isIndex := str(sel.IsIndex); isIndex != "" {
		t.IsIndex, _ = strconv.ParseBool(isIndex)
	}
	return t, err
}

// get evaluates path against v. Missing keys and empty paths return nil.
func get(path string, v any) (any, error) {
	if path == "" {
		return nil, nil
	}
	val, err := jsonpath.Get(path, v)
	if err != nil {
		if strings.Contains(err.Error(), "unknown key") {
			return nil, nil
		}
		return nil, fmt.Errorf("evaluating %q: %w", path, err)
	}
	// jsonpath returns a list for wildcards and filters: keep the first one.
	if list, ok := val.([]any); ok {
		if len(list) == 0 {
			return nil, nil
		}
		val = list[0]
	}
	return val, nil
}

func getString(path string, v any) (string, error) {
	val, err := get(path, v)
	if err != nil || val == nil {
		return "", err
	}
	switch x := val.(type) {
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return "", fmt.Errorf("%q: expected a string, got %T", path, val)
	}
}

func getDecimal(path string, v any) (decimal.Decimal, error) {
	val, err := get(path, v)
	if err != nil || val == nil {
		return decimal.Zero, err
	}
	switch x := val.(type) {
	case json.Number:
		return decimal.NewFromString(x.String())
	case float64:
		return decimal.NewFromFloat(x), nil
	case string:
		d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(x), ",", ""))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%q: %w", path, err)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("%q: expected a number, got %T", path, val)
	}
}
