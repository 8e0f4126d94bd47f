package stockfolio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeTrades reads a stream of JSONL trades, one trade per line.
// Empty lines are skipped. Trades are returned in the stream order.
func DecodeTrades(r io.Reader) ([]Trade, error) {
	var trades []Trade
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		b := scanner.Bytes()
		if len(b) == 0 {
			continue
		}
		var t Trade
		if err := json.Unmarshal(b, &t); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		trades = append(trades, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading trades: %w", err)
	}
	return trades, nil
}

// EncodeTrade writes a single trade as a JSON line.
func EncodeTrade(w io.Writer, t Trade) error {
	b, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("could not encode %s: %w", t, err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// EncodeTrades writes trades as JSONL.
func EncodeTrades(w io.Writer, trades []Trade) error {
	for _, t := range trades {
		if err := EncodeTrade(w, t); err != nil {
			return err
		}
	}
	return nil
}
