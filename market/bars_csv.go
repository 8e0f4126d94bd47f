package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/etnz/stockfolio"
	"github.com/etnz/stockfolio/date"
)

var barsHeader = []string{"date", "open", "high", "low", "close", "volume"}

// ReadBarsCSV reads the daily bars of symbol from a CSV with the columns
// date, open, high, low, close and volume. A first line starting with "date"
// is a header. Every bar is validated.
func ReadBarsCSV(r io.Reader, symbol, currency string) ([]PriceBar, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(barsHeader)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) > 0 && strings.EqualFold(records[0][0], "date") {
		records = records[1:]
	}

	bars := make([]PriceBar, 0, len(records))
	for i, rec := range records {
		day, err := date.Parse(rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		b := PriceBar{Symbol: symbol, Date: day}
		for j, dst := range []*stockfolio.Money{&b.Open, &b.High, &b.Low, &b.Close} {
			if *dst, err = stockfolio.ParseMoney(rec[j+1], currency); err != nil {
				return nil, fmt.Errorf("row %d: invalid %s %q: %w", i+1, barsHeader[j+1], rec[j+1], err)
			}
		}
		if b.Volume, err = strconv.ParseInt(rec[5], 10, 64); err != nil {
			return nil, fmt.Errorf("row %d: invalid volume %q: %w", i+1, rec[5], err)
		}
		if err := b.Validate(); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, nil
}

// WriteBarsCSV writes bars in the format read by ReadBarsCSV.
func WriteBarsCSV(w io.Writer, bars []PriceBar) error {
	writer := csv.NewWriter(w)
	writer.Write(barsHeader)
	for _, b := range bars {
		writer.Write([]string{
			b.Date.String(),
			b.Open.Decimal().String(),
			b.High.Decimal().String(),
			b.Low.Decimal().String(),
			b.Close.Decimal().String(),
			strconv.FormatInt(b.Volume, 10),
		})
	}
	writer.Flush()
	return writer.Error()
}
