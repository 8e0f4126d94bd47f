package cmd

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/stockfolio/docs"
)

// Complete answers shell completion requests for the binary name, and
// returns only when the process is not a completion request.
//
// Install with: COMP_INSTALL=1 sfo
func Complete(name string) {
	topics, _ := docs.AllTopics()
	sides := map[string]complete.Predictor{
		"price": predict.Something,
		"fill":  predict.Nothing,
	}
	cmd := &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.toml"),
			"user":   predict.Something,
		},
		Sub: map[string]*complete.Command{
			"fold": {
				Flags: map[string]complete.Predictor{
					"p":        predict.Something,
					"tickers":  predict.Files("*.json"),
					"currency": predict.Set{"INR", "USD", "EUR"},
					"fmt":      predict.Nothing,
				},
				Args: predict.Files("*.jsonl"),
			},
			"portfolio": {Flags: map[string]complete.Predictor{
				"top":  predict.Something,
				"html": predict.Nothing,
				"all":  predict.Something,
			}},
			"position": {Args: predict.Something},
			"history":  {},
			"stats":    {},
			"buy":      {Flags: sides, Args: predict.Something},
			"sell":     {Flags: sides, Args: predict.Something},
			"fill":     {Args: predict.Something},
			"cancel":   {Flags: map[string]complete.Predictor{"all": predict.Nothing}, Args: predict.Something},
			"orders":   {Flags: map[string]complete.Predictor{"status": predict.Set{"pending", "filled", "canceled"}}},
			"tickers": {Flags: map[string]complete.Predictor{
				"sector":     predict.Something,
				"q":          predict.Something,
				"min":        predict.Something,
				"max":        predict.Something,
				"min-volume": predict.Something,
				"gainers":    predict.Something,
				"losers":     predict.Something,
				"indexes":    predict.Nothing,
				"sectors":    predict.Nothing,
				"related":    predict.Something,
			}},
			"import-tickers": {
				Flags: map[string]complete.Predictor{
					"items":      predict.Something,
					"symbol":     predict.Something,
					"name":       predict.Something,
					"exchange":   predict.Something,
					"sector":     predict.Something,
					"price":      predict.Something,
					"change":     predict.Something,
					"change-pct": predict.Something,
					"volume":     predict.Something,
					"is-index":   predict.Something,
					"currency":   predict.Something,
				},
				Args: predict.Files("*.json"),
			},
			"bars": {
				Flags: map[string]complete.Predictor{
					"w":      predict.Set{"1d", "1w", "1m", "3m", "6m", "1y"},
					"d":      predict.Something,
					"import": predict.Files("*.csv"),
					"csv":    predict.Nothing,
				},
				Args: predict.Something,
			},
			"watch": {Flags: map[string]complete.Predictor{"add": predict.Nothing, "rm": predict.Nothing}, Args: predict.Something},
			"topic": {Args: predict.Set(append(topics, "*"))},
		},
	}
	cmd.Complete(name)
}
