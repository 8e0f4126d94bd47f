// Package stockfolio reconstructs stock positions and portfolios from an
// ordered feed of trades.
//
// The core is a pure reducer: a Position is folded trade by trade using the
// average cost method, and a set of positions valued at current prices is
// aggregated into a PortfolioSummary. Trades come from the order desk (package
// orders) or from JSONL files (DecodeTrades), and prices from the ticker
// catalog (package market).
//
// The main entry points are:
//   - ReconstructPosition: fold the trades of one symbol and value the result.
//   - AggregatePortfolio: totals, returns and sector allocation of holdings.
//   - Book: fold a mixed feed symbol by symbol, keeping failures local.
//   - History and Stats: analytics over a user's trade feed.
package stockfolio
