// Package market holds the reference data of the stock market: listed
// tickers, their daily price bars and the users watchlists.
package market
