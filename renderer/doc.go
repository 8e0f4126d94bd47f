// Package renderer renders portfolios, market data and orders as markdown
// reports.
package renderer
