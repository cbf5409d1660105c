package entity

import "github.com/shopspring/decimal"

// Quote is a point-in-time price observation from the external quote
// provider. Price may be nil when the provider has no price for the ticker.
type Quote struct {
	Price       *decimal.Decimal
	CompanyName string
}

// SymbolSearchResult is one autocomplete hit from the quote provider.
type SymbolSearchResult struct {
	Ticker      string
	CompanyName string
}
