// Package entity defines the domain models for the symbols feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Symbol represents a stock ticker the user journals about.
// The ticker is the natural key and is always stored uppercase.
type Symbol struct {
	Ticker          string           `gorm:"primaryKey;size:20"`
	CompanyName     string           `gorm:"size:255"`
	CurrentPrice    *decimal.Decimal `gorm:"type:numeric"`
	LastPriceUpdate *time.Time
}

// UpdatePrice sets the current price (which may be unknown) and stamps
// LastPriceUpdate, unconditionally.
func (s *Symbol) UpdatePrice(price *decimal.Decimal) {
	s.CurrentPrice = price
	now := time.Now()
	s.LastPriceUpdate = &now
}
