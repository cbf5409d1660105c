// Package entity defines the domain models for the targets feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// metTolerancePercent is the band around the target inside which a target
// counts as met regardless of direction.
var metTolerancePercent = decimal.NewFromInt(2)

// PriceTargetStatus classifies a target against the current market price.
type PriceTargetStatus string

const (
	StatusPending  PriceTargetStatus = "pending"
	StatusMet      PriceTargetStatus = "met"
	StatusExceeded PriceTargetStatus = "exceeded"
	StatusMissed   PriceTargetStatus = "missed"
)

// PriceTarget is a dated price prediction attached to a symbol and,
// optionally, the note that recorded the thesis behind it.
type PriceTarget struct {
	ID              string          `gorm:"primaryKey;size:36"`
	TargetPrice     decimal.Decimal `gorm:"type:numeric;not null"`
	TargetDate      *time.Time
	ThesisRationale string `gorm:"size:5000"`
	CreatedDate     time.Time
	SymbolTicker    *string `gorm:"size:20;index"`
	NoteID          *string `gorm:"size:36"`
}

// Status classifies the target against currentPrice.
//
// The target is pending while the price is unknown or the target date has not
// been reached. Otherwise the 2% tolerance check runs before the direction
// comparison, so a price above the target but within tolerance is met, not
// exceeded.
func (pt *PriceTarget) Status(currentPrice *decimal.Decimal) PriceTargetStatus {
	if currentPrice == nil {
		return StatusPending
	}
	if pt.TargetDate != nil && time.Now().Before(*pt.TargetDate) {
		return StatusPending
	}

	hundred := decimal.NewFromInt(100)
	pctDiff := currentPrice.Sub(pt.TargetPrice).Div(pt.TargetPrice).Mul(hundred).Abs()

	if pctDiff.LessThanOrEqual(metTolerancePercent) {
		return StatusMet
	}
	if currentPrice.GreaterThan(pt.TargetPrice) {
		return StatusExceeded
	}
	return StatusMissed
}

// AccuracyPercentage returns the signed deviation of the current price from
// the target, in percent. Positive means the actual price exceeded the
// target. It returns nil while the current price is unknown.
func (pt *PriceTarget) AccuracyPercentage(currentPrice *decimal.Decimal) *decimal.Decimal {
	if currentPrice == nil {
		return nil
	}
	v := currentPrice.Sub(pt.TargetPrice).Div(pt.TargetPrice).Mul(decimal.NewFromInt(100))
	return &v
}
