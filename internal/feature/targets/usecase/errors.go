// Package usecase は価格目標操作のビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrTargetNotFound is returned when a price target cannot be found by ID.
	ErrTargetNotFound = errors.New("price target not found")

	// ErrInvalidTargetPrice is returned when a target price is zero or negative.
	ErrInvalidTargetPrice = errors.New("target price must be positive")
)
