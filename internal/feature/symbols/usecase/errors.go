// Package usecase は銘柄操作のビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrSymbolNotFound is returned when a symbol cannot be found by ticker.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrEmptyTicker is returned when an operation receives a blank ticker.
	ErrEmptyTicker = errors.New("ticker must not be empty")
)
