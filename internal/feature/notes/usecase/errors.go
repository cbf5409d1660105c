// Package usecase はノートとタグ操作のビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrNoteNotFound is returned when a note cannot be found by ID.
	ErrNoteNotFound = errors.New("note not found")

	// ErrTagNotFound is returned when a tag cannot be found by name.
	ErrTagNotFound = errors.New("tag not found")

	// ErrInvalidConviction is returned when a conviction value is outside the [1,10] range.
	ErrInvalidConviction = errors.New("conviction must be between 1 and 10")

	// ErrInvalidSentiment is returned when a sentiment value is not one of the defined enum values.
	ErrInvalidSentiment = errors.New("invalid sentiment value")

	// ErrImageLimitReached is returned when attaching an image to a note that already holds the maximum.
	ErrImageLimitReached = errors.New("image attachment limit reached")

	// ErrInvalidImage is returned when attached bytes cannot be processed as image data.
	ErrInvalidImage = errors.New("invalid image data")
)
