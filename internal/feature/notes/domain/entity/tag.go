package entity

import "strings"

// Tag is a user-defined label attached to notes. Names are globally unique
// and stored lowercase-trimmed.
type Tag struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;not null;uniqueIndex"`

	// NoteCount is filled by repository queries; it is not a real column.
	NoteCount int `gorm:"->;-:migration"`
}

// NormalizeTagName returns the canonical form of a tag name:
// lowercased and stripped of surrounding whitespace.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
