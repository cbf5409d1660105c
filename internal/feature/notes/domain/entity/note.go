// Package entity defines the domain models for the notes feature.
package entity

import "time"

const (
	// MaxContentLength is the hard cap on note content. Longer input is
	// truncated on write, never rejected.
	MaxContentLength = 5000
	// MaxImages is the free-tier cap on image attachments per note.
	MaxImages = 3
	// MinConviction and MaxConviction bound the user's self-rated confidence.
	MinConviction = 1
	MaxConviction = 10
)

// Note is a single journal entry. It may reference one symbol by ticker,
// any number of tags, and at most one template data record.
type Note struct {
	ID             string `gorm:"primaryKey;size:36"`
	Content        string `gorm:"size:5000"`
	CreatedDate    time.Time
	LastEditedDate time.Time
	IsSnap         bool
	Conviction     *int
	Sentiment      *Sentiment `gorm:"size:20"`
	SymbolTicker   *string    `gorm:"size:20;index"`
	Tags           []Tag      `gorm:"many2many:note_tags"`
	Images         [][]byte   `gorm:"serializer:json"`
}

// UpdateContent sets the content to the first MaxContentLength characters of
// text and bumps LastEditedDate. It never fails.
func (n *Note) UpdateContent(text string) {
	runes := []rune(text)
	if len(runes) > MaxContentLength {
		runes = runes[:MaxContentLength]
	}
	n.Content = string(runes)
	n.LastEditedDate = time.Now()
}

// AddImage appends an image blob if the note is under the attachment cap.
// It reports whether the image was added; a full note is left unchanged.
func (n *Note) AddImage(data []byte) bool {
	if len(n.Images) >= MaxImages {
		return false
	}
	n.Images = append(n.Images, data)
	n.LastEditedDate = time.Now()
	return true
}

// RemoveImage drops the image at index. An out-of-range index is a no-op.
func (n *Note) RemoveImage(index int) {
	if index < 0 || index >= len(n.Images) {
		return
	}
	n.Images = append(n.Images[:index], n.Images[index+1:]...)
	n.LastEditedDate = time.Now()
}

// HasTag reports whether the note already carries a tag with the given
// normalized name.
func (n *Note) HasTag(name string) bool {
	for _, t := range n.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// ValidConviction reports whether c is inside the allowed [1,10] range.
func ValidConviction(c int) bool {
	return c >= MinConviction && c <= MaxConviction
}
