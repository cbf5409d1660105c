package api

import "encoding/json"

// CreateNoteRequest creates a journal note. Sentiment and conviction are
// optional at creation time.
type CreateNoteRequest struct {
	Content      string  `json:"content"`
	SymbolTicker *string `json:"symbolTicker"`
	Conviction   *int    `json:"conviction"`
	Sentiment    *string `json:"sentiment"`
}

// UpdateNoteContentRequest carries a debounced content edit.
type UpdateNoteContentRequest struct {
	Content string `json:"content" binding:"required"`
}

// SetConvictionRequest sets or clears (null) the conviction rating.
type SetConvictionRequest struct {
	Conviction *int `json:"conviction"`
}

// SetSentimentRequest sets or clears (null) the sentiment.
type SetSentimentRequest struct {
	Sentiment *string `json:"sentiment"`
}

// SuggestSentimentRequest asks for a keyword-based sentiment suggestion.
type SuggestSentimentRequest struct {
	Content string `json:"content" binding:"required"`
}

// AddTagRequest attaches a tag (created on first use) to a note.
type AddTagRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateSymbolRequest registers a symbol for tracking.
type CreateSymbolRequest struct {
	Ticker      string `json:"ticker" binding:"required"`
	CompanyName string `json:"companyName"`
}

// CreateSnapRequest creates a quick price-stamped note.
type CreateSnapRequest struct {
	Ticker string `json:"ticker" binding:"required"`
	Note   string `json:"note"`
}

// CreateTargetRequest creates a price target. TargetPrice is a decimal string.
type CreateTargetRequest struct {
	TargetPrice     string  `json:"targetPrice" binding:"required"`
	TargetDate      *string `json:"targetDate"`
	ThesisRationale string  `json:"thesisRationale"`
	SymbolTicker    *string `json:"symbolTicker"`
	NoteID          *string `json:"noteId"`
}

// UpdateTargetRequest partially updates a target. Omitted fields are kept;
// clearTargetDate removes the deadline.
type UpdateTargetRequest struct {
	TargetPrice     *string `json:"targetPrice"`
	TargetDate      *string `json:"targetDate"`
	ClearTargetDate bool    `json:"clearTargetDate"`
	ThesisRationale *string `json:"thesisRationale"`
}

// CreateTemplateDataRequest fills in a template. Values must match the field
// schema of the named template type.
type CreateTemplateDataRequest struct {
	TemplateType string          `json:"templateType" binding:"required"`
	NoteID       *string         `json:"noteId"`
	Values       json.RawMessage `json:"values" binding:"required"`
}
