// Package api はHTTPレスポンス/リクエストの共有DTOを定義します。
package api

import "encoding/json"

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NoteResponse is the wire representation of a note. Image payloads are not
// inlined; clients fetch them per index.
type NoteResponse struct {
	ID             string   `json:"id"`
	Content        string   `json:"content"`
	SymbolTicker   *string  `json:"symbolTicker,omitempty"`
	Conviction     *int     `json:"conviction,omitempty"`
	Sentiment      *string  `json:"sentiment,omitempty"`
	Tags           []string `json:"tags"`
	ImageCount     int      `json:"imageCount"`
	IsSnap         bool     `json:"isSnap"`
	CreatedDate    string   `json:"createdDate"`
	LastEditedDate string   `json:"lastEditedDate"`
}

// NoteStatsResponse reports journaling activity counters.
type NoteStatsResponse struct {
	Total     int64 `json:"total"`
	ThisMonth int64 `json:"thisMonth"`
}

// SentimentSuggestionResponse carries the keyword-based suggestion, null when
// the text reads neutral with no signal either way.
type SentimentSuggestionResponse struct {
	Sentiment *string `json:"sentiment"`
}

// TagResponse includes the number of notes carrying the tag.
type TagResponse struct {
	Name      string `json:"name"`
	NoteCount int    `json:"noteCount"`
}

// SymbolResponse is the wire representation of a tracked symbol.
// Prices travel as strings to avoid float rounding.
type SymbolResponse struct {
	Ticker          string  `json:"ticker"`
	CompanyName     string  `json:"companyName"`
	CurrentPrice    *string `json:"currentPrice,omitempty"`
	LastPriceUpdate *string `json:"lastPriceUpdate,omitempty"`
	NoteCount       int64   `json:"noteCount"`
	LatestNoteDate  *string `json:"latestNoteDate,omitempty"`
}

// SymbolSearchResponse is one autocomplete hit from the quote provider.
type SymbolSearchResponse struct {
	Ticker      string `json:"ticker"`
	CompanyName string `json:"companyName"`
}

// RefreshResponse reports the outcome of a bulk price refresh.
type RefreshResponse struct {
	Updated int      `json:"updated"`
	Failed  []string `json:"failed"`
}

// TargetResponse is the wire representation of a price target, evaluated
// against the latest known price at response time.
type TargetResponse struct {
	ID              string  `json:"id"`
	TargetPrice     string  `json:"targetPrice"`
	TargetDate      *string `json:"targetDate,omitempty"`
	ThesisRationale string  `json:"thesisRationale"`
	CreatedDate     string  `json:"createdDate"`
	SymbolTicker    *string `json:"symbolTicker,omitempty"`
	NoteID          *string `json:"noteId,omitempty"`
	Status          string  `json:"status"`
	Accuracy        *string `json:"accuracy,omitempty"`
}

// AccuracyStatsResponse aggregates target outcomes for a symbol.
type AccuracyStatsResponse struct {
	Met             int     `json:"met"`
	Exceeded        int     `json:"exceeded"`
	Missed          int     `json:"missed"`
	Pending         int     `json:"pending"`
	AverageAccuracy *string `json:"averageAccuracy,omitempty"`
}

// TemplateTypeResponse describes one available note template.
type TemplateTypeResponse struct {
	Type        string                  `json:"type"`
	DisplayName string                  `json:"displayName"`
	Fields      []TemplateFieldResponse `json:"fields"`
}

// TemplateFieldResponse describes one field of a template schema.
type TemplateFieldResponse struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// TemplateDataResponse is a filled-in template attached to a note.
type TemplateDataResponse struct {
	ID           string          `json:"id"`
	TemplateType string          `json:"templateType"`
	NoteID       *string         `json:"noteId,omitempty"`
	CreatedDate  string          `json:"createdDate"`
	Values       json.RawMessage `json:"values"`
}

// ImportResultResponse reports what a backup import restored.
type ImportResultResponse struct {
	Symbols     int `json:"symbols"`
	Tags        int `json:"tags"`
	Notes       int `json:"notes"`
	DroppedRefs int `json:"droppedRefs"`
}
