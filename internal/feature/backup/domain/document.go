// Package domain defines the portable backup document schema.
// The field names are the stable wire format; changing them breaks
// previously exported backups.
package domain

import "time"

// BackupVersion is the schema version written into every export.
const BackupVersion = "1.0"

// BackupData is the complete dataset as a single portable JSON document.
type BackupData struct {
	Notes      []NoteBackup   `json:"notes"`
	Symbols    []SymbolBackup `json:"symbols"`
	Tags       []TagBackup    `json:"tags"`
	Version    string         `json:"version"`
	ExportDate time.Time      `json:"exportDate"`
}

// NoteBackup is one flattened note record. Symbol and tag references are by
// natural key (ticker, tag name), not internal IDs. Images travel base64.
type NoteBackup struct {
	ID             string    `json:"id"`
	Content        string    `json:"content"`
	SymbolTicker   *string   `json:"symbolTicker,omitempty"`
	TagNames       []string  `json:"tagNames"`
	CreatedDate    time.Time `json:"createdDate"`
	LastEditedDate time.Time `json:"lastEditedDate"`
	IsSnap         bool      `json:"isSnap"`
	Images         [][]byte  `json:"images,omitempty"`
}

// SymbolBackup is one flattened symbol record.
type SymbolBackup struct {
	Ticker          string     `json:"ticker"`
	CompanyName     string     `json:"companyName"`
	CurrentPrice    *string    `json:"currentPrice,omitempty"`
	LastPriceUpdate *time.Time `json:"lastPriceUpdate,omitempty"`
}

// TagBackup is one flattened tag record.
type TagBackup struct {
	Name string `json:"name"`
}
