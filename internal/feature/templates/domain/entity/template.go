// Package entity defines the template schemas and the typed field data model
// for the templates feature.
package entity

import "time"

// TemplateType identifies one of the fixed structured-note genres.
type TemplateType string

const (
	TemplateEntryThesis       TemplateType = "entryThesis"
	TemplateThesisUpdate      TemplateType = "thesisUpdate"
	TemplateExitDecision      TemplateType = "exitDecision"
	TemplateDividendStock     TemplateType = "dividendStock"
	TemplateTechnicalAnalysis TemplateType = "technicalAnalysis"
)

// AllTemplateTypes lists every template kind in display order.
var AllTemplateTypes = []TemplateType{
	TemplateEntryThesis,
	TemplateThesisUpdate,
	TemplateExitDecision,
	TemplateDividendStock,
	TemplateTechnicalAnalysis,
}

// DisplayName returns the human-readable label for the template type.
func (t TemplateType) DisplayName() string {
	switch t {
	case TemplateEntryThesis:
		return "Entry Thesis"
	case TemplateThesisUpdate:
		return "Thesis Update"
	case TemplateExitDecision:
		return "Exit Decision"
	case TemplateDividendStock:
		return "Dividend Stock"
	case TemplateTechnicalAnalysis:
		return "Technical Analysis"
	default:
		return string(t)
	}
}

// Valid reports whether t is one of the defined template types.
func (t TemplateType) Valid() bool {
	switch t {
	case TemplateEntryThesis, TemplateThesisUpdate, TemplateExitDecision,
		TemplateDividendStock, TemplateTechnicalAnalysis:
		return true
	}
	return false
}

// FieldType tags the value kind of a template field.
type FieldType string

const (
	FieldText    FieldType = "text"
	FieldInteger FieldType = "integer"
	FieldDecimal FieldType = "decimal"
)

// TemplateField describes one named field of a template schema.
type TemplateField struct {
	Name  string    `json:"name"`
	Label string    `json:"label"`
	Type  FieldType `json:"type"`
}

// Fields returns the ordered field schema for the template type.
func (t TemplateType) Fields() []TemplateField {
	switch t {
	case TemplateEntryThesis:
		return []TemplateField{
			{Name: "entryPrice", Label: "Entry Price", Type: FieldDecimal},
			{Name: "thesis", Label: "Thesis (Why Buy?)", Type: FieldText},
			{Name: "catalysts", Label: "Catalysts", Type: FieldText},
			{Name: "riskFactors", Label: "Risk Factors", Type: FieldText},
			{Name: "conviction", Label: "Conviction (1-10)", Type: FieldInteger},
		}
	case TemplateThesisUpdate:
		return []TemplateField{
			{Name: "previousConviction", Label: "Previous Conviction", Type: FieldInteger},
			{Name: "newConviction", Label: "New Conviction", Type: FieldInteger},
			{Name: "whatChanged", Label: "What Changed", Type: FieldText},
			{Name: "newPriceTarget", Label: "New Price Target", Type: FieldDecimal},
		}
	case TemplateExitDecision:
		return []TemplateField{
			{Name: "exitPrice", Label: "Exit Price", Type: FieldDecimal},
			{Name: "gainLossPercent", Label: "Gain/Loss %", Type: FieldDecimal},
			{Name: "thesisAccuracy", Label: "Thesis Accuracy Rating", Type: FieldText},
			{Name: "lessonsLearned", Label: "Lessons Learned", Type: FieldText},
		}
	case TemplateDividendStock:
		return []TemplateField{
			{Name: "yield", Label: "Yield (%)", Type: FieldDecimal},
			{Name: "growthRate", Label: "Growth Rate (%)", Type: FieldDecimal},
			{Name: "divSafety", Label: "Dividend Safety", Type: FieldText},
			{Name: "rebalanceTrigger", Label: "Rebalance Trigger", Type: FieldText},
		}
	case TemplateTechnicalAnalysis:
		return []TemplateField{
			{Name: "chartPattern", Label: "Chart Pattern", Type: FieldText},
			{Name: "entrySignal", Label: "Entry Signal", Type: FieldText},
			{Name: "stopLoss", Label: "Stop Loss", Type: FieldDecimal},
			{Name: "targetPrice", Label: "Target Price", Type: FieldDecimal},
			{Name: "timeframe", Label: "Timeframe", Type: FieldText},
		}
	default:
		return nil
	}
}

// TemplateData is one persisted structured-note record. FieldData holds the
// JSON encoding of the typed values for TemplateType's schema; use
// EncodeValues/DecodeValues instead of touching it directly.
type TemplateData struct {
	ID           string       `gorm:"primaryKey;size:36"`
	TemplateType TemplateType `gorm:"size:40;not null"`
	FieldData    []byte
	NoteID       *string `gorm:"size:36;index"`
	CreatedDate  time.Time
}
