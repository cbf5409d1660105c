package entity

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// TemplateValues is the tagged union of structured field values. Each
// template type has exactly one variant.
type TemplateValues interface {
	Type() TemplateType
}

// EntryThesisValues holds the fields of an entry-thesis template.
type EntryThesisValues struct {
	EntryPrice  decimal.Decimal `json:"entryPrice"`
	Thesis      string          `json:"thesis"`
	Catalysts   string          `json:"catalysts"`
	RiskFactors string          `json:"riskFactors"`
	Conviction  int             `json:"conviction"`
}

func (EntryThesisValues) Type() TemplateType { return TemplateEntryThesis }

// ThesisUpdateValues holds the fields of a thesis-update template.
type ThesisUpdateValues struct {
	PreviousConviction int             `json:"previousConviction"`
	NewConviction      int             `json:"newConviction"`
	WhatChanged        string          `json:"whatChanged"`
	NewPriceTarget     decimal.Decimal `json:"newPriceTarget"`
}

func (ThesisUpdateValues) Type() TemplateType { return TemplateThesisUpdate }

// ExitDecisionValues holds the fields of an exit-decision template.
type ExitDecisionValues struct {
	ExitPrice       decimal.Decimal `json:"exitPrice"`
	GainLossPercent decimal.Decimal `json:"gainLossPercent"`
	ThesisAccuracy  string          `json:"thesisAccuracy"`
	LessonsLearned  string          `json:"lessonsLearned"`
}

func (ExitDecisionValues) Type() TemplateType { return TemplateExitDecision }

// DividendStockValues holds the fields of a dividend-stock template.
type DividendStockValues struct {
	Yield            decimal.Decimal `json:"yield"`
	GrowthRate       decimal.Decimal `json:"growthRate"`
	DivSafety        string          `json:"divSafety"`
	RebalanceTrigger string          `json:"rebalanceTrigger"`
}

func (DividendStockValues) Type() TemplateType { return TemplateDividendStock }

// TechnicalAnalysisValues holds the fields of a technical-analysis template.
type TechnicalAnalysisValues struct {
	ChartPattern string          `json:"chartPattern"`
	EntrySignal  string          `json:"entrySignal"`
	StopLoss     decimal.Decimal `json:"stopLoss"`
	TargetPrice  decimal.Decimal `json:"targetPrice"`
	Timeframe    string          `json:"timeframe"`
}

func (TechnicalAnalysisValues) Type() TemplateType { return TemplateTechnicalAnalysis }

// EncodeValues serializes typed template values to their JSON transport form.
func EncodeValues(v TemplateValues) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s values: %w", v.Type(), err)
	}
	return data, nil
}

// DecodeValues parses data into the variant matching t. Unknown fields and
// type mismatches are rejected rather than dropped.
func DecodeValues(t TemplateType, data []byte) (TemplateValues, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var (
		v   TemplateValues
		err error
	)
	switch t {
	case TemplateEntryThesis:
		var out EntryThesisValues
		err = dec.Decode(&out)
		v = out
	case TemplateThesisUpdate:
		var out ThesisUpdateValues
		err = dec.Decode(&out)
		v = out
	case TemplateExitDecision:
		var out ExitDecisionValues
		err = dec.Decode(&out)
		v = out
	case TemplateDividendStock:
		var out DividendStockValues
		err = dec.Decode(&out)
		v = out
	case TemplateTechnicalAnalysis:
		var out TechnicalAnalysisValues
		err = dec.Decode(&out)
		v = out
	default:
		return nil, fmt.Errorf("unknown template type %q", t)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s values: %w", t, err)
	}
	return v, nil
}
