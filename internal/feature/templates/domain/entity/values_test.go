package entity

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestEncodeDecodeValues(t *testing.T) {
	t.Parallel()

	in := EntryThesisValues{
		EntryPrice:  decimal.NewFromFloat(182.5),
		Thesis:      "services revenue keeps compounding",
		Catalysts:   "WWDC, buyback",
		RiskFactors: "china exposure",
		Conviction:  8,
	}
	data, err := EncodeValues(in)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := DecodeValues(TemplateEntryThesis, data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	out, ok := decoded.(EntryThesisValues)
	if !ok {
		t.Fatalf("expected EntryThesisValues, got %T", decoded)
	}
	if !out.EntryPrice.Equal(in.EntryPrice) || out.Conviction != in.Conviction || out.Thesis != in.Thesis {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestDecodeValues_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	data := []byte(`{"exitPrice":"100","gainLossPercent":"5","thesisAccuracy":"good","lessonsLearned":"size up earlier","bogus":1}`)
	if _, err := DecodeValues(TemplateExitDecision, data); err == nil {
		t.Error("expected unknown field to be rejected")
	}
}

func TestDecodeValues_RejectsTypeMismatch(t *testing.T) {
	t.Parallel()

	data := []byte(`{"previousConviction":"not a number"}`)
	if _, err := DecodeValues(TemplateThesisUpdate, data); err == nil {
		t.Error("expected type mismatch to be rejected")
	}
}

func TestDecodeValues_UnknownType(t *testing.T) {
	t.Parallel()

	if _, err := DecodeValues(TemplateType("watchlist"), []byte(`{}`)); err == nil {
		t.Error("expected unknown template type to be rejected")
	}
}

func TestTemplateType_ValidAndFields(t *testing.T) {
	t.Parallel()

	for _, tt := range AllTemplateTypes {
		if !tt.Valid() {
			t.Errorf("expected %s to be valid", tt)
		}
		if len(tt.Fields()) == 0 {
			t.Errorf("expected %s to have a field schema", tt)
		}
		if tt.DisplayName() == string(tt) {
			t.Errorf("expected %s to have a display name", tt)
		}
	}
	if TemplateType("watchlist").Valid() {
		t.Error("expected unknown type to be invalid")
	}
}
