package usecase

import (
	"testing"

	"stocknotes/internal/feature/notes/domain/entity"
)

// TestAnalyzeSentiment はキーワードベースのセンチメント推定を検証します。
func TestAnalyzeSentiment(t *testing.T) {
	t.Parallel()

	bullish := entity.SentimentBullish
	bearish := entity.SentimentBearish
	neutral := entity.SentimentNeutral

	testCases := []struct {
		name     string
		text     string
		expected *entity.Sentiment
	}{
		{
			name:     "bullish keywords dominate",
			text:     "Strong momentum after the breakout, upgrading to buy",
			expected: &bullish,
		},
		{
			name:     "bearish keywords dominate",
			text:     "Overvalued and weak, downgrade to sell on earnings risk",
			expected: &bearish,
		},
		{
			name:     "equal signal reads neutral",
			text:     "torn between buy and sell here",
			expected: &neutral,
		},
		{
			name:     "no keywords yields no suggestion",
			text:     "Attended the annual shareholder meeting today",
			expected: nil,
		},
		{
			name:     "empty text yields no suggestion",
			text:     "",
			expected: nil,
		},
		{
			name:     "matching is case insensitive",
			text:     "BULLISH on the UPSIDE here",
			expected: &bullish,
		},
		{
			name:     "repeated keyword counts once",
			text:     "sell sell sell, but the growth and momentum are strong",
			expected: &bullish,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := AnalyzeSentiment(tc.text)

			if tc.expected == nil {
				if got != nil {
					t.Errorf("expected no suggestion, got %q", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %q, got nil", *tc.expected)
			}
			if *got != *tc.expected {
				t.Errorf("expected %q, got %q", *tc.expected, *got)
			}
		})
	}
}
