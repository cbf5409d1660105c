package entity

// Sentiment represents the user's directional view recorded on a note.
type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentBearish Sentiment = "bearish"
	SentimentNeutral Sentiment = "neutral"
)

// AllSentiments lists every valid sentiment value.
var AllSentiments = []Sentiment{SentimentBullish, SentimentBearish, SentimentNeutral}

// DisplayName returns the human-readable label for the sentiment.
func (s Sentiment) DisplayName() string {
	switch s {
	case SentimentBullish:
		return "Bullish"
	case SentimentBearish:
		return "Bearish"
	case SentimentNeutral:
		return "Neutral"
	default:
		return string(s)
	}
}

// Valid reports whether s is one of the defined sentiment values.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentBullish, SentimentBearish, SentimentNeutral:
		return true
	}
	return false
}
