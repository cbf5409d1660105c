package usecase

import (
	"strings"

	"stocknotes/internal/feature/notes/domain/entity"
)

// bullishKeywords は強気センチメントを示唆するキーワードのリストです。
var bullishKeywords = []string{
	"bullish", "buy", "long", "positive", "upside", "growth", "opportunity",
	"undervalued", "strong", "momentum", "breakout", "rally", "surge",
	"outperform", "upgrade", "target", "price target", "recommendation",
}

// bearishKeywords は弱気センチメントを示唆するキーワードのリストです。
var bearishKeywords = []string{
	"bearish", "sell", "short", "negative", "downside", "decline", "risk",
	"overvalued", "weak", "breakdown", "crash", "drop", "fall",
	"underperform", "downgrade", "avoid", "concern", "warning",
}

// AnalyzeSentiment はテキストからセンチメントを推定する純粋関数です。
// 各キーワードは出現回数に関わらず1カウントとします（頻度ではなく有無）。
// 判定できない場合はnilを返します。この結果はあくまで提案であり、
// ユーザーが明示的に設定したセンチメントを上書きすることはありません。
func AnalyzeSentiment(text string) *entity.Sentiment {
	lowered := strings.ToLower(text)

	var bullishCount, bearishCount int
	for _, kw := range bullishKeywords {
		if strings.Contains(lowered, kw) {
			bullishCount++
		}
	}
	for _, kw := range bearishKeywords {
		if strings.Contains(lowered, kw) {
			bearishCount++
		}
	}

	var s entity.Sentiment
	switch {
	case bullishCount > bearishCount:
		s = entity.SentimentBullish
	case bearishCount > bullishCount:
		s = entity.SentimentBearish
	case bullishCount > 0:
		// 同数かつ両方1以上の場合はニュートラル
		s = entity.SentimentNeutral
	default:
		return nil
	}
	return &s
}
