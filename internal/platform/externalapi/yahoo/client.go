package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"stocknotes/internal/feature/symbols/domain/entity"
	"stocknotes/internal/feature/symbols/usecase"
	"stocknotes/internal/platform/externalapi/yahoo/dto"
)

// YahooQuotes はYahoo Finance APIから株価データを取得するQuoteRepository実装です。
type YahooQuotes struct {
	cfg    Config
	client *http.Client
}

// YahooQuotesがQuoteRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.QuoteRepository = (*YahooQuotes)(nil)

// NewYahooQuotes は指定された設定とHTTPクライアントでYahooQuotesの新しいインスタンスを生成します。
// clientがnilの場合は設定のタイムアウトを持つクライアントを生成します。
func NewYahooQuotes(cfg Config, client *http.Client) *YahooQuotes {
	if cfg.ChartBaseURL == "" {
		cfg.ChartBaseURL = DefaultChartBaseURL
	}
	if cfg.SearchBaseURL == "" {
		cfg.SearchBaseURL = DefaultSearchBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &YahooQuotes{cfg: cfg, client: client}
}

// FetchPrice は銘柄の現在価格と会社名を取得します。
// プロバイダが価格を持たない場合、Quote.Priceはnilになります。
func (y *YahooQuotes) FetchPrice(ctx context.Context, ticker string) (entity.Quote, error) {
	u := fmt.Sprintf("%s/%s?interval=1d&range=1d", y.cfg.ChartBaseURL, url.PathEscape(strings.ToUpper(ticker)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return entity.Quote{}, err
	}

	res, err := y.client.Do(req)
	if err != nil {
		return entity.Quote{}, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return entity.Quote{}, fmt.Errorf("yahoo chart http %d", res.StatusCode)
	}

	// JSONレスポンスをDTOにデコード
	var body dto.ChartResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return entity.Quote{}, err
	}
	if body.Chart.Error != nil {
		return entity.Quote{}, fmt.Errorf("yahoo: %s", body.Chart.Error.Description)
	}
	if len(body.Chart.Result) == 0 {
		return entity.Quote{}, fmt.Errorf("yahoo: empty result for %s", ticker)
	}

	meta := body.Chart.Result[0].Meta

	var price *decimal.Decimal
	if meta.RegularMarketPrice != nil {
		p := decimal.NewFromFloat(*meta.RegularMarketPrice)
		price = &p
	}
	name := meta.LongName
	if name == "" {
		name = meta.ShortName
	}
	return entity.Quote{Price: price, CompanyName: name}, nil
}

// SearchSymbols はオートコンプリート検索の結果を返します。
// ティッカーまたは名前が欠けているヒットはスキップします。
func (y *YahooQuotes) SearchSymbols(ctx context.Context, query string) ([]entity.SymbolSearchResult, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("quotesCount", "10")
	u := fmt.Sprintf("%s?%s", y.cfg.SearchBaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := y.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("yahoo search http %d", res.StatusCode)
	}

	var body dto.SearchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}

	results := make([]entity.SymbolSearchResult, 0, len(body.Quotes))
	for _, q := range body.Quotes {
		if q.Symbol == "" || q.ShortName == "" {
			continue
		}
		results = append(results, entity.SymbolSearchResult{
			Ticker:      q.Symbol,
			CompanyName: q.ShortName,
		})
	}
	return results, nil
}
