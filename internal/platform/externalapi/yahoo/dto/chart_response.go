// Package dto defines the wire shapes of the Yahoo Finance API responses.
package dto

// ChartResponse は /v8/finance/chart/{symbol} のレスポンスです。
// 必要なメタデータのみをデコードします。
type ChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string   `json:"symbol"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				LongName           string   `json:"longName"`
				ShortName          string   `json:"shortName"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// SearchResponse は /v1/finance/search のレスポンスです。
type SearchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
	} `json:"quotes"`
}
