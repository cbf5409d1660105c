// Package yahoo provides a client for the Yahoo Finance quote and search API.
package yahoo

import "time"

const (
	// DefaultChartBaseURL is the endpoint serving current-price chart metadata.
	DefaultChartBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	// DefaultSearchBaseURL is the endpoint serving symbol autocomplete.
	DefaultSearchBaseURL = "https://query1.finance.yahoo.com/v1/finance/search"
	// DefaultTimeout bounds every request; there are no retries.
	DefaultTimeout = 10 * time.Second
)

// Config holds configuration for the Yahoo Finance client.
type Config struct {
	ChartBaseURL  string        // Base URL for price lookups
	SearchBaseURL string        // Base URL for symbol search
	Timeout       time.Duration // HTTP request timeout
}

// DefaultConfig returns a Config pointing at the public Yahoo endpoints.
func DefaultConfig() Config {
	return Config{
		ChartBaseURL:  DefaultChartBaseURL,
		SearchBaseURL: DefaultSearchBaseURL,
		Timeout:       DefaultTimeout,
	}
}
