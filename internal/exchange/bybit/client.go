package bybit

import (
	bybit_api "github.com/bybit-exchange/bybit.go.api"
)

// Client is a read-only Bybit market data client
type Client struct {
	httpClient *bybit_api.Client
	retry      RetryConfig
	testnet    bool
}

// Config holds the configuration for the Bybit client.
// Kline endpoints are public, so keys are optional.
type Config struct {
	APIKey    string
	APISecret string
	Testnet   bool
	BaseURL   string
	Retry     *RetryConfig
}

// NewClient creates a new Bybit client
func NewClient(config Config) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		if config.Testnet {
			baseURL = bybit_api.TESTNET
		} else {
			baseURL = bybit_api.MAINNET
		}
	}

	httpClient := bybit_api.NewBybitHttpClient(
		config.APIKey,
		config.APISecret,
		bybit_api.WithBaseURL(baseURL),
	)

	retry := DefaultRetryConfig()
	if config.Retry != nil {
		retry = *config.Retry
	}

	return &Client{
		httpClient: httpClient,
		retry:      retry,
		testnet:    config.Testnet,
	}
}

// GetEnvironment returns a string describing the current environment
func (c *Client) GetEnvironment() string {
	if c.testnet {
		return "testnet"
	}
	return "mainnet"
}
