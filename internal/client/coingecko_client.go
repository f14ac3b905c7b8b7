package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	domain "portfolio_viewer/internal/domain/entity"
	"portfolio_viewer/internal/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultCoinGeckoAPIKeyHeader = "x-cg-demo-api-key"

// StatusError is returned for any non-200 upstream response.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Is lets callers match a 429 with errors.Is(err, domain.ErrRateLimited).
func (e *StatusError) Is(target error) bool {
	return target == domain.ErrRateLimited && e.StatusCode == fasthttp.StatusTooManyRequests
}

// CoinGeckoClient queries the CoinGecko /simple price endpoints.
type CoinGeckoClient struct {
	client       *fasthttp.Client
	baseURL      string
	apiKey       string
	apiKeyHeader string
	timeout      time.Duration
	logger       *zap.Logger
}

// NewCoinGeckoClient builds a client. An empty apiKeyHeader defaults to the demo-plan header.
func NewCoinGeckoClient(baseURL, apiKey, apiKeyHeader string, timeout time.Duration, logger *zap.Logger) *CoinGeckoClient {
	if apiKeyHeader == "" {
		apiKeyHeader = defaultCoinGeckoAPIKeyHeader
	}
	return &CoinGeckoClient{
		client:       &fasthttp.Client{Name: "portfolio-viewer"},
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		apiKeyHeader: apiKeyHeader,
		timeout:      timeout,
		logger:       logger.Named("CoinGeckoClient"),
	}
}

// GetTokenPrice returns the USD price of an ERC-20 contract on the given asset platform.
// found is false when CoinGecko has no USD quote for it.
func (c *CoinGeckoClient) GetTokenPrice(ctx context.Context, platform, contractAddress string) (price float64, found bool, err error) {
	key := strings.ToLower(contractAddress)
	query := url.Values{}
	query.Set("contract_addresses", key)
	query.Set("vs_currencies", "usd")
	requestURL := fmt.Sprintf("%s/simple/token_price/%s?%s", c.baseURL, url.PathEscape(platform), query.Encode())

	var resp entity.SimplePriceResponse
	if err := c.get(ctx, requestURL, &resp); err != nil {
		return 0, false, err
	}
	price, found = lookupUSD(resp, key)
	return price, found, nil
}

// GetCoinPrice returns the USD price of a coin by CoinGecko id, e.g. "ethereum".
func (c *CoinGeckoClient) GetCoinPrice(ctx context.Context, coinID string) (price float64, found bool, err error) {
	query := url.Values{}
	query.Set("ids", coinID)
	query.Set("vs_currencies", "usd")
	requestURL := fmt.Sprintf("%s/simple/price?%s", c.baseURL, query.Encode())

	var resp entity.SimplePriceResponse
	if err := c.get(ctx, requestURL, &resp); err != nil {
		return 0, false, err
	}
	price, found = lookupUSD(resp, coinID)
	return price, found, nil
}

func lookupUSD(resp entity.SimplePriceResponse, key string) (float64, bool) {
	quote, ok := resp[key]
	if !ok || quote.USD == nil || *quote.USD <= 0 {
		return 0, false
	}
	return *quote.USD, true
}

func (c *CoinGeckoClient) get(ctx context.Context, requestURL string, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.logger.Debug("Requesting CoinGecko", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(c.apiKeyHeader, c.apiKey)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
		return fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err)
	}

	body := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		statusErr := &StatusError{URL: requestURL, StatusCode: resp.StatusCode(), Body: upstreamMessage(body)}
		if resp.StatusCode() == fasthttp.StatusTooManyRequests {
			c.logger.Warn("CoinGecko rate limit hit", zap.String("url", requestURL))
		} else {
			c.logger.Error("CoinGecko request failed",
				zap.String("url", requestURL),
				zap.Int("statusCode", resp.StatusCode()),
				zap.ByteString("responseBody", body))
		}
		return statusErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Error("Failed to unmarshal CoinGecko response",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", body),
			zap.Error(err))
		return fmt.Errorf("failed to unmarshal response from %s: %w", requestURL, err)
	}
	return nil
}

// upstreamMessage prefers CoinGecko's structured error message over the raw body.
func upstreamMessage(body []byte) string {
	var errResp entity.CoinGeckoErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Status.ErrorMessage != "" {
		return errResp.Status.ErrorMessage
	}
	return string(body)
}
