package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"monad-explorer/internal/interfaces"
	"monad-explorer/internal/models"
)

var _ interfaces.Explorer = (*Client)(nil)

// ErrNotFound is returned when the indexer has no record for the request.
var ErrNotFound = errors.New("record not found")

// Cache stores immutable records between requests.
type Cache interface {
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, value any)
}

// Client talks to the indexing REST API with rate limiting, retries and
// structured logging
type Client struct {
	BaseURL     string
	ApiKey      string
	RateLimiter *rate.Limiter
	MaxRetries  int
	RetryDelay  time.Duration
	HTTPTimeout time.Duration
	Logger      *zerolog.Logger
	HTTPClient  *http.Client
	Cache       Cache
}

// NewClient creates a new API client with the given configuration. A
// rateLimit of zero or less disables limiting.
func NewClient(baseURL, apiKey string, rateLimit float64, maxRetries int, retryDelay, httpTimeout time.Duration, logger *zerolog.Logger) *Client {
	limit := rate.Inf
	if rateLimit > 0 {
		limit = rate.Limit(rateLimit)
	}
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		ApiKey:      apiKey,
		RateLimiter: rate.NewLimiter(limit, 1),
		MaxRetries:  maxRetries,
		RetryDelay:  retryDelay,
		HTTPTimeout: httpTimeout,
		Logger:      logger,
		HTTPClient: &http.Client{
			Timeout: httpTimeout,
			Transport: &CustomTransport{
				Base:   http.DefaultTransport,
				ApiKey: apiKey,
			},
		},
	}
}

// WithCache attaches a record cache and returns the client.
func (c *Client) WithCache(cache Cache) *Client {
	c.Cache = cache
	return c
}

// CustomTransport adds API key authentication to HTTP requests
type CustomTransport struct {
	Base   http.RoundTripper
	ApiKey string
}

func (t *CustomTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept", "application/json")
	if t.ApiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.ApiKey)
	}
	return t.Base.RoundTrip(req)
}

// permanentError stops the retry loop.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// get performs a GET with rate limiting, retries and error handling and
// decodes the JSON body into dst
func (c *Client) get(ctx context.Context, path string, query url.Values, dst any) error {
	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	c.Logger.Debug().
		Str("endpoint", endpoint).
		Msg("Making API call")

	// Wait for rate limit
	if err := c.RateLimiter.Wait(ctx); err != nil {
		c.Logger.Error().Err(err).Msg("Rate limit error")
		return fmt.Errorf("rate limit error: %w", err)
	}

	err := c.retry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return &permanentError{err}
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return err
		}
		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return &permanentError{ErrNotFound}
		case resp.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("HTTP error: %d - %s", resp.StatusCode, resp.Status)
		case resp.StatusCode != http.StatusOK:
			return &permanentError{fmt.Errorf("HTTP error: %d - %s", resp.StatusCode, resp.Status)}
		}

		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return &permanentError{fmt.Errorf("failed to decode response: %w", err)}
		}
		return nil
	})

	if err != nil && !errors.Is(err, ErrNotFound) {
		c.Logger.Error().
			Err(err).
			Str("endpoint", endpoint).
			Msg("API call failed")
	}
	return err
}

// retry executes fn up to MaxRetries additional times after the first
// attempt, stopping on success, a permanent error or context cancellation
func (c *Client) retry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if attempt == c.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.RetryDelay):
		}
	}
	return err
}

// cached serves dst from the cache, or fetches it and stores it when keep
// reports the record can no longer change.
func (c *Client) cached(ctx context.Context, key string, dst any, fetch func() error, keep func() bool) error {
	if c.Cache == nil {
		return fetch()
	}
	if c.Cache.Get(ctx, key, dst) {
		return nil
	}
	if err := fetch(); err != nil {
		return err
	}
	if keep() {
		c.Cache.Set(ctx, key, dst)
	}
	return nil
}

func pageQuery(page, limit int) url.Values {
	return url.Values{
		"page":  []string{strconv.Itoa(max(page, 1))},
		"limit": []string{strconv.Itoa(max(limit, 1))},
	}
}

// LatestBlocks returns the most recent blocks, newest first
func (c *Client) LatestBlocks(ctx context.Context, limit int) (*models.Page[models.Block], error) {
	var page models.Page[models.Block]
	if err := c.get(ctx, "/blocks", pageQuery(1, limit), &page); err != nil {
		return nil, fmt.Errorf("failed to get latest blocks: %w", err)
	}
	return &page, nil
}

// LatestTransactions returns the most recent transactions, newest first
func (c *Client) LatestTransactions(ctx context.Context, limit int) (*models.Page[models.Transaction], error) {
	var page models.Page[models.Transaction]
	if err := c.get(ctx, "/transactions", pageQuery(1, limit), &page); err != nil {
		return nil, fmt.Errorf("failed to get latest transactions: %w", err)
	}
	return &page, nil
}

// LatestBlockNumber returns the height of the newest indexed block
func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	page, err := c.LatestBlocks(ctx, 1)
	if err != nil {
		return 0, err
	}
	if len(page.Data) == 0 {
		return 0, fmt.Errorf("indexer returned no blocks")
	}
	return page.Data[0].Number.Uint64(), nil
}

// Block returns a block by decimal number or hash. Lookups by hash are
// cached; a number can point at a different block after a reorg.
func (c *Client) Block(ctx context.Context, id string) (*models.Block, error) {
	id = strings.ToLower(id)
	var block models.Block
	err := c.cached(ctx, "block_"+id, &block, func() error {
		return c.get(ctx, "/blocks/"+url.PathEscape(id), nil, &block)
	}, func() bool {
		return strings.HasPrefix(id, "0x")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get block %s: %w", id, err)
	}
	return &block, nil
}

// EnrichedTransaction returns a transaction with its receipt, logs, decoded
// input and token movements. Transactions with a receipt are cached.
func (c *Client) EnrichedTransaction(ctx context.Context, hash string) (*models.Transaction, error) {
	hash = strings.ToLower(hash)
	var tx models.Transaction
	err := c.cached(ctx, "tx_"+hash, &tx, func() error {
		return c.get(ctx, "/transactions/"+url.PathEscape(hash)+"/enriched", nil, &tx)
	}, func() bool {
		return tx.HasStatus()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", hash, err)
	}
	return &tx, nil
}

// Address returns the balance and summary of an account or contract
func (c *Client) Address(ctx context.Context, address string) (*models.Address, error) {
	var addr models.Address
	if err := c.get(ctx, addressPath(address, ""), nil, &addr); err != nil {
		return nil, fmt.Errorf("failed to get address %s: %w", address, err)
	}
	return &addr, nil
}

// AddressMetadata returns the curated labels of an address
func (c *Client) AddressMetadata(ctx context.Context, address string) (*models.AddressMetadata, error) {
	var meta models.AddressMetadata
	if err := c.get(ctx, addressPath(address, "/metadata"), nil, &meta); err != nil {
		return nil, fmt.Errorf("failed to get metadata for %s: %w", address, err)
	}
	return &meta, nil
}

func (c *Client) AddressTransactions(ctx context.Context, address string, page, limit int) (*models.Page[models.Transaction], error) {
	return listAddress[models.Transaction](ctx, c, address, "/transactions", page, limit)
}

func (c *Client) AddressTokenBalances(ctx context.Context, address string, page, limit int) (*models.Page[models.TokenBalance], error) {
	return listAddress[models.TokenBalance](ctx, c, address, "/tokens", page, limit)
}

func (c *Client) AddressTokenTransfers(ctx context.Context, address string, page, limit int) (*models.Page[models.TokenTransfer], error) {
	return listAddress[models.TokenTransfer](ctx, c, address, "/token-transfers", page, limit)
}

func (c *Client) AddressNFTs(ctx context.Context, address string, page, limit int) (*models.Page[models.NFT], error) {
	return listAddress[models.NFT](ctx, c, address, "/nfts", page, limit)
}

func (c *Client) AddressNFTTransfers(ctx context.Context, address string, page, limit int) (*models.Page[models.TokenTransfer], error) {
	return listAddress[models.TokenTransfer](ctx, c, address, "/nft-transfers", page, limit)
}

func (c *Client) AddressInternalTransactions(ctx context.Context, address string, page, limit int) (*models.Page[models.InternalTransaction], error) {
	return listAddress[models.InternalTransaction](ctx, c, address, "/internal-transactions", page, limit)
}

func listAddress[T any](ctx context.Context, c *Client, address, suffix string, page, limit int) (*models.Page[T], error) {
	var result models.Page[T]
	if err := c.get(ctx, addressPath(address, suffix), pageQuery(page, limit), &result); err != nil {
		return nil, fmt.Errorf("failed to list %s for %s: %w", strings.TrimPrefix(suffix, "/"), address, err)
	}
	return &result, nil
}

func addressPath(address, suffix string) string {
	return "/addresses/" + url.PathEscape(strings.ToLower(address)) + suffix
}

// Close closes the HTTP client connections
func (c *Client) Close() {
	if c.HTTPClient != nil {
		c.HTTPClient.CloseIdleConnections()
	}
}
