// Package dock reads merchants from the Dock merchant API.
package dock

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/jmespath/go-jmespath"

	"github.com/Ramsey-B/backoffice/pkg/importer"
	"github.com/Ramsey-B/backoffice/pkg/metrics"
	"github.com/Ramsey-B/backoffice/pkg/tracing"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultItemsPath = "objects"

	// MaxResponseSize caps the feed body (50MB). The whole feed is one page.
	MaxResponseSize = 50 * 1024 * 1024
)

var ErrUnexpectedStatus = errors.New("unexpected feed status")

type Config struct {
	URL   string
	Token string
	// ItemsPath is the JMESPath of the merchant array in the response body.
	ItemsPath string
	Timeout   time.Duration
}

// Client fetches the full merchant list in one request.
type Client struct {
	cfg    Config
	items  *jmespath.JMESPath
	client *http.Client
	logger ectologger.Logger
}

func NewClient(cfg Config, logger ectologger.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("dock feed url is required")
	}
	if cfg.ItemsPath == "" {
		cfg.ItemsPath = DefaultItemsPath
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	items, err := jmespath.Compile(cfg.ItemsPath)
	if err != nil {
		return nil, fmt.Errorf("invalid items path %q: %w", cfg.ItemsPath, err)
	}

	return &Client{
		cfg:    cfg,
		items:  items,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}, nil
}

var _ importer.Feed = (*Client)(nil)

// Merchants fetches the feed and maps every payload onto an import aggregate.
func (c *Client) Merchants(ctx context.Context) ([]importer.MerchantAggregate, error) {
	payloads, err := c.FetchMerchants(ctx)
	if err != nil {
		return nil, err
	}

	aggregates := make([]importer.MerchantAggregate, 0, len(payloads))
	for _, p := range payloads {
		aggregates = append(aggregates, p.ToAggregate())
	}
	return aggregates, nil
}

func (c *Client) FetchMerchants(ctx context.Context) ([]MerchantPayload, error) {
	ctx, span := tracing.StartSpan(ctx, "dock.FetchMerchants")
	defer span.End()

	body, err := c.get(ctx)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var document any
	if err := decoder.Decode(&document); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}

	found, err := c.items.Search(document)
	if err != nil {
		return nil, fmt.Errorf("search %q in feed response: %w", c.cfg.ItemsPath, err)
	}
	list, ok := found.([]any)
	if !ok {
		return nil, fmt.Errorf("feed response has no merchant array at %q", c.cfg.ItemsPath)
	}

	raw, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("re-encode merchant array: %w", err)
	}
	var payloads []MerchantPayload
	if err := json.Unmarshal(raw, &payloads); err != nil {
		return nil, fmt.Errorf("decode merchants: %w", err)
	}

	c.logger.WithContext(ctx).Infof("Fetched %d merchants from feed", len(payloads))
	return payloads, nil
}

func (c *Client) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordFeedRequest(0, time.Since(start))
		c.logger.WithContext(ctx).WithError(err).Errorf("Feed request failed: GET %s", c.cfg.URL)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	metrics.RecordFeedRequest(resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("response body too large (max %d bytes)", MaxResponseSize)
	}

	c.logger.WithContext(ctx).Debugf("HTTP GET %s -> %d (%s)", c.cfg.URL, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, snippet(body))
	}
	return body, nil
}

func snippet(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
