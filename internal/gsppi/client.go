// Package gsppi talks to the client's GSPPI API: the list of digital
// invoices awaiting validation and the PDFs they point at.
package gsppi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"invoicecheck/internal/config"
	"invoicecheck/internal/domain"
)

// APIKeyHeader carries the configured key on requests to the GSPPI host.
const APIKeyHeader = "X-API-Key"

// Client implements port.InvoiceSource over HTTP.
type Client struct {
	baseURL     string
	apiKey      string
	maxDownload int64
	http        *http.Client
	logger      *zap.Logger
}

// NewClient creates a GSPPI client from config.
func NewClient(cfg config.GSPPIConfig, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxMB := cfg.MaxDownloadMB
	if maxMB <= 0 {
		maxMB = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		maxDownload: maxMB << 20,
		http:        &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// ListInvoices fetches every invoice the client currently exposes. Any
// failure is reported as domain.ErrSourceUnavailable.
func (c *Client) ListInvoices(ctx context.Context) ([]domain.DigitalInvoice, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: gsppi base url is not configured", domain.ErrSourceUnavailable)
	}
	body, err := c.get(ctx, c.baseURL, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	var invoices []domain.DigitalInvoice
	if err := json.Unmarshal(body, &invoices); err != nil {
		return nil, fmt.Errorf("%w: decoding invoice list: %v", domain.ErrSourceUnavailable, err)
	}
	c.logger.Info("gsppi: fetched invoice list", zap.Int("count", len(invoices)))
	return invoices, nil
}

// Download fetches one invoice PDF, refusing bodies over the size cap.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("gsppi.Download: empty url")
	}
	body, err := c.get(ctx, rawURL, c.maxDownload)
	if err != nil {
		return nil, fmt.Errorf("gsppi.Download: %w", err)
	}
	return body, nil
}

// get performs a GET. The API key is only sent to the GSPPI host itself;
// download URLs may point anywhere. A positive limit caps the body size.
func (c *Client) get(ctx context.Context, rawURL string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.apiKey != "" && c.sameOrigin(req.URL) {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, rawURL, snippet)
	}

	var r io.Reader = resp.Body
	if limit > 0 {
		r = io.LimitReader(resp.Body, limit+1)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if limit > 0 && int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: download exceeds %d bytes", domain.ErrFileTooLarge, limit)
	}
	return body, nil
}

func (c *Client) sameOrigin(u *url.URL) bool {
	base, err := url.Parse(c.baseURL)
	if err != nil || base.Host == "" {
		return false
	}
	return strings.EqualFold(base.Scheme, u.Scheme) && strings.EqualFold(base.Host, u.Host)
}
