// Package fetch retrieves the raw HTML of a product listing page. Retry and
// scheduling policy belong to the caller.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

// Client fetches one configured page over HTTP.
type Client struct {
	log     *slog.Logger
	client  *http.Client
	pageURL string
}

func New(log *slog.Logger, pageURL string) *Client {
	return &Client{log: log, pageURL: pageURL, client: http.DefaultClient}
}

// FetchPage performs a GET of the configured page and returns the body
// bytes. Any non-200 status is an error.
func (c *Client) FetchPage(ctx context.Context) ([]byte, error) {
	reqURL, err := url.Parse(c.pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page URL %s: %w", c.pageURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request %s: %w", reqURL.String(), err)
	}

	req.Header.Add("User-Agent", "Mozilla/5.0 (compatible; GoHttpClient/1.0)")

	c.log.DebugContext(ctx, "Send request", "method", req.Method, "URL", req.URL)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request %s: %w", c.pageURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code error: [%d] %s", res.StatusCode, res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.log.InfoContext(ctx, "Successfully fetched page", "status code", res.StatusCode, "bytes", len(body))

	return body, nil
}
