package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client reads orders from the Shopify Admin REST API.
type Client struct {
	shop       string
	token      string
	apiVersion string
	pageSize   int
	window     time.Duration
	httpClient *http.Client

	// baseURL defaults to https://{shop}; tests point it at a local server.
	baseURL string
}

func NewClient(shop, token, apiVersion string, pageSize int, window time.Duration) *Client {
	return &Client{
		shop:       shop,
		token:      token,
		apiVersion: apiVersion,
		pageSize:   pageSize,
		window:     window,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    "https://" + shop,
	}
}

// Orders streams orders updated within the fetch window, any status,
// following the Link rel="next" continuation until no next page remains, a
// request fails or a page comes back empty. A failed request logs and ends
// the sequence early; orders already yielded stand. The sequence is not
// restartable mid-run: ranging again starts over from the first page.
func (c *Client) Orders(ctx context.Context) iter.Seq[Order] {
	return func(yield func(Order) bool) {
		since := time.Now().UTC().Add(-c.window).Format("2006-01-02T15:04:05Z")
		next := fmt.Sprintf("%s/admin/api/%s/orders.json?updated_at_min=%s&limit=%d&status=any",
			c.baseURL, c.apiVersion, url.QueryEscape(since), c.pageSize)

		for next != "" {
			orders, nextURL, err := c.fetchPage(ctx, next)
			if err != nil {
				log.Printf("shopify: pagination halted: %v", err)
				return
			}
			if len(orders) == 0 {
				return
			}
			for _, o := range orders {
				if !yield(o) {
					return
				}
			}
			next = nextURL
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, pageURL string) ([]Order, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request orders page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read orders page: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("orders page returned status %d: %s", resp.StatusCode, string(body))
	}

	var page ordersResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, "", fmt.Errorf("parse orders page: %w", err)
	}

	return page.Orders, nextPageURL(resp.Header.Get("Link")), nil
}

// nextPageURL extracts the rel="next" target from a Shopify Link header, or
// returns "" when this was the last page.
func nextPageURL(linkHeader string) string {
	for _, part := range strings.Split(linkHeader, ",") {
		if !strings.Contains(part, `rel="next"`) {
			continue
		}
		start := strings.Index(part, "<")
		end := strings.Index(part, ">")
		if start < 0 || end < 0 || end <= start+1 {
			continue
		}
		return part[start+1 : end]
	}
	return ""
}
