package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Client is a card catalog HTTP client (Pokémon TCG API v2 shape).
// The upstream is rate limited, so calls are throttled client-side.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	// Rate limiting
	mu       sync.Mutex
	lastCall time.Time
	minDelay time.Duration
}

// NewClient creates a catalog client. apiKey may be empty; the public
// tier just gets a lower rate limit.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		minDelay: 250 * time.Millisecond,
	}
}

func (c *Client) throttle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	elapsed := time.Since(c.lastCall)
	if elapsed < c.minDelay {
		time.Sleep(c.minDelay - elapsed)
	}
	c.lastCall = time.Now()
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	c.throttle()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("catalog error %d: %s", resp.StatusCode, string(data))
	}

	return data, nil
}

// FindSetByName returns the first set matching the given name, or nil
// when the catalog knows no such set. Absence is not an error.
func (c *Client) FindSetByName(ctx context.Context, name string) (*Set, error) {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("name:%q", name))
	query.Set("pageSize", "1")

	data, err := c.doRequest(ctx, "/sets", query)
	if err != nil {
		return nil, err
	}

	var resp setsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, nil
	}

	row := resp.Data[0]
	return &Set{
		ID:      row.ID,
		Name:    row.Name,
		LogoURL: row.Images.Logo,
	}, nil
}

// FindCardsBySet returns up to pageSize cards of a set.
func (c *Client) FindCardsBySet(ctx context.Context, setID string, pageSize int) ([]Card, error) {
	query := url.Values{}
	query.Set("q", "set.id:"+setID)
	query.Set("pageSize", fmt.Sprintf("%d", pageSize))

	data, err := c.doRequest(ctx, "/cards", query)
	if err != nil {
		return nil, err
	}

	var resp cardsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	cards := make([]Card, 0, len(resp.Data))
	for _, row := range resp.Data {
		cards = append(cards, Card{
			Number:        row.Number,
			Name:          row.Name,
			SmallImageURL: row.Images.Small,
		})
	}

	return cards, nil
}
