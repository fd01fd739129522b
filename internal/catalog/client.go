// Package catalog talks to the Wallhaven API.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/pders01/wallr/internal/debuglog"
	"github.com/pders01/wallr/internal/query"
)

const (
	DefaultBaseURL   = "https://wallhaven.cc/api/v1/"
	DefaultSiteURL   = "https://wallhaven.cc/"
	DefaultUserAgent = "wallr/1.0 (wallpaper browser; github.com/pders01/wallr)"
	DefaultTimeout   = 30 * time.Second

	maxBodyBytes = 8 << 20
)

// Source is the part of the catalog the pagination layer depends on.
type Source interface {
	Search(ctx context.Context, params query.Params, page int) (*Page, error)
	Wallpaper(ctx context.Context, id string) (*Wallpaper, error)
}

type Options struct {
	BaseURL       string
	SiteURL       string
	UserAgent     string
	Timeout       time.Duration
	Retries       int
	RetryDelay    time.Duration
	MaxConcurrent int
	HTTPClient    *http.Client
}

type Client struct {
	client        *http.Client
	baseURL       *url.URL
	siteURL       *url.URL
	userAgent     string
	retries       int
	retryDelay    time.Duration
	maxConcurrent int
	group         singleflight.Group
}

func NewClient(opts Options) (*Client, error) {
	base, err := parseBase(opts.BaseURL, DefaultBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	site, err := parseBase(opts.SiteURL, DefaultSiteURL)
	if err != nil {
		return nil, fmt.Errorf("parsing site url: %w", err)
	}

	c := &Client{
		client:        opts.HTTPClient,
		baseURL:       base,
		siteURL:       site,
		userAgent:     opts.UserAgent,
		retries:       opts.Retries,
		retryDelay:    opts.RetryDelay,
		maxConcurrent: opts.MaxConcurrent,
	}
	if c.client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.client = &http.Client{Timeout: timeout}
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.retries < 0 {
		c.retries = 0
	}
	if c.retryDelay <= 0 {
		c.retryDelay = 500 * time.Millisecond
	}
	if c.maxConcurrent <= 0 {
		c.maxConcurrent = 4
	}
	return c, nil
}

// parseBase makes sure the URL ends in "/" so relative references resolve
// beneath it.
func parseBase(raw, fallback string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		raw = fallback
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	return url.Parse(raw)
}

// Search runs one page of a search.
func (c *Client) Search(ctx context.Context, params query.Params, page int) (*Page, error) {
	u := c.baseURL.ResolveReference(&url.URL{Path: "search"})
	u.RawQuery = params.Values(page).Encode()

	var resp searchResponse
	if err := c.getJSON(ctx, "search", u, &resp); err != nil {
		return nil, err
	}
	p := resp.page()
	debuglog.WithFields(map[string]any{
		"q":     params.Query,
		"page":  p.CurrentPage,
		"last":  p.LastPage,
		"count": len(p.Wallpapers),
	}).Debugf("catalog: search")
	return p, nil
}

// Wallpaper fetches one wallpaper with its tags. Concurrent calls for the
// same id share one request.
func (c *Client) Wallpaper(ctx context.Context, id string) (*Wallpaper, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("wallpaper: empty id")
	}

	// The shared request outlives any one caller; each caller still stops
	// waiting when its own context ends.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan("w/"+id, func() (any, error) {
		u := c.baseURL.ResolveReference(&url.URL{Path: "w/" + url.PathEscape(id)})
		var resp wallpaperResponse
		if err := c.getJSON(shared, "wallpaper "+id, u, &resp); err != nil {
			return nil, err
		}
		if resp.Data == nil {
			return nil, fmt.Errorf("wallpaper %s: %w", id, ErrNotFound)
		}
		return resp.Data, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("wallpaper %s: %w", id, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		w := *res.Val.(*Wallpaper)
		return &w, nil
	}
}

// FetchAll fetches several wallpapers with at most MaxConcurrent requests in
// flight. Results keep the order of ids; the first failure cancels the rest.
func (c *Client) FetchAll(ctx context.Context, ids []string) ([]Wallpaper, error) {
	out := make([]Wallpaper, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConcurrent)

	for i, id := range ids {
		g.Go(func() error {
			w, err := c.Wallpaper(gctx, id)
			if err != nil {
				return err
			}
			out[i] = *w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, op string, u *url.URL, v any) error {
	body, err := c.get(ctx, op, u, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}

// get performs a GET, retrying retryable failures with exponential backoff.
// A Retry-After header overrides the computed delay.
func (c *Client) get(ctx context.Context, op string, u *url.URL, accept string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		body, err := c.getOnce(ctx, op, u, accept)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var netErr *NetworkError
		if !errors.As(err, &netErr) || !netErr.Retryable() || attempt == c.retries {
			break
		}

		delay := c.retryDelay * time.Duration(1<<attempt)
		if netErr.RetryAfter > 0 {
			delay = netErr.RetryAfter
		}
		debuglog.Warnf("catalog: %s failed (attempt %d): %v; retrying in %s", op, attempt+1, err, delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, &NetworkError{Op: op, Err: ctx.Err()}
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func (c *Client) getOnce(ctx context.Context, op string, u *url.URL, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	case resp.StatusCode >= 400:
		return nil, &NetworkError{
			Op:         op,
			Status:     resp.StatusCode,
			RetryAfter: retryAfter(resp),
			Err:        fmt.Errorf("HTTP error: %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("reading body: %w", err)}
	}
	return body, nil
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(resp *http.Response) time.Duration {
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
