// Package dictionary asks a remote dictionary whether a word exists.
//
// It backs up the local lexicon only: a 200 confirms the word, a 404 rejects it,
// and anything else is an error meaning "could not confirm". Definitive answers
// are cached by lowercase word; errors never are.
package dictionary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultBaseURL   = "https://api.dictionaryapi.dev/api/v2/entries/en"
	DefaultTimeout   = 5 * time.Second
	DefaultCacheSize = 4096
)

var ErrUnavailable = errors.New("dictionary: unavailable")

// Client looks words up against a dictionaryapi.dev compatible endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *lru.Cache[string, bool]
	group      singleflight.Group
	retryDelay time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at another endpoint (tests, mirrors).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout bounds each HTTP attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRetryDelay sets the pause before the single retry.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// New returns a Client caching up to cacheSize answers.
func New(cacheSize int, opts ...Option) (*Client, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, bool](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("dictionary: cache: %w", err)
	}
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		cache:      cache,
		retryDelay: 300 * time.Millisecond,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Lookup reports whether the remote dictionary knows word.
// A non-nil error means the answer is unknown, not that the word is invalid.
func (c *Client) Lookup(ctx context.Context, word string) (bool, error) {
	key := strings.ToLower(strings.TrimSpace(word))
	if key == "" {
		return false, nil
	}
	if ok, hit := c.cache.Get(key); hit {
		return ok, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		ok, err := c.fetch(ctx, key)
		if err != nil {
			return false, err
		}
		c.cache.Add(key, ok)
		return ok, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// Cached reports how many answers are cached.
func (c *Client) Cached() int { return c.cache.Len() }

func (c *Client) fetch(ctx context.Context, word string) (bool, error) {
	reqURL := c.baseURL + "/" + url.PathEscape(word)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, fmt.Errorf("dictionary: create request: %w", err)
	}

	resp, err := c.doWithRetry(ctx, req, word)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
}

// doWithRetry retries once on a network error or 5xx.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, word string) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err == nil && resp.StatusCode < 500 {
		return resp, nil
	}
	if ctx.Err() != nil {
		return resp, err
	}

	ev := log.Warn().Str("word", word)
	if err != nil {
		ev = ev.Err(err)
	} else {
		ev = ev.Int("status", resp.StatusCode)
		resp.Body.Close()
	}
	ev.Msg("dictionary retry")

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.retryDelay):
	}
	return c.httpClient.Do(req.Clone(ctx))
}
