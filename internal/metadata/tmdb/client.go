// Package tmdb is a rate-limited, caching client for The Movie Database API.
package tmdb

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/relprep/relprep/internal/cache"
	domainerrors "github.com/relprep/relprep/internal/errors"
	"github.com/relprep/relprep/internal/logger"
)

// Config configures a Client.
type Config struct {
	APIKey   string
	Language string
	BaseURL  string
	// RateLimit is requests per second; zero means 4.
	RateLimit int
}

// Client provides access to the TMDB v3 API.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	cache       *cache.Cache
	logger      *logger.Logger

	apiKey   string
	language string
	baseURL  string
}

// NewClient creates a client. c may be nil to disable caching.
func NewClient(cfg Config, c *cache.Cache, log *logger.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, domainerrors.Unavailablef("tmdb api key is not configured")
	}
	if log == nil {
		log = logger.Discard()
	}
	perSecond := cfg.RateLimit
	if perSecond <= 0 {
		perSecond = 4
	}
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.themoviedb.org/3"
	}

	return &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		rateLimiter: rate.NewLimiter(rate.Limit(perSecond), perSecond),
		cache:       c,
		logger:      log.Component("tmdb"),
		apiKey:      cfg.APIKey,
		language:    cfg.Language,
		baseURL:     strings.TrimRight(base, "/"),
	}, nil
}

// SearchMovie searches movies by title. year narrows the search when non-zero.
func (c *Client) SearchMovie(ctx context.Context, query string, year int) ([]MovieResult, error) {
	params := url.Values{"query": {query}}
	if year > 0 {
		params.Set("year", fmt.Sprint(year))
	}
	resp, err := fetch[searchResponse[MovieResult]](ctx, c, "/search/movie", params)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// SearchTV searches series by name. year narrows on first air year when non-zero.
func (c *Client) SearchTV(ctx context.Context, query string, year int) ([]TVResult, error) {
	params := url.Values{"query": {query}}
	if year > 0 {
		params.Set("first_air_date_year", fmt.Sprint(year))
	}
	resp, err := fetch[searchResponse[TVResult]](ctx, c, "/search/tv", params)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Movie fetches movie details.
func (c *Client) Movie(ctx context.Context, id int) (*Movie, error) {
	m, err := fetch[Movie](ctx, c, fmt.Sprintf("/movie/%d", id), nil)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// TV fetches series details.
func (c *Client) TV(ctx context.Context, id int) (*TV, error) {
	t, err := fetch[TV](ctx, c, fmt.Sprintf("/tv/%d", id), nil)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Lookup resolves a parsed release name to the best matching title: the
// first search hit, fetched in full. It returns a NOT_FOUND error when the
// search is empty.
func (c *Client) Lookup(ctx context.Context, name ReleaseName) (*Details, error) {
	if name.IsTV() {
		results, err := c.SearchTV(ctx, name.Title, name.Year)
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			return nil, domainerrors.NotFoundf("no tmdb series matches %q", name.Title)
		}
		tv, err := c.TV(ctx, results[0].ID)
		if err != nil {
			return nil, err
		}
		return tv.details(), nil
	}

	results, err := c.SearchMovie(ctx, name.Title, name.Year)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, domainerrors.NotFoundf("no tmdb movie matches %q", name.Title)
	}
	m, err := c.Movie(ctx, results[0].ID)
	if err != nil {
		return nil, err
	}
	return m.details(), nil
}

// fetch runs a cached GET and decodes the body into T.
func fetch[T any](ctx context.Context, c *Client, path string, params url.Values) (T, error) {
	if params == nil {
		params = url.Values{}
	}
	if c.language != "" {
		params.Set("language", c.language)
	}
	key := "tmdb:" + path + "?" + params.Encode()

	return cache.Remember(c.cache, key, func() (T, error) {
		var out T
		if err := c.get(ctx, path, params, &out); err != nil {
			return out, err
		}
		return out, nil
	})
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dest any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("tmdb request", "path", path, "query", params.Get("query"))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domainerrors.Wrapf(err, domainerrors.CodeUpstream, "tmdb request %s", path)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domainerrors.NotFoundf("tmdb %s not found", path)
	case resp.StatusCode == http.StatusUnauthorized:
		return domainerrors.Unavailablef("tmdb rejected the api key")
	case resp.StatusCode != http.StatusOK:
		return domainerrors.Upstreamf("tmdb %s: status %d", path, resp.StatusCode)
	}

	if err := json.UnmarshalRead(resp.Body, dest); err != nil {
		return domainerrors.Wrapf(err, domainerrors.CodeUpstream, "parse tmdb response %s", path)
	}
	return nil
}
