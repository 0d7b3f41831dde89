// Package imagehost uploads screenshots to a Chevereto-compatible image host.
package imagehost

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	domainerrors "github.com/relprep/relprep/internal/errors"
	"github.com/relprep/relprep/internal/logger"
	"github.com/relprep/relprep/internal/ratelimit"
)

// Image is an uploaded image.
type Image struct {
	URL   string `json:"url"`
	Thumb string `json:"thumb,omitempty"`
}

// Client uploads images.
type Client struct {
	endpoint   string
	apiKey     string
	host       string
	httpClient *http.Client
	limiter    *ratelimit.KeyedRateLimiter
	logger     *logger.Logger
}

// NewClient creates a client for the upload endpoint. limiter is keyed by
// host so that several clients share one budget per host.
func NewClient(endpoint, apiKey string, limiter *ratelimit.KeyedRateLimiter, log *logger.Logger) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return nil, domainerrors.Validationf("invalid image host url %q", endpoint)
	}
	if limiter == nil {
		limiter = ratelimit.New(1, 2)
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		host:       u.Host,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		limiter:    limiter,
		logger:     log.Component("imagehost"),
	}, nil
}

type uploadResponse struct {
	StatusCode int `json:"status_code"`
	Image      struct {
		URL   string `json:"url"`
		Thumb struct {
			URL string `json:"url"`
		} `json:"thumb"`
	} `json:"image"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the file at path as the "source" form field.
func (c *Client) Upload(ctx context.Context, path string) (*Image, error) {
	body, contentType, err := formBody(path)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx, c.host); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeUpstream, "upload %s", filepath.Base(path))
	}
	defer resp.Body.Close()

	var out uploadResponse
	if err := json.UnmarshalRead(io.LimitReader(resp.Body, 1<<20), &out); err != nil {
		return nil, domainerrors.Upstreamf("image host returned status %d with an unreadable body", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK || out.Image.URL == "" {
		msg := out.Error.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, domainerrors.Upstreamf("image host rejected %s: %s", filepath.Base(path), msg)
	}

	c.logger.Debug("image uploaded", "path", path, "url", out.Image.URL)
	return &Image{URL: out.Image.URL, Thumb: out.Image.Thumb.URL}, nil
}

func formBody(path string) (io.Reader, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", domainerrors.Wrapf(err, domainerrors.CodeNotFound, "open %s", path)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("source", filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
