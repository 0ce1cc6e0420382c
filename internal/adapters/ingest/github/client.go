// Package github probes raw.githubusercontent.com for a repository's
// license file by walking the candidate name matrix
package github

import (
	"context"
	"io"
	"net/http"
	"time"

	perr "licorice/internal/platform/errors"
	"licorice/internal/platform/logger"
)

const (
	baseURLDefault   = "https://raw.githubusercontent.com"
	defaultTimeout   = 10 * time.Second
	defaultUA        = "licorice-scan"
	defaultMaxRetry  = 4
	defaultRetryBase = 500 * time.Millisecond
	defaultMaxBytes  = 512 << 10
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// Retry config for transient and rate limited responses
	MaxRetries int
	RetryBase  time.Duration

	// MaxBytes caps how much of a found file is read
	MaxBytes int64
}

// Client is a minimal raw-content fetcher with retries and backoff
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	sleep func(time.Duration)
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = defaultMaxBytes
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("github"),
		sleep: time.Sleep,
	}
}

// fetch GETs path off the raw base. found is false on 404 so the probe can
// move on to the next candidate without treating absence as a failure
func (c *Client) fetch(ctx context.Context, path string) (body []byte, found bool, err error) {
	url := c.opts.BaseURL + path
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, false, perr.Wrapf(err, perr.ErrorCodeUnknown, "github new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			if !c.shouldRetry(attempts) {
				return nil, false, perr.Wrapf(err, perr.ErrorCodeUnavailable, "github fetch failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("github transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		c.log.Debug().
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", time.Since(start)).
			Msg("github raw response")

		switch resp.StatusCode {
		case http.StatusOK:
			b, rerr := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxBytes))
			_ = resp.Body.Close()
			if rerr != nil {
				return nil, false, perr.Wrapf(rerr, perr.ErrorCodeUnknown, "github read body failed")
			}
			return b, true, nil

		case http.StatusNotFound:
			_ = drainAndClose(resp.Body)
			return nil, false, nil

		case http.StatusTooManyRequests,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			_ = drainAndClose(resp.Body)
			if !c.shouldRetry(attempts) {
				return nil, false, perr.Unavailablef("github transient status %d", resp.StatusCode)
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Int("status", resp.StatusCode).
				Msg("github transient status retrying")
			c.sleep(back)
			attempts++
			continue

		default:
			tail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return nil, false, perr.Newf(perr.ErrorCodeUnknown,
				"github unexpected status %d body %s", resp.StatusCode, string(tail))
		}
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase
	// simple exponential with cap
	ms := int64(d / time.Millisecond)
	ms = ms << uint(attempt)
	max := int64(30 * time.Second / time.Millisecond)
	if ms > max {
		ms = max
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 4096))
	return rc.Close()
}
