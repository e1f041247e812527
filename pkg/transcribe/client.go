// ABOUTME: HTTP client for the transcription service
// ABOUTME: Posts clips with retries on transient failures
package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio"
)

// Config configures the transcription client
type Config struct {
	BaseURL string
	Timeout time.Duration // default 5m
	Retries int           // default 2, negative disables
}

// Client posts clips to a transcription service
type Client struct {
	cfg         Config
	client      *http.Client
	backoffBase time.Duration // tests override
}

// NewClient creates a new transcription client
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	} else if cfg.Retries == 0 {
		cfg.Retries = 2
	}
	return &Client{
		cfg:         cfg,
		backoffBase: time.Second,
		client:      &http.Client{Timeout: cfg.Timeout},
	}
}

// BaseURL returns the configured service URL
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// Transcribe uploads clip and parses the reply. Network errors and 5xx
// responses are retried with exponential backoff.
func (c *Client) Transcribe(ctx context.Context, clip audio.Clip) (*Response, error) {
	if clip.Empty() {
		return nil, errors.New("no audio to transcribe")
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.Retries; attempt++ {
		if attempt > 0 {
			backoff := c.backoff(attempt)
			log.Printf("Transcription attempt %d failed, retrying in %v: %v", attempt, backoff, lastErr)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := c.do(ctx, clip)
		if err == nil {
			return resp, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("transcription failed after %d attempts: %w", c.cfg.Retries+1, lastErr)
}

func (c *Client) do(ctx context.Context, clip audio.Clip) (*Response, error) {
	req, err := NewRequest(ctx, c.cfg.BaseURL, clip)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &retryableError{err: fmt.Errorf("http request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &retryableError{err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode >= 500 {
		return nil, &retryableError{err: &StatusError{Code: resp.StatusCode, Body: truncate(body, 200)}}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: truncate(body, 200)}
	}

	var parsed Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &parsed, nil
}

// StatusError reports a non-2xx reply
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Server error: %d", e.Code)
}

// retryableError wraps errors that should trigger a retry
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

// backoff returns base * 2^(attempt-1) plus up to 25% jitter
func (c *Client) backoff(attempt int) time.Duration {
	base := c.backoffBase
	if base <= 0 {
		base = time.Second
	}
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	jitter := time.Duration(rand.Int63n(int64(delay/4) + 1))
	return delay + jitter
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
