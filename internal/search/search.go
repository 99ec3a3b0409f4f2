// Package search wraps a single natural-language query against a
// web-search-capable model endpoint: throttle, call, parse, retry.
//
// The throttle is a shared rate limiter waited on before every attempt —
// including the first — so the aggregate request rate stays under the
// configured ceiling no matter how many workers run concurrently. Retry
// delays are separate from the throttle: fixed for parse and generic API
// failures, escalating linearly for rate-limit rejections.
package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/lead"
	"github.com/sells-group/leadgen-cli/internal/llmjson"
	"github.com/sells-group/leadgen-cli/pkg/groq"
)

// Provider issues one prompt to a model endpoint and returns its raw text.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// Options configures the search client.
type Options struct {
	// Attempts is the total attempt cap per work item, including the first.
	Attempts int
	// RetryDelay is the fixed sleep between attempts. Rate-limit failures
	// sleep RetryDelay scaled by the attempt number instead.
	RetryDelay time.Duration
	// Throttle is the fixed pre-request delay applied before every call.
	Throttle time.Duration
}

// Client executes throttled, retried searches against a Provider.
// It is safe for concurrent use; all callers share one throttle.
type Client struct {
	provider   Provider
	limiter    *rate.Limiter
	attempts   int
	retryDelay time.Duration
}

// New creates a search client.
func New(p Provider, opts Options) *Client {
	if opts.Attempts <= 0 {
		opts.Attempts = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 10 * time.Second
	}

	limit := rate.Inf
	if opts.Throttle > 0 {
		limit = rate.Every(opts.Throttle)
	}

	return &Client{
		provider:   p,
		limiter:    rate.NewLimiter(limit, 1),
		attempts:   opts.Attempts,
		retryDelay: opts.RetryDelay,
	}
}

// Outcome is the terminal result of one search work item. Exactly one
// Outcome is produced per call, whatever happens inside the retry loop.
type Outcome struct {
	Status lead.Status
	Text   string // raw model reply from the last attempt, empty on api_error
	Err    error  // terminal error for parse_error and api_error
}

// Object searches and decodes an object-shaped reply into T.
func Object[T any](ctx context.Context, c *Client, prompt string) (T, Outcome) {
	var out T
	oc := c.search(ctx, prompt, func(text string) error {
		return llmjson.Object(text, &out)
	})
	return out, oc
}

// Array searches and decodes an array-shaped reply into a slice of T.
func Array[T any](ctx context.Context, c *Client, prompt string) ([]T, Outcome) {
	var out []T
	oc := c.search(ctx, prompt, func(text string) error {
		return llmjson.Array(text, &out)
	})
	return out, oc
}

func (c *Client) search(ctx context.Context, prompt string, parse func(string) error) Outcome {
	var (
		lastErr  error
		lastText string
	)

	for attempt := 1; attempt <= c.attempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			lastErr = err
			break
		}

		text, err := c.provider.Complete(ctx, prompt)
		if err != nil {
			lastErr = err
			lastText = ""
			if attempt == c.attempts || ctx.Err() != nil {
				break
			}
			delay := c.retryDelay
			if rateLimited(err) {
				delay = c.retryDelay * time.Duration(attempt)
			}
			if !sleep(ctx, delay) {
				break
			}
			continue
		}

		if perr := parse(text); perr != nil {
			lastErr = perr
			lastText = text
			if attempt == c.attempts || ctx.Err() != nil {
				break
			}
			if !sleep(ctx, c.retryDelay) {
				break
			}
			continue
		}

		return Outcome{Status: lead.StatusSuccess, Text: text}
	}

	var pe *llmjson.ParseError
	if errors.As(lastErr, &pe) {
		return Outcome{Status: lead.StatusParseError, Text: lastText, Err: lastErr}
	}
	return Outcome{Status: lead.StatusAPIError, Err: lastErr}
}

// rateLimited checks for a structural HTTP 429 first, then falls back to
// the loose signal matching the pipeline has always used: "rate"/"429"
// anywhere in the error text.
func rateLimited(err error) bool {
	if err == nil {
		return false
	}
	if groq.IsRateLimit(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate") || strings.Contains(msg, "429")
}

// sleep waits for d or until ctx is done; reports whether the full delay
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
