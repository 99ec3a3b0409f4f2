package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/lead"
	"github.com/sells-group/leadgen-cli/pkg/groq"
)

// fakeProvider returns scripted replies/errors in order, repeating the last.
type fakeProvider struct {
	replies []string
	errs    []error
	calls   int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, _ string) (string, error) {
	i := f.calls
	f.calls++
	if i >= len(f.replies) {
		i = len(f.replies) - 1
	}
	if f.errs != nil && f.errs[i] != nil {
		return "", f.errs[i]
	}
	return f.replies[i], nil
}

func fastOpts() Options {
	return Options{Attempts: 3, RetryDelay: time.Millisecond}
}

func TestObject_Success(t *testing.T) {
	p := &fakeProvider{replies: []string{"```json\n{\"phone\": \"0412345678\"}\n```"}}
	c := New(p, fastOpts())

	out, oc := Object[map[string]string](context.Background(), c, "find phone")
	assert.Equal(t, lead.StatusSuccess, oc.Status)
	assert.Equal(t, "0412345678", out["phone"])
	assert.Equal(t, 1, p.calls)
}

func TestObject_RetriesParseFailureThenSucceeds(t *testing.T) {
	p := &fakeProvider{replies: []string{
		"sorry, no JSON today",
		`{"phone": "0412345678"}`,
	}}
	c := New(p, fastOpts())

	out, oc := Object[map[string]string](context.Background(), c, "find phone")
	assert.Equal(t, lead.StatusSuccess, oc.Status)
	assert.Equal(t, "0412345678", out["phone"])
	assert.Equal(t, 2, p.calls)
}

func TestObject_ParseFailureExhaustsRetries(t *testing.T) {
	p := &fakeProvider{replies: []string{"still not JSON"}}
	c := New(p, fastOpts())

	_, oc := Object[map[string]string](context.Background(), c, "find phone")
	assert.Equal(t, lead.StatusParseError, oc.Status)
	assert.Equal(t, "still not JSON", oc.Text)
	require.Error(t, oc.Err)
	assert.Equal(t, 3, p.calls)
}

func TestObject_APIFailureExhaustsRetries(t *testing.T) {
	p := &fakeProvider{
		replies: []string{""},
		errs:    []error{errors.New("connection refused")},
	}
	c := New(p, fastOpts())

	_, oc := Object[map[string]string](context.Background(), c, "find phone")
	assert.Equal(t, lead.StatusAPIError, oc.Status)
	assert.Empty(t, oc.Text)
	require.Error(t, oc.Err)
	assert.Equal(t, 3, p.calls)
}

func TestObject_RateLimitThenSuccess(t *testing.T) {
	p := &fakeProvider{
		replies: []string{"", `{"ok": "yes"}`},
		errs:    []error{errors.New("groq: unexpected status 429: rate limit"), nil},
	}
	c := New(p, fastOpts())

	start := time.Now()
	out, oc := Object[map[string]string](context.Background(), c, "q")
	assert.Equal(t, lead.StatusSuccess, oc.Status)
	assert.Equal(t, "yes", out["ok"])
	assert.Equal(t, 2, p.calls)
	// Rate-limit delay scales with attempt number: 1×RetryDelay here.
	assert.GreaterOrEqual(t, time.Since(start), time.Millisecond)
}

func TestRateLimited_StructuralAPIError(t *testing.T) {
	tooMany := &groq.APIError{StatusCode: http.StatusTooManyRequests, Body: "slow down"}

	assert.True(t, rateLimited(tooMany))
	assert.True(t, rateLimited(fmt.Errorf("complete: %w", tooMany)))
	assert.False(t, rateLimited(&groq.APIError{StatusCode: http.StatusBadGateway, Body: "upstream"}))
	assert.False(t, rateLimited(errors.New("connection refused")))
}

func TestObject_StructuralRateLimitRetries(t *testing.T) {
	p := &fakeProvider{
		replies: []string{"", `{"ok": "yes"}`},
		errs:    []error{&groq.APIError{StatusCode: http.StatusTooManyRequests, Body: "slow down"}, nil},
	}
	c := New(p, fastOpts())

	out, oc := Object[map[string]string](context.Background(), c, "q")
	assert.Equal(t, lead.StatusSuccess, oc.Status)
	assert.Equal(t, "yes", out["ok"])
	assert.Equal(t, 2, p.calls)
}

func TestArray_Success(t *testing.T) {
	p := &fakeProvider{replies: []string{
		`Here are the agents: [{"name": "Jane Smith", "company": "Ray White"}]`,
	}}
	c := New(p, fastOpts())

	leads, oc := Array[lead.Lead](context.Background(), c, "find agents")
	assert.Equal(t, lead.StatusSuccess, oc.Status)
	require.Len(t, leads, 1)
	assert.Equal(t, "Jane Smith", leads[0].Name)
}

func TestThrottle_SpacesRequests(t *testing.T) {
	p := &fakeProvider{replies: []string{`{"a": "b"}`}}
	c := New(p, Options{Attempts: 1, RetryDelay: time.Millisecond, Throttle: 20 * time.Millisecond})

	// First request consumes the initial token; the next two wait.
	start := time.Now()
	for range 3 {
		_, oc := Object[map[string]string](context.Background(), c, "q")
		require.Equal(t, lead.StatusSuccess, oc.Status)
	}
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestSearch_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &fakeProvider{replies: []string{`{"a": "b"}`}}
	c := New(p, fastOpts())

	_, oc := Object[map[string]string](ctx, c, "q")
	assert.Equal(t, lead.StatusAPIError, oc.Status)
	assert.Zero(t, p.calls)
}
