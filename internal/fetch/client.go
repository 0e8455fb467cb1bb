// Package fetch performs the single kind of network call the widgets make:
// an HTTP GET whose response body is JSON.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	simplejson "github.com/bitly/go-simplejson"

	"fetchwidgets/internal/logging"
)

// ErrStatus is wrapped by errors for non-2xx responses
var ErrStatus = errors.New("unexpected status")

// maxBody bounds how much of a response is read
const maxBody = 8 << 20

// Getter fetches a URL and decodes its JSON body
type Getter interface {
	GetJSON(ctx context.Context, url string) (*simplejson.Json, error)
}

// Client is the default Getter backed by net/http
type Client struct {
	http *http.Client
}

// NewClient creates a client whose requests are bounded by timeout
func NewClient(timeout time.Duration) *Client {
	t := &http.Transport{
		MaxIdleConns:      16,
		IdleConnTimeout:   90 * time.Second,
		ForceAttemptHTTP2: true,
	}
	return &Client{http: &http.Client{Transport: t, Timeout: timeout}}
}

// GetJSON issues a GET for url and decodes the body
func (c *Client) GetJSON(ctx context.Context, url string) (*simplejson.Json, error) {
	log := logging.For("fetch").WithField("url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	log.WithField("status", resp.StatusCode).
		WithField("duration", time.Since(start).String()).
		Debug("response received")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	js, err := simplejson.NewJson(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return js, nil
}

// Lookup resolves a dotted key path such as "data.users". An empty key
// returns js itself.
func Lookup(js *simplejson.Json, key string) (*simplejson.Json, bool) {
	if js == nil {
		return nil, false
	}
	if key == "" {
		return js, true
	}
	cur := js
	for _, part := range strings.Split(key, ".") {
		next, ok := cur.CheckGet(part)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Records returns the array at key as a slice of objects. A missing key or
// non-array value yields an empty slice; non-object elements are skipped.
func Records(js *simplejson.Json, key string) []map[string]any {
	node, ok := Lookup(js, key)
	if !ok {
		return []map[string]any{}
	}
	arr, err := node.Array()
	if err != nil {
		return []map[string]any{}
	}

	out := make([]map[string]any, 0, len(arr))
	for _, v := range arr {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Int returns the integer at key, or 0 when it is absent or not numeric
func Int(js *simplejson.Json, key string) int {
	node, ok := Lookup(js, key)
	if !ok {
		return 0
	}
	n, err := node.Int()
	if err != nil {
		return 0
	}
	return n
}
