// Package onthisday fetches historical events for a calendar date from the
// Wikipedia "on this day" feed and renders a random selection of them as a
// chat message.
package onthisday

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the English Wikipedia "on this day" feed.
	DefaultBaseURL = "https://en.wikipedia.org/api/rest_v1/feed/onthisday"

	// DefaultUserAgent identifies the bot to the Wikimedia REST API.
	DefaultUserAgent = "onthisdaybot/1.0 (https://github.com/eliseohh/onthisdaybot)"

	defaultTimeout = 15 * time.Second
)

// Event is one historical record from the feed. Nil fields were absent
// (or null) in the response.
type Event struct {
	Year *int    `json:"year"`
	Text *string `json:"text"`
}

// FetchError reports a failed feed request: transport failure, non-2xx
// status, malformed JSON or a response without an events list.
type FetchError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("onthisday: %s %s: HTTP %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("onthisday: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// errNoEvents is wrapped by FetchError when the body lacks an events list.
var errNoEvents = errors.New("response has no events field")

// Client talks to the feed. It holds no mutable state and is safe for
// concurrent use.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a feed client. Empty arguments fall back to
// DefaultBaseURL and DefaultUserAgent.
func NewClient(baseURL, userAgent string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// eventsResponse mirrors the part of the feed payload we use. A nil
// Events slice means the field was missing.
type eventsResponse struct {
	Events []Event `json:"events"`
}

// EventsURL returns the request URL for the given date.
func (c *Client) EventsURL(month time.Month, day int) string {
	return fmt.Sprintf("%s/events/%d/%d", c.baseURL, int(month), day)
}

// Events returns the batch of events recorded for month/day. Every
// failure is a *FetchError.
func (c *Client) Events(ctx context.Context, month time.Month, day int) ([]Event, error) {
	reqURL := c.EventsURL(month, day)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{Op: "build request", URL: reqURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Op: "request", URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &FetchError{
			Op:         "request",
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(body))),
		}
	}

	var er eventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, &FetchError{Op: "decode response", URL: reqURL, Err: err}
	}
	if er.Events == nil {
		return nil, &FetchError{Op: "decode response", URL: reqURL, Err: errNoEvents}
	}

	return er.Events, nil
}

// Probe checks that the feed answers for the date of now and returns the
// first event as a sample.
func (c *Client) Probe(ctx context.Context, now time.Time) (Event, error) {
	events, err := c.Events(ctx, now.Month(), now.Day())
	if err != nil {
		return Event{}, err
	}
	if len(events) == 0 {
		return Event{}, fmt.Errorf("onthisday: feed returned an empty list for %s %d", now.Month(), now.Day())
	}
	return events[0], nil
}
