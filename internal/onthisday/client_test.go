package onthisday

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientEvents(t *testing.T) {
	var gotPath, gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"events":[{"year":1990,"text":"A","pages":[]},{"text":"B"},{"year":2001}]}`)
	}))
	defer ts.Close()

	c := NewClient(ts.URL+"/feed/onthisday/", "test-agent")
	events, err := c.Events(context.Background(), time.March, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/feed/onthisday/events/3/4" {
		t.Errorf("path = %q", gotPath)
	}
	if gotUA != "test-agent" {
		t.Errorf("user agent = %q", gotUA)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Year == nil || *events[0].Year != 1990 || *events[0].Text != "A" {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].Year != nil {
		t.Errorf("second event should have no year, got %d", *events[1].Year)
	}
	if events[2].Text != nil {
		t.Errorf("third event should have no text, got %q", *events[2].Text)
	}
}

func TestClientEventsEmptyList(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"events":[]}`)
	}))
	defer ts.Close()

	events, err := NewClient(ts.URL, "").Events(context.Background(), time.July, 20)
	if err != nil {
		t.Fatalf("empty list is not an error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestClientEventsFailures(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream down", http.StatusInternalServerError)
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"events": [`)
			},
		},
		{
			name: "missing events field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"births":[]}`)
			},
		},
		{
			name: "null events field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"events":null}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			_, err := NewClient(ts.URL, "").Events(context.Background(), time.January, 1)
			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FetchError, got %T: %v", err, err)
			}
			if fe.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", fe.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestClientEventsUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := NewClient(url, "").Events(context.Background(), time.January, 1)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if fe.Unwrap() == nil {
		t.Error("transport error should be wrapped")
	}
}

func TestClientProbe(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/events/2/29" {
			fmt.Fprint(w, `{"events":[]}`)
			return
		}
		fmt.Fprint(w, `{"events":[{"year":1969,"text":"Apollo 11 lands on the Moon."},{"year":1,"text":"x"}]}`)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "")

	e, err := c.Probe(context.Background(), time.Date(2025, time.July, 20, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *e.Year != 1969 {
		t.Errorf("probe returned %+v, want the first event", e)
	}

	if _, err := c.Probe(context.Background(), time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)); err == nil {
		t.Error("expected error for empty list")
	}
}
