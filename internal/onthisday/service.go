package onthisday

import (
	"context"
	"log/slog"
	"time"

	"github.com/eliseohh/onthisdaybot/internal/metrics"
	"github.com/eliseohh/onthisdaybot/internal/translate"
)

// Fetcher returns the event batch for a calendar date.
type Fetcher interface {
	Events(ctx context.Context, month time.Month, day int) ([]Event, error)
}

// Outcome classifies how a request was answered.
type Outcome string

const (
	OutcomeOK    Outcome = "ok"
	OutcomeEmpty Outcome = "empty"
	OutcomeError Outcome = "error"
)

// Report is the result of one fetch-and-format pass.
type Report struct {
	Text      string
	Requested int
	Delivered int
	Outcome   Outcome
}

// Service runs the fetch-and-format path for the current date.
type Service struct {
	fetcher    Fetcher
	translator translate.Translator
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithTranslator passes every selected event text through t. Failed
// translations keep the original text.
func WithTranslator(t translate.Translator) Option {
	return func(s *Service) { s.translator = t }
}

// WithMetrics records fetch outcomes and latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the source of the current date.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service reading from f.
func NewService(f Fetcher, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		fetcher: f,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns up to count random events that happened on today's date.
// Fetch failures are logged and reported as ErrorMessage; Today never
// returns an error.
func (s *Service) Today(ctx context.Context, count int) Report {
	today := s.now()
	month, day := today.Month(), today.Day()

	start := time.Now()
	batch, err := s.fetcher.Events(ctx, month, day)
	s.metrics.ObserveFetch(time.Since(start), err)
	if err != nil {
		s.logger.Error("failed to fetch events", "month", int(month), "day", day, "error", err)
		return Report{Text: ErrorMessage, Requested: count, Outcome: OutcomeError}
	}

	if len(batch) == 0 {
		return Report{Text: NoEventsMessage, Requested: count, Outcome: OutcomeEmpty}
	}

	selected := Sample(batch, count)
	if s.translator != nil {
		selected = s.translateAll(ctx, selected)
	}

	s.metrics.AddDelivered(len(selected))
	return Report{
		Text:      render(month, day, selected),
		Requested: count,
		Delivered: len(selected),
		Outcome:   OutcomeOK,
	}
}

func (s *Service) translateAll(ctx context.Context, events []Event) []Event {
	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = e
		if e.Text != nil {
			text := translate.Fallback(ctx, s.translator, *e.Text, s.logger)
			out[i].Text = &text
		}
	}
	return out
}
