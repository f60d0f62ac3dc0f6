package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v3"

	"github.com/eliseohh/onthisdaybot/internal/metrics"
	"github.com/eliseohh/onthisdaybot/internal/onthisday"
	"github.com/eliseohh/onthisdaybot/internal/stats"
)

// EventSource produces the reply for an event request.
type EventSource interface {
	Today(ctx context.Context, count int) onthisday.Report
}

// UsageStore persists request accounting for /status.
type UsageStore interface {
	Record(ctx context.Context, u stats.Usage) error
	Summary(ctx context.Context) (stats.Summary, error)
}

// Bot is the application context shared by every handler. It is built
// once at startup.
type Bot struct {
	api     *tele.Bot
	events  EventSource
	usage   UsageStore // nil when stats are disabled
	metrics *metrics.Metrics
	logger  *slog.Logger

	menu   *tele.ReplyMarkup
	routes map[string]tele.HandlerFunc
}

type Config struct {
	Token       string
	PollTimeout time.Duration
}

// New connects to Telegram and registers the dispatcher. usage and m may
// be nil.
func New(cfg Config, events EventSource, usage UsageStore, m *metrics.Metrics, logger *slog.Logger) (*Bot, error) {
	bot := newBot(events, usage, m, logger)

	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: cfg.PollTimeout},
		OnError: func(err error, c tele.Context) {
			bot.logger.Error("telegram handler failed", "error", err)
		},
	}

	api, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}

	bot.api = api
	bot.register()
	return bot, nil
}

func newBot(events EventSource, usage UsageStore, m *metrics.Metrics, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bot{
		events:  events,
		usage:   usage,
		metrics: m,
		logger:  logger,
		menu:    mainMenu(),
	}
	b.routes = b.routeTable()
	return b
}

// Start polls for updates until Stop is called.
func (b *Bot) Start() {
	b.logger.Info("bot started", "username", b.api.Me.Username)
	b.api.Start()
}

func (b *Bot) Stop() {
	b.api.Stop()
}

// register hands every text and media message to dispatch, which owns
// the routing table.
func (b *Bot) register() {
	b.api.Handle(tele.OnText, b.dispatch)
	b.api.Handle(tele.OnMedia, b.dispatch)
}

func (b *Bot) routeTable() map[string]tele.HandlerFunc {
	return map[string]tele.HandlerFunc{
		"/start":        b.handleStart,
		"/help":         b.handleHelp,
		LabelHelp:       b.handleHelp,
		"/today":        b.eventsHandler("/today", 1),
		LabelOneEvent:   b.eventsHandler(LabelOneEvent, 1),
		LabelFiveEvents: b.eventsHandler(LabelFiveEvents, 5),
		LabelTenEvents:  b.eventsHandler(LabelTenEvents, 10),
		"/status":       b.handleStatus,
	}
}

// routeKey normalizes message text to a routing key: commands lose their
// payload and "@BotName" suffix, labels are matched as-is.
func routeKey(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	cmd := strings.Fields(text)[0]
	cmd, _, _ = strings.Cut(cmd, "@")
	return strings.ToLower(cmd)
}

// resolve returns the metrics label and handler for text. Unknown input
// maps to the catch-all reply.
func (b *Bot) resolve(text string) (string, tele.HandlerFunc) {
	key := routeKey(text)
	if h, ok := b.routes[key]; ok {
		return key, h
	}
	return "unknown", b.handleUnknown
}

func (b *Bot) dispatch(c tele.Context) error {
	var text string
	if m := c.Message(); m != nil {
		text = m.Text
	}
	key, h := b.resolve(text)
	b.metrics.IncCommand(key)
	return h(c)
}

func (b *Bot) handleStart(c tele.Context) error {
	return c.Send(msgWelcome, b.menu)
}

func (b *Bot) handleHelp(c tele.Context) error {
	return c.Send(msgHelp, b.menu)
}

func (b *Bot) handleUnknown(c tele.Context) error {
	return c.Send(msgUnknown, b.menu)
}

// eventsHandler answers with count random events for today.
func (b *Bot) eventsHandler(command string, count int) tele.HandlerFunc {
	return func(c tele.Context) error {
		if err := c.Send(searchingNotice(count), b.menu); err != nil {
			return err
		}

		ctx := context.Background()
		id := uuid.NewString()

		r := b.events.Today(ctx, count)
		b.logger.Info("served events",
			"request_id", id,
			"command", command,
			"requested", r.Requested,
			"delivered", r.Delivered,
			"outcome", r.Outcome)

		b.recordUsage(ctx, stats.Usage{
			ID:        id,
			Command:   command,
			Requested: r.Requested,
			Delivered: r.Delivered,
			Outcome:   string(r.Outcome),
		})

		return c.Send(r.Text)
	}
}

func (b *Bot) recordUsage(ctx context.Context, u stats.Usage) {
	if b.usage == nil {
		return
	}
	if err := b.usage.Record(ctx, u); err != nil {
		b.logger.Warn("failed to record usage", "request_id", u.ID, "error", err)
	}
}

func (b *Bot) handleStatus(c tele.Context) error {
	if b.usage == nil {
		return c.Send(msgStatsDisabled)
	}
	s, err := b.usage.Summary(context.Background())
	if err != nil {
		b.logger.Warn("failed to read usage summary", "error", err)
		return c.Send(msgStatsError)
	}
	return c.Send(fmt.Sprintf("📊 Requests: %d\nEvents delivered: %d\nEmpty days: %d\nErrors: %d",
		s.Requests, s.Delivered, s.Empty, s.Errors))
}
