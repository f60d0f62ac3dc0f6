package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eliseohh/onthisdaybot/internal/bot"
	"github.com/eliseohh/onthisdaybot/internal/config"
	"github.com/eliseohh/onthisdaybot/internal/metrics"
	"github.com/eliseohh/onthisdaybot/internal/onthisday"
	"github.com/eliseohh/onthisdaybot/internal/stats"
	"github.com/eliseohh/onthisdaybot/internal/translate"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	fmt.Println("==================================================")
	fmt.Println("'This Day in History' bot is starting...")

	// 1. Configuration
	cfg, cfgPath, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level, _ := config.ParseLogLevel(cfg.LogLevel)
	logger := config.NewLogger(os.Stdout, level, cfg.LogFormat)
	slog.SetDefault(logger)
	if cfgPath == "" {
		logger.Info("no config file found, using defaults")
	} else {
		logger.Info("config loaded", "path", cfgPath)
	}

	// 2. Usage store
	var usage bot.UsageStore
	if cfg.Stats.Path != "" {
		db, err := stats.NewDB(cfg.Stats.Path)
		if err != nil {
			return fmt.Errorf("open usage store: %w", err)
		}
		defer db.Close()
		usage = db
	}

	// 3. Metrics
	m := metrics.New()
	if cfg.Metrics.Address != "" {
		srv := metrics.NewServer(cfg.Metrics.Address, m)
		go func() {
			if err := srv.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("metrics listening", "address", cfg.Metrics.Address)
	}

	// 4. Feed check
	client := onthisday.NewClient(cfg.Feed.BaseURL, cfg.Feed.UserAgent)
	logger.Info("checking feed availability", "url", client.EventsURL(time.Now().Month(), time.Now().Day()))
	if e, err := client.Probe(ctx, time.Now()); err != nil {
		logger.Warn("feed check failed", "error", err)
	} else {
		logger.Info("feed is working", "sample", onthisday.FormatEvent(e))
	}

	opts := []onthisday.Option{onthisday.WithMetrics(m)}
	if cfg.Translate.Enabled {
		opts = append(opts, onthisday.WithTranslator(
			translate.NewClient(cfg.Translate.BaseURL, cfg.Translate.Source, cfg.Translate.Target)))
		logger.Info("event translation enabled", "source", cfg.Translate.Source, "target", cfg.Translate.Target)
	}
	svc := onthisday.NewService(client, logger, opts...)

	// 5. Bot
	b, err := bot.New(bot.Config{
		Token:       cfg.Telegram.Token,
		PollTimeout: cfg.Telegram.PollTimeout,
	}, svc, usage, m, logger)
	if err != nil {
		return fmt.Errorf("bot init failed: %w", err)
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		b.Stop()
	}()

	fmt.Println("🤖 Bot Online. Listening...")
	fmt.Println("==================================================")
	b.Start()
	return nil
}
