// Command feedcheck requests today's events from the configured feed and
// prints the first one. It exits non-zero when the feed is unusable.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/eliseohh/onthisdaybot/internal/config"
	"github.com/eliseohh/onthisdaybot/internal/onthisday"
)

func main() {
	cfg, _, err := config.FromEnv()
	if err != nil {
		fmt.Printf("❌ Config error: %v\n", err)
		os.Exit(1)
	}

	client := onthisday.NewClient(cfg.Feed.BaseURL, cfg.Feed.UserAgent)
	now := time.Now()
	fmt.Printf("Test request to API: %s\n", client.EventsURL(now.Month(), now.Day()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	e, err := client.Probe(ctx, now)
	if err != nil {
		fmt.Printf("❌ Error testing API: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✔ API is working! Example event: %s\n", onthisday.FormatEvent(e))
}
