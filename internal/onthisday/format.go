package onthisday

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// User-facing messages.
const (
	NoEventsMessage = "Unfortunately, I couldn't find information about events that happened on this day."
	ErrorMessage    = "An error occurred while retrieving historical data. Please try again later."

	UnknownYear        = "Unknown year"
	UnknownDescription = "Description unavailable"
)

// Sample returns min(n, len(batch)) distinct events chosen uniformly at
// random. The batch is not modified.
func Sample(batch []Event, n int) []Event {
	k := min(n, len(batch))
	if k <= 0 {
		return nil
	}

	pool := make([]Event, len(batch))
	copy(pool, batch)

	// Partial Fisher-Yates: the first k slots end up holding the sample.
	for i := 0; i < k; i++ {
		j := i + rand.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

// FormatEvent renders a single event line. Missing fields are replaced by
// placeholders.
func FormatEvent(e Event) string {
	year := UnknownYear
	if e.Year != nil {
		year = strconv.Itoa(*e.Year)
	}
	text := UnknownDescription
	if e.Text != nil {
		text = *e.Text
	}
	return fmt.Sprintf("📅 Year %s: %s", year, text)
}

// Header names the calendar date in English, e.g. "🗓 Events on March 4:".
func Header(month time.Month, day int) string {
	return fmt.Sprintf("🗓 Events on %s %d:", month, day)
}

// Compose builds the reply for up to n random events of the batch.
func Compose(month time.Month, day int, batch []Event, n int) string {
	if len(batch) == 0 {
		return NoEventsMessage
	}
	return render(month, day, Sample(batch, n))
}

func render(month time.Month, day int, selected []Event) string {
	lines := make([]string, 0, len(selected))
	for _, e := range selected {
		lines = append(lines, FormatEvent(e))
	}
	return Header(month, day) + "\n\n" + strings.Join(lines, "\n\n")
}
