package onthisday

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func ev(year int, text string) Event {
	return Event{Year: &year, Text: &text}
}

func makeBatch(n int) []Event {
	batch := make([]Event, n)
	for i := range batch {
		batch[i] = ev(1900+i, "event "+string(rune('A'+i%26)))
	}
	return batch
}

func TestSampleSize(t *testing.T) {
	for _, m := range []int{0, 1, 3, 5, 10, 40} {
		for _, n := range []int{1, 5, 10} {
			got := Sample(makeBatch(m), n)
			if want := min(n, m); len(got) != want {
				t.Errorf("Sample(m=%d, n=%d) returned %d events, want %d", m, n, len(got), want)
			}
		}
	}
	if got := Sample(makeBatch(3), 0); len(got) != 0 {
		t.Errorf("n=0 should select nothing, got %d", len(got))
	}
}

func TestSampleDistinctMembers(t *testing.T) {
	batch := makeBatch(12)
	members := make(map[*int]bool, len(batch))
	for _, e := range batch {
		members[e.Year] = true
	}

	for i := 0; i < 200; i++ {
		got := Sample(batch, 10)
		seen := make(map[*int]bool)
		for _, e := range got {
			if !members[e.Year] {
				t.Fatalf("sampled event %d is not from the batch", *e.Year)
			}
			if seen[e.Year] {
				t.Fatalf("event %d sampled twice", *e.Year)
			}
			seen[e.Year] = true
		}
	}
}

func TestSampleDoesNotMutateBatch(t *testing.T) {
	batch := makeBatch(8)
	before := make([]Event, len(batch))
	copy(before, batch)

	for i := 0; i < 20; i++ {
		Sample(batch, 5)
	}
	for i := range batch {
		if batch[i].Year != before[i].Year {
			t.Fatalf("batch reordered at %d", i)
		}
	}
}

func TestSampleReachesEveryEvent(t *testing.T) {
	batch := makeBatch(5)
	hits := make(map[int]int)
	for i := 0; i < 2000; i++ {
		hits[*Sample(batch, 1)[0].Year]++
	}
	if len(hits) != len(batch) {
		t.Errorf("expected all %d events to be drawn at least once, got %v", len(batch), hits)
	}
}

func TestFormatEvent(t *testing.T) {
	text := "Only text"
	year := -44

	tests := []struct {
		name string
		in   Event
		want string
	}{
		{"complete", ev(1990, "A"), "📅 Year 1990: A"},
		{"negative year", Event{Year: &year, Text: &text}, "📅 Year -44: Only text"},
		{"missing year", Event{Text: &text}, "📅 Year Unknown year: Only text"},
		{"missing text", Event{Year: &year}, "📅 Year -44: Description unavailable"},
		{"empty", Event{}, "📅 Year Unknown year: Description unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatEvent(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHeaderMonthNames(t *testing.T) {
	names := []string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"}
	for i, name := range names {
		got := Header(time.Month(i+1), 15)
		if want := "🗓 Events on " + name + " 15:"; got != want {
			t.Errorf("month %d: got %q, want %q", i+1, got, want)
		}
	}
}

func TestComposeEmpty(t *testing.T) {
	if got := Compose(time.May, 1, nil, 5); got != NoEventsMessage {
		t.Errorf("got %q", got)
	}
}

var lineRE = regexp.MustCompile(`^📅 Year (\d+): ([ABC])$`)

func TestComposeClampsToBatch(t *testing.T) {
	batch := []Event{ev(1990, "A"), ev(1985, "B"), ev(2001, "C")}
	want := map[string]string{"A": "1990", "B": "1985", "C": "2001"}

	out := Compose(time.October, 15, batch, 5)

	header, body, ok := strings.Cut(out, "\n\n")
	if !ok {
		t.Fatalf("missing header separator in %q", out)
	}
	if header != "🗓 Events on October 15:" {
		t.Errorf("header = %q", header)
	}

	lines := strings.Split(body, "\n\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 event lines, got %d: %q", len(lines), body)
	}
	seen := make(map[string]bool)
	for _, line := range lines {
		m := lineRE.FindStringSubmatch(line)
		if m == nil {
			t.Fatalf("line %q does not match the event format", line)
		}
		if want[m[2]] != m[1] {
			t.Errorf("line %q pairs the wrong year and text", line)
		}
		seen[m[2]] = true
	}
	if len(seen) != 3 {
		t.Errorf("expected each event once, got %v", seen)
	}
}
