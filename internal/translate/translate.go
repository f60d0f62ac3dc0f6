// Package translate translates short texts through the Google Translate
// mobile page. Callers that must never fail use Fallback, which keeps the
// original text whenever translation does not succeed.
package translate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const DefaultBaseURL = "https://translate.google.com"

// resultClass marks the element holding the translation on the mobile page.
const resultClass = "result-container"

var errNoResult = errors.New("translate: no result in response")

// Translator turns text into another language.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

type Client struct {
	baseURL    string
	source     string
	target     string
	httpClient *http.Client
}

// NewClient creates a client translating from source to target language
// codes. Empty values default to Google, "ru" and "en".
func NewClient(baseURL, source, target string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if source == "" {
		source = "ru"
	}
	if target == "" {
		target = "en"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		source:  source,
		target:  target,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	params := url.Values{
		"sl": {c.source},
		"tl": {c.target},
		"q":  {text},
	}
	reqURL := c.baseURL + "/m?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("translate: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("translate: HTTP %d: %s", resp.StatusCode, string(body))
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("translate: parse response: %w", err)
	}

	n := findResult(doc)
	if n == nil {
		return "", errNoResult
	}
	out := strings.TrimSpace(textContent(n))
	if out == "" {
		return "", errNoResult
	}
	return out, nil
}

// Fallback translates text with t, returning text unchanged when t fails
// or text is blank.
func Fallback(ctx context.Context, t Translator, text string, logger *slog.Logger) string {
	if t == nil || strings.TrimSpace(text) == "" {
		return text
	}
	out, err := t.Translate(ctx, text)
	if err != nil {
		if logger != nil {
			logger.Error("error translating text", "error", err)
		}
		return text
	}
	return out
}

func findResult(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Div && hasClass(n, resultClass) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if r := findResult(c); r != nil {
			return r
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, f := range strings.Fields(a.Val) {
			if f == class {
				return true
			}
		}
	}
	return false
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}
