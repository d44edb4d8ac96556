package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// DuckDuckGoEndpoint is the lite HTML interface, which is stable to scrape.
const DuckDuckGoEndpoint = "https://lite.duckduckgo.com/lite/"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ddgLimiter holds every DuckDuckGo instance in the process to 1 query per second.
var ddgLimiter = rate.NewLimiter(rate.Every(time.Second), 1)

// DuckDuckGo implements a searcher using DuckDuckGo's HTML lite interface.
type DuckDuckGo struct {
	Endpoint string
	client   *http.Client
}

// NewDuckDuckGo creates a DuckDuckGo searcher with a modest timeout.
func NewDuckDuckGo() *DuckDuckGo {
	return NewDuckDuckGoWithClient(&http.Client{Timeout: 15 * time.Second})
}

// NewDuckDuckGoWithClient creates a DuckDuckGo searcher using the supplied HTTP client.
func NewDuckDuckGoWithClient(client *http.Client) *DuckDuckGo {
	return &DuckDuckGo{Endpoint: DuckDuckGoEndpoint, client: client}
}

// Search scrapes the lite results page and renders the hits as cited prose.
func (d *DuckDuckGo) Search(ctx context.Context, query string) (string, error) {
	results, err := d.Results(ctx, query)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", emptyResults("duckduckgo", query)
	}
	return Render(results), nil
}

// Results returns the raw hits for query.
func (d *DuckDuckGo) Results(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("duckduckgo: query is empty")
	}
	if err := ddgLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("q", query)

	resp, err := doWithBackoff(ctx, d.client, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.Endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo http %d", resp.StatusCode)
	}
	return parseLiteResults(resp.Body)
}

// parseLiteResults extracts result links and their snippets from the lite page.
func parseLiteResults(r io.Reader) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: parse html: %w", err)
	}

	var snippets []string
	doc.Find("td.result-snippet").Each(func(_ int, s *goquery.Selection) {
		snippets = append(snippets, collapse(s.Text()))
	})

	var results []Result
	doc.Find("a.result-link").EachWithBreak(func(i int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		link := resolveRedirect(href)
		title := collapse(s.Text())
		if link == "" || title == "" {
			return true
		}
		res := Result{Title: title, URL: link}
		if i < len(snippets) {
			res.Snippet = snippets[i]
		}
		results = append(results, res)
		return len(results) < maxResults
	})

	if len(results) == 0 {
		results = fallbackLinks(doc)
	}
	return results, nil
}

// fallbackLinks collects external links when the result markup is missing.
func fallbackLinks(doc *goquery.Document) []Result {
	var results []Result
	seen := make(map[string]bool)
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		link := resolveRedirect(href)
		title := collapse(s.Text())
		if link == "" || strings.Contains(link, "duckduckgo.com") || len(title) < 5 || seen[link] {
			return true
		}
		seen[link] = true
		results = append(results, Result{Title: title, URL: link})
		return len(results) < maxResults
	})
	return results
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links and drops
// anything that is not an absolute http(s) URL.
func resolveRedirect(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" && strings.HasSuffix(u.Host, "duckduckgo.com") {
		return target
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return href
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
