package jobs

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

const (
	maxDescriptionChars = 20000
	scrapeUserAgent     = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
)

// Scraper pulls the readable text of a job posting page.
type Scraper struct {
	Timeout time.Duration
}

// FetchDescription visits pageURL and returns its visible text, preferring
// the main content region over the whole body.
func (s *Scraper) FetchDescription(ctx context.Context, pageURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return "", ErrInvalidURL
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	c := colly.NewCollector(
		colly.AllowedDomains(u.Hostname()),
		colly.UserAgent(scrapeUserAgent),
		colly.MaxBodySize(5<<20),
	)
	c.SetRequestTimeout(timeout)

	var title, main, body string
	var reqErr error

	c.OnHTML("title", func(e *colly.HTMLElement) {
		if title == "" {
			title = collapse(e.Text)
		}
	})
	c.OnHTML("main, article, [role=main]", func(e *colly.HTMLElement) {
		if main == "" {
			main = visibleText(e)
		}
	})
	c.OnHTML("body", func(e *colly.HTMLElement) {
		body = visibleText(e)
	})
	c.OnError(func(_ *colly.Response, err error) {
		reqErr = err
	})

	if err := c.Visit(u.String()); err != nil {
		return "", fmt.Errorf("fetch description: %w", err)
	}
	c.Wait()
	if reqErr != nil {
		return "", fmt.Errorf("fetch description: %w", reqErr)
	}

	text := main
	if text == "" {
		text = body
	}
	if text == "" {
		text = title
	}
	if len(text) > maxDescriptionChars {
		text = strings.ToValidUTF8(text[:maxDescriptionChars], "")
	}
	return text, nil
}

func visibleText(e *colly.HTMLElement) string {
	sel := e.DOM.Clone()
	sel.Find("script, style, noscript, nav, header, footer, svg").Remove()
	return collapse(sel.Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
