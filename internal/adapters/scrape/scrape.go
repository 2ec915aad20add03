// Package scrape captures the remote leaderboard page and extracts it
// into a snapshot. A capture is all-or-nothing: any row that fails to
// parse spoils the whole capture, never producing a partial snapshot.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/hdwatch/internal/domain/model"
	"github.com/okian/hdwatch/pkg/metrics"
)

// Default scraper configuration constants.
const (
	defaultURL     = "https://hyprd.mn/leaderboards"
	defaultTimeout = 30 * time.Second

	// rowSelector matches ranked rows; the site interleaves a spacer
	// row after each ranked one, so extraction takes every second match.
	rowSelector = ".leaderboard > tbody > tr"
)

// Scraper captures the leaderboard over HTTP.
type Scraper struct {
	url    string
	client *http.Client
}

// NewScraper creates a scraper with configuration options.
func NewScraper(opts ...Option) *Scraper {
	s := &Scraper{
		url: defaultURL,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		s.client = &http.Client{Timeout: defaultTimeout}
	}

	return s
}

// Capture fetches the page and extracts a full snapshot stamped with
// the capture instant.
func (s *Scraper) Capture(ctx context.Context) (model.Snapshot, error) {
	start := time.Now()
	defer func() {
		metrics.RecordScrapeLatency(time.Since(start))
	}()

	ts := start.Truncate(time.Second)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %v", ErrCapture, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %v", ErrCapture, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Snapshot{}, fmt.Errorf("%w: unexpected status %s", ErrCapture, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %v", ErrCapture, err)
	}

	entries, err := extractEntries(doc)
	if err != nil {
		return model.Snapshot{}, err
	}

	return model.Snapshot{Timestamp: ts, Entries: entries}, nil
}

// extractEntries walks the ranked rows in page order.
func extractEntries(doc *goquery.Document) ([]model.Entry, error) {
	var (
		entries []model.Entry
		rowErr  error
	)

	doc.Find(rowSelector).EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i%2 == 1 {
			// Spacer row.
			return true
		}
		e, err := parseRow(row)
		if err != nil {
			rowErr = fmt.Errorf("row %d: %w", i, err)
			return false
		}
		entries = append(entries, e)
		return true
	})

	if rowErr != nil {
		return nil, rowErr
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: selector %q matched nothing", ErrNoResult, rowSelector)
	}
	return entries, nil
}

// parseRow extracts one entry from a ranked row. Cell layout: an icon
// cell, the rank text, an anchor to the user page carrying the display
// name, and an anchor to the run page carrying the score.
func parseRow(row *goquery.Selection) (model.Entry, error) {
	cells := row.Children()
	if cells.Length() < 4 {
		return model.Entry{}, fmt.Errorf("%w: expected 4 cells, found %d", ErrNoResult, cells.Length())
	}

	rank, err := strconv.ParseUint(strings.TrimSpace(cells.Eq(1).Text()), 10, 16)
	if err != nil {
		return model.Entry{}, fmt.Errorf("%w: rank: %v", ErrNoResult, err)
	}

	userLink := cells.Eq(2).Find("a").First()
	name := strings.TrimSpace(userLink.Text())
	if name == "" {
		return model.Entry{}, fmt.Errorf("%w: missing user name", ErrNoResult)
	}
	userID, err := idFromHref(userLink)
	if err != nil {
		return model.Entry{}, fmt.Errorf("%w: user id: %v", ErrNoResult, err)
	}

	runLink := cells.Eq(3).Find("a").First()
	runID, err := idFromHref(runLink)
	if err != nil {
		return model.Entry{}, fmt.Errorf("%w: run id: %v", ErrNoResult, err)
	}
	score, err := strconv.ParseFloat(strings.TrimSpace(runLink.Text()), 32)
	if err != nil {
		return model.Entry{}, fmt.Errorf("%w: score: %v", ErrNoResult, err)
	}

	return model.Entry{
		Rank:   uint16(rank),
		Name:   name,
		UserID: userID,
		RunID:  runID,
		Score:  float32(score),
	}, nil
}

// idFromHref parses the numeric tail of an anchor's href, e.g.
// "/users/1234" -> 1234.
func idFromHref(link *goquery.Selection) (uint32, error) {
	href, ok := link.Attr("href")
	if !ok {
		return 0, fmt.Errorf("missing href")
	}
	tail := href[strings.LastIndex(href, "/")+1:]
	id, err := strconv.ParseUint(tail, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(id), nil
}
