package linkedin

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"

	"LinkedinLeads/internal/humanize"
	"LinkedinLeads/internal/wait"
)

const (
	// MaxResults is the most LinkedIn lets anyone browse: 100 pages of 10.
	MaxResults     = 1000
	ResultsPerPage = 10
)

// Search runs one pipeline call: search for the term from the feed, narrow
// by type and filters, then jump to a random results page and collect the
// result links.
//
// "No results" and "no more results" are legitimate outcomes reported with
// Success false and a nil error. Errors are reserved for failures.
func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchOutcome, error) {
	if err := c.s.Navigate(ctx, FeedURL); err != nil {
		return SearchOutcome{}, fmt.Errorf("%w: load feed: %w", ErrNavigationFailed, err)
	}

	box, err := c.waitFor(ctx, c.loc.SearchBox, 5)
	if err != nil {
		return SearchOutcome{}, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	c.logger.Printf("linkedin: searching for %q", req.Term)
	if err := c.typist.Type(ctx, box, req.Term, humanize.KeyEnter); err != nil {
		return SearchOutcome{}, fmt.Errorf("%w: type search term: %w", ErrSearchFailed, err)
	}

	none, err := wait.Present(ctx, c.s, c.loc.NoResults, c.poll)
	if err != nil {
		return SearchOutcome{}, err
	}
	if none {
		c.logger.Printf("linkedin: no results for %q", req.Term)
		return SearchOutcome{Reason: ReasonNoResults}, nil
	}
	if err := c.awaitResults(ctx); err != nil {
		return SearchOutcome{}, err
	}

	if err := c.applyType(ctx, req.Type); err != nil {
		return SearchOutcome{}, err
	}
	if _, err := c.waitFor(ctx, c.loc.ResultEntry, 5); err != nil {
		return SearchOutcome{}, fmt.Errorf("%w: results after type filter: %w", ErrSearchFailed, err)
	}

	applied := false
	for _, f := range req.Filters.ordered() {
		if f.value == "" {
			continue
		}
		c.logger.Printf("linkedin: applying %s filter %q", f.name, f.value)
		if _, err := c.waitFor(ctx, c.loc.FilterBar, 5); err != nil {
			return SearchOutcome{}, fmt.Errorf("%w: filter bar: %w", ErrFilterApplicationFailed, err)
		}
		if err := c.applyFilter(ctx, f.name, f.value); err != nil {
			return SearchOutcome{}, fmt.Errorf("%w: %s: %w", ErrFilterApplicationFailed, f.name, err)
		}
		applied = true
	}
	if applied {
		if _, err := c.waitFor(ctx, c.loc.ResultEntry, 5); err != nil {
			return SearchOutcome{}, fmt.Errorf("%w: results after filters: %w", ErrSearchFailed, err)
		}
	}

	el, err := c.waitFor(ctx, c.loc.ResultCount, 2)
	if err != nil {
		return SearchOutcome{}, fmt.Errorf("%w: result count: %w", ErrSearchFailed, err)
	}
	raw, err := el.Text(ctx)
	if err != nil {
		return SearchOutcome{}, fmt.Errorf("%w: result count: %w", ErrSearchFailed, err)
	}
	count := ParseCount(raw)
	page, ok := SelectPage(c.rng, count)
	if !ok {
		c.logger.Printf("linkedin: result count %q parsed as 0", raw)
		return SearchOutcome{Reason: ReasonNoResults}, nil
	}
	c.logger.Printf("linkedin: %d results, loading page %d", count, page)

	current, err := c.s.CurrentURL(ctx)
	if err != nil {
		return SearchOutcome{}, fmt.Errorf("%w: %w", ErrNavigationFailed, err)
	}
	target, err := WithPage(current, page)
	if err != nil {
		return SearchOutcome{}, fmt.Errorf("%w: %w", ErrNavigationFailed, err)
	}
	if err := c.s.Navigate(ctx, target); err != nil {
		return SearchOutcome{}, fmt.Errorf("%w: page %d: %w", ErrNavigationFailed, page, err)
	}

	if _, err := c.waitFor(ctx, c.loc.ResultEntry, 5); err != nil {
		if ctx.Err() != nil {
			return SearchOutcome{}, ctx.Err()
		}
		if _, err := c.waitFor(ctx, c.loc.ResultsContainer, 2); err == nil {
			c.logger.Printf("linkedin: page %d is empty, no more results", page)
			return SearchOutcome{Reason: ReasonNoMoreResults}, nil
		} else if !errors.Is(err, wait.ErrNotFound) {
			return SearchOutcome{}, err
		}
		if err := c.retrySearch(ctx); err != nil {
			return SearchOutcome{}, err
		}
	}

	return SearchOutcome{Success: true, Links: c.resultLinks(ctx)}, nil
}

// awaitResults gives the first results one longer wait before falling back
// to the regular polling.
func (c *Client) awaitResults(ctx context.Context) error {
	ok, err := wait.Present(ctx, c.s, c.loc.ResultEntry, c.results)
	if err != nil || ok {
		return err
	}
	if _, err := c.waitFor(ctx, c.loc.ResultEntry, 5); err != nil {
		return fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	return nil
}

func (c *Client) applyType(ctx context.Context, t SearchType) error {
	switch t {
	case People:
		if err := c.click(ctx, c.loc.TypePeople); err != nil {
			return fmt.Errorf("%w: search type: %w", ErrFilterApplicationFailed, err)
		}
	case Company:
		if err := c.click(ctx, c.loc.TypeCompanies); err != nil {
			return fmt.Errorf("%w: search type: %w", ErrFilterApplicationFailed, err)
		}
	default:
		c.logger.Printf("linkedin: not a valid search type %q, searching everything", t)
	}
	return nil
}

// retrySearch keeps pressing "Retry search" until results load. LinkedIn
// sometimes fails to render a results page that does exist.
func (c *Client) retrySearch(ctx context.Context) error {
	c.logger.Printf("linkedin: results did not load, retrying search until they do")
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		btn, err := c.waitFor(ctx, c.loc.RetrySearch, 2)
		if err == nil {
			if err = btn.Click(ctx); err != nil {
				if serr := wait.Sleep(ctx, c.poll); serr != nil {
					return serr
				}
			}
		}
		if err == nil {
			if _, err = c.waitFor(ctx, c.loc.ResultEntry, 2); err == nil {
				c.logger.Printf("linkedin: results loaded after %d retries", attempt)
				return nil
			}
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
	}
}

func (c *Client) resultLinks(ctx context.Context) []string {
	els, err := c.s.FindAll(ctx, c.loc.ResultLink)
	if err != nil {
		c.logger.Printf("linkedin: result links: %v", err)
		return nil
	}
	links := make([]string, 0, len(els))
	for _, el := range els {
		href, err := el.Attribute(ctx, "href")
		if err != nil {
			c.logger.Printf("linkedin: result link without href: %v", err)
			continue
		}
		links = append(links, href)
	}
	if len(links) == 0 {
		c.logger.Printf("linkedin: no result links found")
	} else {
		c.logger.Printf("linkedin: found %d result links", len(links))
	}
	return links
}

// ParseCount reads a result count such as "About 1,234 results", keeping
// only the digits and capping at MaxResults.
func ParseCount(s string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n > MaxResults {
		return MaxResults
	}
	return n
}

// SelectPage picks a random results page in [1, pages-1] for count results,
// so repeated searches sample different slices of the same result set.
// A count of zero has no page to load and reports false. A single page of
// results always loads page 1.
func SelectPage(rng *rand.Rand, count int) (int, bool) {
	if count <= 0 {
		return 0, false
	}
	pages := float64(min(count, MaxResults)) / ResultsPerPage
	if pages <= 1 {
		return 1, true
	}
	return int(math.Floor(rng.Float64()*(pages-1))) + 1, true
}

// WithPage sets the page query parameter of raw.
func WithPage(raw string, page int) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", raw, err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
