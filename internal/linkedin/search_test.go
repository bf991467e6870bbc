package linkedin

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LinkedinLeads/internal/browser/browsertest"
	"LinkedinLeads/internal/humanize"
)

func TestParseCount(t *testing.T) {
	assert.Equal(t, 57, ParseCount("57 results"))
	assert.Equal(t, 1000, ParseCount("About 12,345 results"))
	assert.Equal(t, 1000, ParseCount("1,000 results"))
	assert.Equal(t, 0, ParseCount("No results"))
	assert.Equal(t, 0, ParseCount(""))
	assert.Equal(t, 1000, ParseCount(strings.Repeat("9", 40)))
}

func TestSelectPage(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))

	_, ok := SelectPage(rng, 0)
	assert.False(t, ok, "zero results have no page")

	for _, count := range []int{1, 9, 10, 15, 19} {
		page, ok := SelectPage(rng, count)
		require.True(t, ok)
		assert.Equal(t, 1, page, "count %d", count)
	}

	for range 500 {
		page, ok := SelectPage(rng, 1000)
		require.True(t, ok)
		assert.GreaterOrEqual(t, page, 1)
		assert.LessOrEqual(t, page, 99)
	}
}

func TestSelectPageSameSeedSamePage(t *testing.T) {
	for seed := range uint64(20) {
		a, _ := SelectPage(rand.New(rand.NewPCG(seed, seed)), 1000)
		b, _ := SelectPage(rand.New(rand.NewPCG(seed, seed)), 1000)
		assert.Equal(t, a, b)
	}
}

func TestWithPage(t *testing.T) {
	got, err := WithPage(resultsURL, 7)
	require.NoError(t, err)
	assert.Equal(t, resultsURL+"&page=7", got)

	got, err = WithPage(got, 2)
	require.NoError(t, err)
	assert.Equal(t, resultsURL+"&page=2", got)
}

// searchSite wires a feed whose search box leads to resultsURL when Enter is pressed.
func searchSite(s *browsertest.Session, results *browsertest.Page) {
	submit := func(s *browsertest.Session, keys string) {
		if keys == humanize.KeyEnter {
			s.Goto(resultsURL)
		}
	}
	s.AddPage(FeedURL, browsertest.NewPage().Add(locs.SearchBox, &browsertest.Element{OnKeys: submit}))
	s.AddPage(resultsURL, results)
}

func resultsPage(count string) *browsertest.Page {
	return browsertest.NewPage().
		Add(locs.ResultEntry, &browsertest.Element{}).
		Add(locs.ResultCount, &browsertest.Element{Text: count}).
		Add(locs.FilterBar, &browsertest.Element{}).
		Add(locs.TypeCompanies, &browsertest.Element{}).
		Add(locs.TypePeople, &browsertest.Element{})
}

func linksPage(hrefs ...string) *browsertest.Page {
	els := make([]*browsertest.Element, len(hrefs))
	for i, h := range hrefs {
		els[i] = &browsertest.Element{Attrs: map[string]string{"href": h}}
	}
	return browsertest.NewPage().
		Add(locs.ResultEntry, &browsertest.Element{}).
		Add(locs.ResultLink, els...)
}

func expectedPage(t *testing.T, seed uint64, count int) string {
	t.Helper()
	page, ok := SelectPage(rand.New(rand.NewPCG(seed, seed)), count)
	require.True(t, ok)
	u, err := WithPage(resultsURL, page)
	require.NoError(t, err)
	return u
}

func typed(keys []string) string {
	var out []rune
	for _, k := range keys {
		switch k {
		case humanize.KeyBackspace:
			out = out[:len(out)-1]
		case humanize.KeyEnter, humanize.KeyArrowDown:
		default:
			out = append(out, []rune(k)...)
		}
	}
	return string(out)
}

func TestSearchNoResults(t *testing.T) {
	s := browsertest.New()
	searchSite(s, browsertest.NewPage().Add(locs.NoResults, &browsertest.Element{}))
	c := newTestClient(t, s)

	out, err := c.Search(context.Background(), SearchRequest{
		Term:    "zzzz",
		Type:    Company,
		Filters: Filters{Industry: "Software"},
	})
	require.NoError(t, err)
	assert.Equal(t, SearchOutcome{Reason: ReasonNoResults}, out)
	assert.Empty(t, s.Clicks(), "no type or filter control is touched")
	assert.Equal(t, []string{FeedURL}, s.Navigations())
	assert.Equal(t, "zzzz", typed(s.Keys("search box")))
}

func TestSearchZeroCountDoesNotPaginate(t *testing.T) {
	s := browsertest.New()
	searchSite(s, resultsPage("0 results"))
	c := newTestClient(t, s)

	out, err := c.Search(context.Background(), SearchRequest{Term: "agency"})
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, ReasonNoResults, out.Reason)
	assert.Equal(t, []string{FeedURL}, s.Navigations())
}

func TestSearchWithFilters(t *testing.T) {
	s := browsertest.New()
	results := resultsPage("About 4,200 results").
		Add(locs.IndustryButton, &browsertest.Element{}).
		Add(locs.IndustryInput, &browsertest.Element{}).
		Add(locs.IndustryShowResults, &browsertest.Element{}).
		Add(locs.CompanySizeButton, &browsertest.Element{}).
		Add(locs.CompanySizeShowResults, &browsertest.Element{}).
		Add(locs.CompanySizeOption.With("11-50"), &browsertest.Element{})
	searchSite(s, results)
	page := expectedPage(t, 1, 1000)
	s.AddPage(page, linksPage(
		"https://www.linkedin.com/company/acme-digital/",
		"https://www.linkedin.com/company/globex/",
	))
	c := newTestClient(t, s)

	out, err := c.Search(context.Background(), SearchRequest{
		Term:    "digital agency",
		Type:    Company,
		Filters: Filters{Industry: "Advertising Services", CompanySize: "11-50"},
	})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, []string{
		"https://www.linkedin.com/company/acme-digital/",
		"https://www.linkedin.com/company/globex/",
	}, out.Links)

	assert.Equal(t, []string{
		"companies type",
		"industry filter",
		"industry show results",
		"company size filter",
		"company size option",
		"company size show results",
	}, s.Clicks())
	assert.False(t, s.Clicked("locations filter"))
	assert.Equal(t, "Advertising Services", typed(s.Keys("industry input")))
	keys := s.Keys("industry input")
	assert.Equal(t, []string{humanize.KeyArrowDown, humanize.KeyEnter}, keys[len(keys)-2:])
	assert.Equal(t, []string{FeedURL, page}, s.Navigations())
}

func TestSearchSameSeedSamePage(t *testing.T) {
	run := func() []string {
		s := browsertest.New()
		searchSite(s, resultsPage("1,000 results"))
		s.AddPage(expectedPage(t, 9, 1000), linksPage("https://www.linkedin.com/company/acme-digital/"))
		out, err := New(s, testOptions(9)).Search(context.Background(), SearchRequest{Term: "agency"})
		require.NoError(t, err)
		require.True(t, out.Success)
		return s.Navigations()
	}
	first, second := run(), run()
	require.Len(t, first, 2)
	assert.Equal(t, first, second)
}

func TestSearchFilterFailure(t *testing.T) {
	s := browsertest.New()
	searchSite(s, resultsPage("500 results"))
	c := newTestClient(t, s)

	_, err := c.Search(context.Background(), SearchRequest{
		Term:    "agency",
		Filters: Filters{Location: "London"},
	})
	assert.ErrorIs(t, err, ErrFilterApplicationFailed)
}

func TestSearchUnknownTypeIsSkipped(t *testing.T) {
	s := browsertest.New()
	searchSite(s, resultsPage("5 results"))
	s.AddPage(resultsURL+"&page=1", linksPage("https://www.linkedin.com/company/acme-digital/"))
	c := newTestClient(t, s)

	out, err := c.Search(context.Background(), SearchRequest{Term: "agency", Type: "SCHOOLS"})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Empty(t, s.Clicks())
}

func TestSearchNoMoreResults(t *testing.T) {
	s := browsertest.New()
	searchSite(s, resultsPage("1,000 results"))
	s.AddPage(expectedPage(t, 1, 1000), browsertest.NewPage().Add(locs.ResultsContainer, &browsertest.Element{}))
	c := newTestClient(t, s)

	out, err := c.Search(context.Background(), SearchRequest{Term: "agency"})
	require.NoError(t, err)
	assert.Equal(t, SearchOutcome{Reason: ReasonNoMoreResults}, out)
}

func TestSearchRetriesUntilResultsLoad(t *testing.T) {
	s := browsertest.New()
	searchSite(s, resultsPage("1,000 results"))
	retry := &browsertest.Element{OnClick: func(s *browsertest.Session) {
		s.Update(func(p *browsertest.Page) {
			p.Add(locs.ResultEntry, &browsertest.Element{})
			p.Add(locs.ResultLink, &browsertest.Element{Attrs: map[string]string{"href": "https://www.linkedin.com/company/initech/"}})
		})
	}}
	s.AddPage(expectedPage(t, 1, 1000), browsertest.NewPage().Add(locs.RetrySearch, retry))
	c := newTestClient(t, s)

	out, err := c.Search(context.Background(), SearchRequest{Term: "agency"})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, []string{"https://www.linkedin.com/company/initech/"}, out.Links)
	assert.True(t, s.Clicked("retry search"))
}

func TestSearchRetryLoopHonorsCancellation(t *testing.T) {
	s := browsertest.New()
	searchSite(s, resultsPage("1,000 results"))
	opts := testOptions(1)
	opts.PollInterval = 20 * time.Millisecond
	c := New(s, opts)

	ctx, cancelled := cancelAt(t, 150*time.Millisecond)
	_, err := c.Search(ctx, SearchRequest{Term: "agency"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(<-cancelled), 3*opts.PollInterval)
}

func TestSearchFeedUnavailable(t *testing.T) {
	s := browsertest.New()
	s.FailNavigation(FeedURL, assert.AnError)
	c := newTestClient(t, s)

	_, err := c.Search(context.Background(), SearchRequest{Term: "agency"})
	assert.ErrorIs(t, err, ErrNavigationFailed)
}
