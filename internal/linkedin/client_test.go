package linkedin

import (
	"context"
	"io"
	"log"
	"math/rand/v2"
	"testing"
	"time"

	"LinkedinLeads/internal/browser/browsertest"
	"LinkedinLeads/internal/humanize"
)

const (
	companyURL = "https://www.linkedin.com/company/acme-digital/"
	peopleURL  = "https://www.linkedin.com/search/results/people/?currentCompany=1234"
	resultsURL = "https://www.linkedin.com/search/results/all/?keywords=agency"
)

var locs = DefaultLocators()

func testOptions(seed uint64) Options {
	typist := humanize.NewTypist(seed)
	typist.Sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	return Options{
		Typist:         typist,
		Rand:           rand.New(rand.NewPCG(seed, seed)),
		PollInterval:   2 * time.Millisecond,
		LoginTimeout:   5 * time.Millisecond,
		ResultsTimeout: 5 * time.Millisecond,
		FilterSettle:   time.Millisecond,
		Logger:         log.New(io.Discard, "", 0),
	}
}

// cancelAt returns a context cancelled after d and the moment it was cancelled.
func cancelAt(t *testing.T, d time.Duration) (context.Context, <-chan time.Time) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	at := make(chan time.Time, 1)
	time.AfterFunc(d, func() {
		at <- time.Now()
		cancel()
	})
	return ctx, at
}

func newTestClient(t *testing.T, s *browsertest.Session) *Client {
	t.Helper()
	return New(s, testOptions(1))
}

type person struct {
	name  string
	title string
}

// peoplePage renders one page of a company's people search.
func peoplePage(people ...person) *browsertest.Page {
	p := browsertest.NewPage()
	rows := make([]*browsertest.Element, len(people))
	for i, pr := range people {
		rows[i] = &browsertest.Element{}
		if pr.title != "" {
			p.Add(locs.EmployeeRow.Nth(i+1, locs.EmployeeSubtitle.Query), &browsertest.Element{Text: pr.title})
		}
		if pr.name != "" {
			p.Add(locs.EmployeeRow.Nth(i+1, locs.EmployeeName.Query), &browsertest.Element{Text: pr.name})
		}
	}
	return p.Add(locs.EmployeeRow, rows...)
}

func repeat(n int, pr person) []person {
	out := make([]person, n)
	for i := range out {
		out[i] = pr
	}
	return out
}

// companyPage renders a company profile whose About tab reveals the
// details and whose employees link opens peopleURL.
func companyPage() *browsertest.Page {
	about := func(s *browsertest.Session) {
		s.Update(func(p *browsertest.Page) {
			p.Add(locs.AboutOverview, &browsertest.Element{})
			p.Add(locs.OverviewText, &browsertest.Element{Text: " We build websites. "})
			p.Add(locs.IndustryField, &browsertest.Element{Text: "Advertising Services"})
			p.Add(locs.FoundedField, &browsertest.Element{Text: "2009"})
			p.Add(locs.PhoneField, &browsertest.Element{Text: "+44 20 7946 0000"})
			p.Add(locs.WebsiteField, &browsertest.Element{Text: "https://acme.example"})
			p.Add(locs.HeadquartersField, &browsertest.Element{Text: "London"})
		})
	}
	return browsertest.NewPage().
		Add(locs.CompanyTitle, &browsertest.Element{Text: "Acme Digital"}).
		Add(locs.AboutTab, &browsertest.Element{OnClick: about}).
		Add(locs.EmployeesLink, &browsertest.Element{OnClick: func(s *browsertest.Session) { s.Goto(peopleURL) }})
}
