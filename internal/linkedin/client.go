// Package linkedin drives an authenticated LinkedIn session: login, search
// with filters, company profile research and employee extraction.
//
// A Client wraps one browser.Session and is used by a single goroutine.
// Every wait goes through package wait with an explicit retry policy and all
// typing goes through a humanize.Typist.
package linkedin

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"LinkedinLeads/internal/browser"
	"LinkedinLeads/internal/humanize"
	"LinkedinLeads/internal/wait"
)

const (
	LoginURL = "https://www.linkedin.com/login"
	FeedURL  = "https://www.linkedin.com/feed"
)

// Options configures a Client. Zero values take the defaults noted per field.
type Options struct {
	Locators Locators
	Typist   *humanize.Typist
	// Rand draws the results page to sample. Defaults to a generator seeded with Seed.
	Rand *rand.Rand
	Seed uint64

	PollInterval   time.Duration // 1s
	LoginTimeout   time.Duration // 3s
	ResultsTimeout time.Duration // 3s
	FilterSettle   time.Duration // 1s
	// PageDelayMin and PageDelayMax bound the pause between employee pages.
	PageDelayMin time.Duration
	PageDelayMax time.Duration

	// Headless turns a login challenge into ErrAuthFailed, since nobody can solve it.
	Headless bool
	Logger   *log.Logger
}

// Client runs the LinkedIn flows on one session.
type Client struct {
	s        browser.Session
	loc      Locators
	typist   *humanize.Typist
	rng      *rand.Rand
	poll     time.Duration
	login    time.Duration
	results  time.Duration
	settle   time.Duration
	pageMin  time.Duration
	pageMax  time.Duration
	headless bool
	logger   *log.Logger
}

func New(s browser.Session, opts Options) *Client {
	c := &Client{
		s:        s,
		loc:      opts.Locators,
		typist:   opts.Typist,
		rng:      opts.Rand,
		poll:     opts.PollInterval,
		login:    opts.LoginTimeout,
		results:  opts.ResultsTimeout,
		settle:   opts.FilterSettle,
		pageMin:  opts.PageDelayMin,
		pageMax:  opts.PageDelayMax,
		headless: opts.Headless,
		logger:   opts.Logger,
	}
	if c.loc.Feed.Query == "" {
		c.loc = DefaultLocators()
	}
	if c.typist == nil {
		c.typist = humanize.NewTypist(opts.Seed)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	}
	if c.poll <= 0 {
		c.poll = time.Second
	}
	if c.login <= 0 {
		c.login = 3 * time.Second
	}
	if c.results <= 0 {
		c.results = 3 * time.Second
	}
	if c.settle <= 0 {
		c.settle = time.Second
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

func (c *Client) waitFor(ctx context.Context, loc browser.Locator, retries int) (browser.Element, error) {
	return wait.For(ctx, c.s, loc, wait.Bounded(c.poll, retries))
}

func (c *Client) click(ctx context.Context, loc browser.Locator) error {
	el, err := c.s.Find(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.Click(ctx); err != nil {
		return fmt.Errorf("click %s: %w", loc.Name, err)
	}
	return nil
}

func (c *Client) typeInto(ctx context.Context, loc browser.Locator, text string, trailing ...string) error {
	el, err := c.s.Find(ctx, loc)
	if err != nil {
		return err
	}
	if err := c.typist.Type(ctx, el, text, trailing...); err != nil {
		return fmt.Errorf("type into %s: %w", loc.Name, err)
	}
	return nil
}

func (c *Client) text(ctx context.Context, loc browser.Locator) (string, error) {
	el, err := c.s.Find(ctx, loc)
	if err != nil {
		return "", err
	}
	s, err := el.Text(ctx)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", loc.Name, err)
	}
	return clean(s), nil
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	return c.typist.Sleep(ctx, d)
}

func clean(s string) string {
	s = norm.NFC.String(s)
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}
