package website

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTimeout   = 10 * time.Second
	maxResponseBytes = 4 << 20
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0 Safari/537.36"
)

// Client researches company websites over HTTP.
type Client struct {
	HTTP      *http.Client
	Timeout   time.Duration
	UserAgent string
	Logger    *log.Logger
}

func New(logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		HTTP:      &http.Client{},
		Timeout:   DefaultTimeout,
		UserAgent: defaultUserAgent,
		Logger:    logger,
	}
}

// Research fetches the homepage of site, follows its social and contact
// links in parallel and returns what it found. The whole call is bounded by
// c.Timeout. Only a failure to load the homepage is an error; each linked
// page that fails just keeps Status false.
func (c *Client) Research(ctx context.Context, site string) (*Info, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	base, err := normalize(site)
	if err != nil {
		return nil, err
	}
	info := &Info{
		Website:    base.String(),
		DomainName: strings.TrimPrefix(base.Hostname(), "www."),
	}

	home, err := c.fetch(ctx, base.String())
	if err != nil {
		return nil, fmt.Errorf("fetch homepage %s: %w", base, err)
	}
	links := findLinks(home, base)

	var g errgroup.Group
	if links.facebook != "" {
		info.FacebookPage.Link = links.facebook
		g.Go(func() error {
			doc, err := c.fetch(ctx, links.facebook)
			if err != nil {
				c.Logger.Printf("website: facebook page %s: %v", links.facebook, err)
				return nil
			}
			info.FacebookPage.PageTitle, info.FacebookPage.Likes, info.FacebookPage.Followers = facebookStats(doc)
			info.FacebookPage.Status = true
			return nil
		})
	}
	if links.twitter != "" {
		info.TwitterPage.Link = links.twitter
		g.Go(func() error {
			doc, err := c.fetch(ctx, links.twitter)
			if err != nil {
				c.Logger.Printf("website: twitter page %s: %v", links.twitter, err)
				return nil
			}
			info.TwitterPage.Followers, info.TwitterPage.Following = twitterStats(doc)
			info.TwitterPage.Status = true
			return nil
		})
	}
	if links.instagram != "" {
		info.InstagramPage.Link = links.instagram
		info.InstagramPage.Username = instagramUsername(links.instagram)
		g.Go(func() error {
			doc, err := c.fetch(ctx, links.instagram)
			if err != nil {
				c.Logger.Printf("website: instagram page %s: %v", links.instagram, err)
				return nil
			}
			info.InstagramPage.Followers, info.InstagramPage.Following = instagramStats(doc)
			info.InstagramPage.Status = true
			return nil
		})
	}
	if links.contact != "" {
		info.ContactPage.Link = links.contact
		g.Go(func() error {
			doc, err := c.fetch(ctx, links.contact)
			if err != nil {
				c.Logger.Printf("website: contact page %s: %v", links.contact, err)
				return nil
			}
			info.ContactPage.Number, info.ContactPage.Email = contactDetails(doc)
			info.ContactPage.Status = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return info, fmt.Errorf("research %s: %w", base, err)
	}
	return info, nil
}

func (c *Client) fetch(ctx context.Context, target string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	ua := c.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s responded with status %d", target, resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxResponseBytes))
}

func normalize(site string) (*url.URL, error) {
	site = strings.TrimSpace(site)
	if site == "" {
		return nil, fmt.Errorf("empty website")
	}
	if !strings.Contains(site, "://") {
		site = "https://" + site
	}
	u, err := url.Parse(site)
	if err != nil {
		return nil, fmt.Errorf("parse website %q: %w", site, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("website %q has no host", site)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery, u.Fragment = "", ""
	return u, nil
}
