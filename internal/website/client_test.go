package website

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redirect sends every request to the test server, keeping the original Host
// header so handlers can tell the sites apart.
type redirect struct {
	target *url.URL
}

func (r redirect) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = r.target.Scheme
	req.URL.Host = r.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

const homepage = `<html><body>
<nav>
  <a href="/about">About</a>
  <a href="/contact-us/">Contact us</a>
  <a href="https://www.facebook.com/sharer/sharer.php?u=acme">Share</a>
  <a href="https://www.facebook.com/acmedigital/posts/123">Facebook</a>
  <a href="https://twitter.com/intent/tweet?text=hi">Tweet</a>
  <a href="https://twitter.com/acme_digital">Twitter</a>
  <a href="https://www.instagram.com/acme.digital/?hl=en">Instagram</a>
</nav>
</body></html>`

const contactPage = `<html><body>
<h1>Get in touch</h1>
<p>Call us on 020 7946 0000 between 9 and 5.</p>
<p>Or write to <a href="mailto:hello@acme.example?subject=Hi">hello@acme.example</a></p>
</body></html>`

const facebookPage = `<html><body>
<h1><span></span><span>Acme Digital Ltd</span></h1>
<div><div>1,234 people like this</div></div>
<span>1,500 people follow this</span>
</body></html>`

const twitterPage = `<html><body>
<a href="/acme_digital/following"><span data-count="120">120</span></a>
<a href="/acme_digital/followers"><span data-count="3400">3.4K</span></a>
</body></html>`

const instagramPage = `<html><head>
<meta property="og:description" content="12.5K Followers, 310 Following, 842 Posts - See Instagram photos from Acme">
</head><body></body></html>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	target, err := url.Parse(srv.URL)
	require.NoError(t, err)

	c := New(log.New(io.Discard, "", 0))
	c.HTTP = &http.Client{Transport: redirect{target: target}}
	return c
}

func site(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Host == "acme.example" && r.URL.Path == "/":
		io.WriteString(w, homepage)
	case r.Host == "acme.example" && r.URL.Path == "/contact-us/":
		io.WriteString(w, contactPage)
	case r.Host == "www.facebook.com" && r.URL.Path == "/acmedigital":
		io.WriteString(w, facebookPage)
	case r.Host == "twitter.com" && r.URL.Path == "/acme_digital":
		io.WriteString(w, twitterPage)
	case r.Host == "www.instagram.com" && r.URL.Path == "/acme.digital":
		io.WriteString(w, instagramPage)
	default:
		http.NotFound(w, r)
	}
}

func TestResearch(t *testing.T) {
	c := newTestClient(t, site)

	info, err := c.Research(context.Background(), "https://acme.example/")
	require.NoError(t, err)

	assert.Equal(t, "https://acme.example", info.Website)
	assert.Equal(t, "acme.example", info.DomainName)
	assert.Equal(t, ContactPage{
		Link:   "https://acme.example/contact-us/",
		Number: "02079460000",
		Email:  "hello@acme.example",
		Status: true,
	}, info.ContactPage)
	assert.Equal(t, FacebookPage{
		Link:      "https://www.facebook.com/acmedigital",
		PageTitle: "Acme Digital Ltd",
		Likes:     1234,
		Followers: 1500,
		Status:    true,
	}, info.FacebookPage)
	assert.Equal(t, TwitterPage{
		Link:      "https://twitter.com/acme_digital",
		Followers: 3400,
		Following: 120,
		Status:    true,
	}, info.TwitterPage)
	assert.Equal(t, InstagramPage{
		Link:      "https://www.instagram.com/acme.digital",
		Username:  "acme.digital",
		Followers: 12500,
		Following: 310,
		Status:    true,
	}, info.InstagramPage)
}

func TestResearchWithoutScheme(t *testing.T) {
	c := newTestClient(t, site)

	info, err := c.Research(context.Background(), "acme.example")
	require.NoError(t, err)
	assert.True(t, info.ContactPage.Status)
}

func TestResearchSubPageFailureKeepsRest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Host == "www.facebook.com" {
			http.Error(w, "blocked", http.StatusForbidden)
			return
		}
		site(w, r)
	})

	info, err := c.Research(context.Background(), "https://acme.example")
	require.NoError(t, err)
	assert.False(t, info.FacebookPage.Status)
	assert.Equal(t, "https://www.facebook.com/acmedigital", info.FacebookPage.Link)
	assert.True(t, info.ContactPage.Status)
}

func TestResearchHomepageFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})

	_, err := c.Research(context.Background(), "https://acme.example")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestResearchTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	c.Timeout = 50 * time.Millisecond

	start := time.Now()
	_, err := c.Research(context.Background(), "https://acme.example")
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestResearchEmptySite(t *testing.T) {
	c := New(nil)
	_, err := c.Research(context.Background(), " ")
	assert.Error(t, err)
}

func TestContactDetailsFromText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><body><div>Email sales@acme.example or call 01632 960 983</div></body></html>`))
	require.NoError(t, err)

	number, email := contactDetails(doc)
	assert.Equal(t, "01632960983", number)
	assert.Equal(t, "sales@acme.example", email)
}

func TestAbbreviated(t *testing.T) {
	assert.Equal(t, 1234, abbreviated("1,234"))
	assert.Equal(t, 12500, abbreviated("12.5K"))
	assert.Equal(t, 3000000, abbreviated("3m"))
	assert.Equal(t, 0, abbreviated("lots"))
}
