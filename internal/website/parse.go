package website

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	numberRe    = regexp.MustCompile(`\d[\d\s]{10,12}`)
	emailRe     = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(\.[A-Za-z0-9\-]+)+`)
	nonDigitRe  = regexp.MustCompile(`\D`)
	instagramRe = regexp.MustCompile(`(?i)([\d.,]+[km]?)\s+followers,\s+([\d.,]+[km]?)\s+following`)
)

type siteLinks struct {
	facebook  string
	twitter   string
	instagram string
	contact   string
}

// findLinks picks the first Facebook, Twitter and Instagram profile link and
// the first same-site contact page link of a homepage.
func findLinks(doc *goquery.Document, base *url.URL) siteLinks {
	var l siteLinks
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		lower := strings.ToLower(href)
		switch {
		case href == "":
		case strings.Contains(lower, "facebook.com/"):
			if l.facebook == "" && !strings.Contains(lower, "facebook.com/sharer") {
				l.facebook = profileRoot(href)
			}
		case strings.Contains(lower, "twitter.com/"):
			if l.twitter == "" && !strings.Contains(lower, "twitter.com/intent") {
				l.twitter = profileRoot(href)
			}
		case strings.Contains(lower, "instagram.com/"):
			if l.instagram == "" {
				l.instagram = profileRoot(href)
			}
		case l.contact == "":
			if u := resolve(base, href); u != nil && u.Host == base.Host && strings.Contains(strings.ToLower(u.Path), "contact") {
				l.contact = u.String()
			}
		}
	})
	return l
}

// profileRoot keeps only the first path segment of a social profile link,
// dropping posts, tabs and tracking parameters.
func profileRoot(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil || u.Host == "" {
		return href
	}
	segment, _, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
	root := url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/" + segment}
	if root.Scheme == "" {
		root.Scheme = "https"
	}
	return root.String()
}

func resolve(base *url.URL, href string) *url.URL {
	ref, err := url.Parse(href)
	if err != nil {
		return nil
	}
	if ref.Scheme != "" && ref.Scheme != "http" && ref.Scheme != "https" {
		return nil
	}
	return base.ResolveReference(ref)
}

func instagramUsername(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.Trim(u.Path, "/")
}

// contactDetails returns the first 11 digit phone number and the first
// email address on a contact page.
func contactDetails(doc *goquery.Document) (number, email string) {
	doc.Find(`a[href^="mailto:"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		addr, _, _ := strings.Cut(strings.TrimPrefix(sel.AttrOr("href", ""), "mailto:"), "?")
		if emailRe.MatchString(addr) {
			email = emailRe.FindString(addr)
			return false
		}
		return true
	})

	doc.Find("body *").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		if number == "" {
			for _, m := range numberRe.FindAllString(text, -1) {
				if digits := nonDigitRe.ReplaceAllString(m, ""); len(digits) == 11 {
					number = digits
					break
				}
			}
		}
		if email == "" {
			email = emailRe.FindString(text)
		}
		return number == "" || email == ""
	})
	return number, email
}

// facebookStats reads the page title and the like and follow counts of a
// Facebook page.
func facebookStats(doc *goquery.Document) (title string, likes, followers int) {
	doc.Find("div").Each(func(_ int, sel *goquery.Selection) {
		if t := sel.Text(); strings.Contains(t, "people like this") {
			likes = digits(t)
		}
	})
	doc.Find("span").Each(func(_ int, sel *goquery.Selection) {
		if t := sel.Text(); strings.Contains(t, "people follow this") {
			followers = digits(t)
		}
	})
	doc.Find("h1 > span").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title = strings.TrimSpace(sel.Text())
		return title == ""
	})
	return title, likes, followers
}

// twitterStats reads the data-count of the followers and following links.
func twitterStats(doc *goquery.Document) (followers, following int) {
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := sel.AttrOr("href", "")
		count, ok := sel.Find("span[data-count]").Attr("data-count")
		if !ok {
			return
		}
		n, _ := strconv.Atoi(strings.TrimSpace(count))
		switch {
		case strings.Contains(href, "followers"):
			followers = n
		case strings.Contains(href, "following"):
			following = n
		}
	})
	return followers, following
}

// instagramStats reads counts from the og:description meta tag, which looks
// like "1,234 Followers, 56 Following, 78 Posts - ...".
func instagramStats(doc *goquery.Document) (followers, following int) {
	desc := doc.Find(`meta[property="og:description"]`).AttrOr("content", "")
	m := instagramRe.FindStringSubmatch(desc)
	if m == nil {
		return 0, 0
	}
	return abbreviated(m[1]), abbreviated(m[2])
}

func digits(s string) int {
	n, _ := strconv.Atoi(nonDigitRe.ReplaceAllString(s, ""))
	return n
}

// abbreviated parses counts such as "1,234", "12.5K" or "3M".
func abbreviated(s string) int {
	s = strings.ToLower(strings.ReplaceAll(s, ",", ""))
	mult := 1.0
	switch {
	case strings.HasSuffix(s, "k"):
		mult, s = 1e3, strings.TrimSuffix(s, "k")
	case strings.HasSuffix(s, "m"):
		mult, s = 1e6, strings.TrimSuffix(s, "m")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(f * mult)
}
