// Package browsertest provides a scriptable in-memory browser.Session.
//
// Pages are keyed by URL and hold elements keyed by locator query, so tests
// describe what a page shows with the same Locators the engine uses. Element
// hooks simulate the page reacting to clicks and key presses.
package browsertest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"LinkedinLeads/internal/browser"
)

// Element is one fake node.
type Element struct {
	Text    string
	Attrs   map[string]string
	TextErr error

	// OnClick runs after the click is recorded.
	OnClick func(s *Session)
	// OnKeys runs after every SendKeys call with the keys sent.
	OnKeys func(s *Session, keys string)
}

// Page is the content shown for one URL.
type Page struct {
	Elements map[string][]*Element
}

func NewPage() *Page { return &Page{Elements: map[string][]*Element{}} }

// Add places els under loc's query, replacing anything already there.
func (p *Page) Add(loc browser.Locator, els ...*Element) *Page {
	p.Elements[loc.Query] = els
	return p
}

// Remove drops every element matching loc.
func (p *Page) Remove(loc browser.Locator) *Page {
	delete(p.Elements, loc.Query)
	return p
}

// Session implements browser.Session over a set of fake pages.
type Session struct {
	mu          sync.Mutex
	pages       map[string]*Page
	navigateErr map[string]error
	url         string
	page        *Page

	navigations []string
	clicks      []string
	keys        map[string][]string
	quits       int
}

func New() *Session {
	return &Session{
		pages:       map[string]*Page{},
		navigateErr: map[string]error{},
		page:        NewPage(),
		keys:        map[string][]string{},
	}
}

// AddPage registers the page shown after navigating to url.
func (s *Session) AddPage(url string, p *Page) *Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[url] = p
	return p
}

// FailNavigation makes Navigate(url) return err.
func (s *Session) FailNavigation(url string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigateErr[url] = err
}

// Goto switches the current page without recording a navigation, the way a
// form submit or client-side route change would.
func (s *Session) Goto(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.show(url)
}

// Update mutates the current page under the session lock.
func (s *Session) Update(fn func(p *Page)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.page)
}

func (s *Session) show(url string) {
	s.url = url
	if p, ok := s.pages[url]; ok {
		s.page = p
		return
	}
	s.page = NewPage()
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigations = append(s.navigations, url)
	if err := s.navigateErr[url]; err != nil {
		return err
	}
	s.show(url)
	return nil
}

func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url, nil
}

func (s *Session) lookup(loc browser.Locator) []*Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page.Elements[loc.Query]
}

func (s *Session) Present(ctx context.Context, loc browser.Locator) error {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		if len(s.lookup(loc)) > 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Session) Find(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	els := s.lookup(loc)
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s", browser.ErrNoSuchElement, loc.Name)
	}
	return &handle{s: s, name: loc.Name, el: els[0]}, nil
}

func (s *Session) FindAll(ctx context.Context, loc browser.Locator) ([]browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	els := s.lookup(loc)
	out := make([]browser.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &handle{s: s, name: loc.Name, el: el})
	}
	return out, nil
}

func (s *Session) Quit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quits++
	return nil
}

// Navigations lists every URL passed to Navigate, in order.
func (s *Session) Navigations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.navigations...)
}

// Clicks lists the locator names of clicked elements, in order.
func (s *Session) Clicks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.clicks...)
}

// Clicked reports whether an element found by the named locator was clicked.
func (s *Session) Clicked(name string) bool {
	for _, c := range s.Clicks() {
		if c == name {
			return true
		}
	}
	return false
}

// Keys returns every key string sent to elements found by the named locator.
func (s *Session) Keys(name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.keys[name]...)
}

// Typed joins Keys(name) into one string.
func (s *Session) Typed(name string) string {
	return strings.Join(s.Keys(name), "")
}

// QuitCount reports how many times Quit was called.
func (s *Session) QuitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quits
}

type handle struct {
	s    *Session
	name string
	el   *Element
}

func (h *handle) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if h.el.TextErr != nil {
		return "", h.el.TextErr
	}
	return h.el.Text, nil
}

func (h *handle) Attribute(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v, ok := h.el.Attrs[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", browser.ErrNoAttribute, name)
	}
	return v, nil
}

func (h *handle) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.s.mu.Lock()
	h.s.clicks = append(h.s.clicks, h.name)
	h.s.mu.Unlock()
	if h.el.OnClick != nil {
		h.el.OnClick(h.s)
	}
	return nil
}

func (h *handle) SendKeys(ctx context.Context, keys string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.s.mu.Lock()
	h.s.keys[h.name] = append(h.s.keys[h.name], keys)
	h.s.mu.Unlock()
	if h.el.OnKeys != nil {
		h.el.OnKeys(h.s, keys)
	}
	return nil
}
