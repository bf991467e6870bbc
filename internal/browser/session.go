// Package browser wraps a single automated browser tab behind a small
// Session interface so the LinkedIn engine can be driven by chromedp in
// production and by an in-memory fake in tests.
package browser

import (
	"context"
	"errors"
)

var (
	// ErrDriverUnavailable is returned when the browser process cannot be started.
	ErrDriverUnavailable = errors.New("browser driver unavailable")
	// ErrNoSuchElement is returned by Find when nothing matches the locator.
	ErrNoSuchElement = errors.New("no such element")
	// ErrNoAttribute is returned by Element.Attribute when the attribute is absent.
	ErrNoAttribute = errors.New("attribute not present")
)

// Element is a handle to one node of the current page.
type Element interface {
	Text(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, error)
	Click(ctx context.Context) error
	SendKeys(ctx context.Context, keys string) error
}

// Session is one browser tab exclusively owned by a run. Operations are not
// safe for concurrent use.
type Session interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)

	// Present blocks until loc matches at least one node or ctx is done.
	// Callers bound the wait with a context deadline.
	Present(ctx context.Context, loc Locator) error

	// Find and FindAll look the locator up once, without waiting.
	Find(ctx context.Context, loc Locator) (Element, error)
	FindAll(ctx context.Context, loc Locator) ([]Element, error)

	// Quit releases the browser. It is safe to call more than once.
	Quit() error
}

// Opener starts new sessions. Each run opens its own.
type Opener interface {
	Open(ctx context.Context) (Session, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context) (Session, error)

func (f OpenerFunc) Open(ctx context.Context) (Session, error) { return f(ctx) }
