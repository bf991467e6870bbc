// Package wait polls a browser session for page landmarks.
//
// Every wait in the crawler goes through For so that bounded and unbounded
// retry policies are chosen explicitly per call site. Intervals are fixed;
// there is no backoff.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"

	"LinkedinLeads/internal/browser"
)

// ErrNotFound is returned when a landmark did not appear within the retry budget.
var ErrNotFound = errors.New("element not found")

// Unlimited retries until the landmark appears or the context ends.
const Unlimited = 0

// Target is the part of a session that waiting needs.
type Target interface {
	Present(ctx context.Context, loc browser.Locator) error
	Find(ctx context.Context, loc browser.Locator) (browser.Element, error)
}

// Policy controls one wait.
type Policy struct {
	// Interval bounds each presence check and is also the pause between checks.
	Interval time.Duration
	// Retries is the number of checks; Unlimited keeps checking forever.
	Retries int
	// OnMiss runs after every failed check. A non-nil error ends the wait.
	OnMiss func(ctx context.Context, attempt int) error
}

// Bounded is a Policy of n checks spaced by interval.
func Bounded(interval time.Duration, n int) Policy {
	return Policy{Interval: interval, Retries: n}
}

// For waits until loc is present and returns the first match.
func For(ctx context.Context, t Target, loc browser.Locator, p Policy) (browser.Element, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = time.Second
	}
	for attempt := 1; p.Retries == Unlimited || attempt <= p.Retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		actx, cancel := context.WithTimeout(ctx, interval)
		err := t.Present(actx, loc)
		cancel()
		if err == nil {
			el, ferr := t.Find(ctx, loc)
			if ferr == nil {
				return el, nil
			}
			err = ferr
		}
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}

		if p.OnMiss != nil {
			if herr := p.OnMiss(ctx, attempt); herr != nil {
				return nil, herr
			}
		}
		if p.Retries != Unlimited && attempt == p.Retries {
			break
		}
		if err := Sleep(ctx, interval); err != nil {
			return nil, err
		}
	}

	retries := "unlimited"
	if p.Retries != Unlimited {
		retries = fmt.Sprint(p.Retries)
	}
	return nil, fmt.Errorf("%w: %s after %s retries", ErrNotFound, loc.Name, retries)
}

// Present reports whether loc shows up within one bounded check of d.
// Absence is not an error; only context cancellation is.
func Present(ctx context.Context, t Target, loc browser.Locator, d time.Duration) (bool, error) {
	_, err := For(ctx, t, loc, Bounded(d, 1))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Sleep pauses for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
