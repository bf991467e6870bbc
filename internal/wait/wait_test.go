package wait

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LinkedinLeads/internal/browser"
	"LinkedinLeads/internal/browser/browsertest"
)

var feed = browser.XPath("feed", `//div[@id="voyager-feed"]`)

func TestForFindsPresentElement(t *testing.T) {
	s := browsertest.New()
	s.Update(func(p *browsertest.Page) {
		p.Add(feed, &browsertest.Element{Text: "home"})
	})

	el, err := For(context.Background(), s, feed, Bounded(10*time.Millisecond, 1))
	require.NoError(t, err)
	text, err := el.Text(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "home", text)
}

func TestForBoundedReturnsNotFound(t *testing.T) {
	s := browsertest.New()
	misses := 0
	p := Policy{
		Interval: 5 * time.Millisecond,
		Retries:  3,
		OnMiss: func(context.Context, int) error {
			misses++
			return nil
		},
	}

	start := time.Now()
	_, err := For(context.Background(), s, feed, p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "feed after 3 retries")
	assert.Equal(t, 3, misses)
	// three checks and two pauses, no pause after the last check
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestForUnlimitedSeesLateElement(t *testing.T) {
	s := browsertest.New()
	go func() {
		time.Sleep(30 * time.Millisecond)
		s.Update(func(p *browsertest.Page) { p.Add(feed, &browsertest.Element{}) })
	}()

	_, err := For(context.Background(), s, feed, Policy{Interval: 5 * time.Millisecond, Retries: Unlimited})
	require.NoError(t, err)
}

func TestForUnlimitedHonorsCancellation(t *testing.T) {
	s := browsertest.New()
	ctx, cancel := context.WithCancel(context.Background())
	interval := 20 * time.Millisecond
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	_, err := For(ctx, s, feed, Policy{Interval: interval, Retries: Unlimited})
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 50*time.Millisecond+2*interval+50*time.Millisecond)
}

func TestForOnMissErrorStopsWait(t *testing.T) {
	s := browsertest.New()
	stop := errors.New("challenge")
	_, err := For(context.Background(), s, feed, Policy{
		Interval: time.Millisecond,
		OnMiss:   func(context.Context, int) error { return stop },
	})
	assert.ErrorIs(t, err, stop)
}

func TestPresent(t *testing.T) {
	s := browsertest.New()
	ok, err := Present(context.Background(), s, feed, 5*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)

	s.Update(func(p *browsertest.Page) { p.Add(feed, &browsertest.Element{}) })
	ok, err = Present(context.Background(), s, feed, 5*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))
}
