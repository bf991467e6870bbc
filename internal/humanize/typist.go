// Package humanize types text into page elements the way a person would:
// one key at a time with jittered pauses and the occasional corrected typo.
package humanize

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/chromedp/chromedp/kb"

	"LinkedinLeads/internal/wait"
)

// Special keys accepted as trailing keys by Type.
const (
	KeyEnter     = kb.Enter
	KeyBackspace = kb.Backspace
	KeyArrowDown = kb.ArrowDown
)

// Keyer receives key presses. browser.Element satisfies it.
type Keyer interface {
	SendKeys(ctx context.Context, keys string) error
}

// Sleeper suspends the caller for d unless ctx ends first.
type Sleeper func(ctx context.Context, d time.Duration) error

// Typist is not safe for concurrent use; each run owns one.
type Typist struct {
	// MaxDelay bounds the pause after each keystroke, drawn from [0, MaxDelay).
	MaxDelay time.Duration
	// MistakeRate is the chance of typing the next character code first.
	MistakeRate float64
	Sleep       Sleeper

	rng *rand.Rand
}

// NewTypist returns a Typist whose typos and pauses are fully determined by seed.
func NewTypist(seed uint64) *Typist {
	return &Typist{
		MaxDelay:    200 * time.Millisecond,
		MistakeRate: 0.10,
		Sleep:       wait.Sleep,
		rng:         rand.New(rand.NewPCG(seed, seed)),
	}
}

// Type sends text character by character, then each trailing key.
// Trailing keys are special keys such as KeyEnter and are never mistyped.
func (t *Typist) Type(ctx context.Context, target Keyer, text string, trailing ...string) error {
	for _, r := range text {
		if t.rng.Float64() > 1-t.MistakeRate {
			if err := t.press(ctx, target, string(r+1)); err != nil {
				return err
			}
			if err := t.press(ctx, target, KeyBackspace); err != nil {
				return err
			}
		}
		if err := t.press(ctx, target, string(r)); err != nil {
			return err
		}
	}
	for _, k := range trailing {
		if err := t.press(ctx, target, k); err != nil {
			return err
		}
	}
	return nil
}

func (t *Typist) press(ctx context.Context, target Keyer, key string) error {
	if err := target.SendKeys(ctx, key); err != nil {
		return err
	}
	return t.Sleep(ctx, t.jitter(0, t.MaxDelay))
}

// Between pauses for a random duration in [min, max].
func (t *Typist) Between(ctx context.Context, min, max time.Duration) error {
	return t.Sleep(ctx, t.jitter(min, max+1))
}

func (t *Typist) jitter(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(t.rng.Int64N(int64(max-min)))
}
