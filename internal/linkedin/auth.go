package linkedin

import (
	"context"
	"fmt"
	"strings"

	"LinkedinLeads/internal/humanize"
	"LinkedinLeads/internal/wait"
)

// Authenticate logs the session in.
//
// After submitting the form it waits briefly for the feed. If the feed does
// not show, login is probably held by a captcha or verification step that a
// person has to solve in the browser window, so it keeps polling the feed
// with no deadline until it appears or ctx ends.
func (c *Client) Authenticate(ctx context.Context, cred Credentials) error {
	c.logger.Printf("linkedin: logging in as %s", cred.Email)
	if err := c.s.Navigate(ctx, LoginURL); err != nil {
		return fmt.Errorf("%w: load login page: %w", ErrAuthFailed, err)
	}

	user, err := c.waitFor(ctx, c.loc.LoginUsername, 5)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	if err := c.typist.Type(ctx, user, cred.Email); err != nil {
		return fmt.Errorf("%w: type email: %w", ErrAuthFailed, err)
	}
	if err := c.typeInto(ctx, c.loc.LoginPassword, cred.Password, humanize.KeyEnter); err != nil {
		return fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}

	ok, err := wait.Present(ctx, c.s, c.loc.Feed, c.login)
	if err != nil {
		return err
	}
	if ok {
		c.logger.Printf("linkedin: logged in")
		return nil
	}

	c.logger.Printf("linkedin: feed did not load within %s, possible captcha to solve", c.login)
	warned := false
	_, err = wait.For(ctx, c.s, c.loc.Feed, wait.Policy{
		Interval: c.poll,
		Retries:  wait.Unlimited,
		OnMiss: func(ctx context.Context, attempt int) error {
			if !c.challenged(ctx) {
				return nil
			}
			if c.headless {
				return fmt.Errorf("%w: login challenge cannot be solved in headless mode", ErrAuthFailed)
			}
			if !warned {
				c.logger.Printf("⏳ linkedin: login challenge detected, solve it in the browser window")
				warned = true
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	c.logger.Printf("linkedin: logged in")
	return nil
}

// challenged reports whether a captcha, checkpoint or one-time-code page is showing.
func (c *Client) challenged(ctx context.Context) bool {
	if _, err := c.s.Find(ctx, c.loc.Challenge); err == nil {
		return true
	}
	u, err := c.s.CurrentURL(ctx)
	return err == nil && strings.Contains(u, "/checkpoint/challenge")
}
