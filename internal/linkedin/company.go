package linkedin

import (
	"context"
	"fmt"
	"strings"

	"LinkedinLeads/internal/browser"
)

// ResearchCompany reads a company profile. The title and the About section
// are required; every other field is optional and simply left empty when
// the page does not show it. Employees are looked up last and a failure
// there only leaves Employees nil.
func (c *Client) ResearchCompany(ctx context.Context, href string) (CompanyRecord, error) {
	var rec CompanyRecord
	c.logger.Printf("linkedin: researching %s", href)
	if err := c.s.Navigate(ctx, href); err != nil {
		return rec, fmt.Errorf("%w: %s: %w", ErrNavigationFailed, href, err)
	}

	el, err := c.waitFor(ctx, c.loc.CompanyTitle, 5)
	if err != nil {
		return rec, fmt.Errorf("%w: %s: %w", ErrTitleNotFound, href, err)
	}
	title, err := el.Text(ctx)
	if err != nil {
		return rec, fmt.Errorf("%w: %s: %w", ErrTitleNotFound, href, err)
	}
	if rec.Title = clean(title); rec.Title == "" {
		return rec, fmt.Errorf("%w: %s: empty title", ErrTitleNotFound, href)
	}

	if err := c.click(ctx, c.loc.AboutTab); err != nil {
		return rec, fmt.Errorf("%w: %s: %w", ErrAboutNotFound, href, err)
	}
	if _, err := c.waitFor(ctx, c.loc.AboutOverview, 5); err != nil {
		return rec, fmt.Errorf("%w: %s: %w", ErrAboutNotFound, href, err)
	}

	rec.Overview = c.field(ctx, c.loc.OverviewText, href)
	rec.Industry = c.field(ctx, c.loc.IndustryField, href)
	rec.Founded = c.field(ctx, c.loc.FoundedField, href)
	rec.Phone = strings.Join(strings.Fields(c.field(ctx, c.loc.PhoneField, href)), "")
	rec.Website = c.field(ctx, c.loc.WebsiteField, href)
	rec.Headquarters = c.field(ctx, c.loc.HeadquartersField, href)
	rec.Type = c.field(ctx, c.loc.TypeField, href)
	if err := ctx.Err(); err != nil {
		return rec, err
	}

	current, err := c.s.CurrentURL(ctx)
	if err != nil {
		c.logger.Printf("linkedin: no employees for %s: %v", href, err)
		return rec, ctx.Err()
	}
	employees, err := c.Employees(ctx, current)
	switch {
	case ctx.Err() != nil:
		return rec, ctx.Err()
	case err != nil:
		c.logger.Printf("linkedin: no employees for %s: %v", href, err)
	case len(employees) == 0:
		c.logger.Printf("linkedin: no employees found for %s", href)
	}
	if err == nil && len(employees) > 0 {
		rec.Employees = employees
	}
	return rec, nil
}

func (c *Client) field(ctx context.Context, loc browser.Locator, href string) string {
	s, err := c.text(ctx, loc)
	if err != nil {
		c.logger.Printf("linkedin: found no %s for %s", loc.Name, href)
		return ""
	}
	return s
}
