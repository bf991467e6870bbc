package linkedin

import (
	"context"
	"fmt"

	"LinkedinLeads/internal/browser"
	"LinkedinLeads/internal/humanize"
)

type filterValue struct {
	name  string
	value string
}

// ordered lists the filters in the order they must be applied.
func (f Filters) ordered() []filterValue {
	return []filterValue{
		{"industry", f.Industry},
		{"location", f.Location},
		{"companySize", f.CompanySize},
	}
}

func (c *Client) applyFilter(ctx context.Context, name, value string) error {
	switch name {
	case "industry":
		return c.typeaheadFilter(ctx, c.loc.IndustryButton, c.loc.IndustryInput, c.loc.IndustryShowResults, value)
	case "location":
		return c.typeaheadFilter(ctx, c.loc.LocationButton, c.loc.LocationInput, c.loc.LocationShowResults, value)
	case "companySize":
		return c.companySizeFilter(ctx, value)
	default:
		return fmt.Errorf("unknown filter %q", name)
	}
}

// typeaheadFilter opens a filter popover, types the value, picks the first
// suggestion and confirms.
func (c *Client) typeaheadFilter(ctx context.Context, button, input, show browser.Locator, value string) error {
	if err := c.click(ctx, button); err != nil {
		return err
	}
	field, err := c.waitFor(ctx, input, 1)
	if err != nil {
		return err
	}
	if err := c.typist.Type(ctx, field, value); err != nil {
		return err
	}
	// suggestions load asynchronously
	if err := c.sleep(ctx, c.settle); err != nil {
		return err
	}
	if err := c.typist.Type(ctx, field, "", humanize.KeyArrowDown, humanize.KeyEnter); err != nil {
		return err
	}
	return c.click(ctx, show)
}

// companySizeFilter ticks a size bucket such as "11-50". LinkedIn applies
// size loosely, so results may still include other sizes.
func (c *Client) companySizeFilter(ctx context.Context, value string) error {
	if err := c.click(ctx, c.loc.CompanySizeButton); err != nil {
		return err
	}
	if _, err := c.waitFor(ctx, c.loc.CompanySizeShowResults, 1); err != nil {
		return err
	}
	if err := c.click(ctx, c.loc.CompanySizeOption.With(value)); err != nil {
		return err
	}
	return c.click(ctx, c.loc.CompanySizeShowResults)
}
