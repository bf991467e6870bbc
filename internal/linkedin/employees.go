package linkedin

import (
	"context"
	"fmt"
	"strings"
)

const (
	maxEmployeePages = 5
	// LinkedIn sometimes caps people results at 3 per page without marking
	// the page as the last one.
	cappedPageSize = 3
)

// Vocabulary is the ordered list of job titles worth recording. Order is the
// tie-break: the first entry that prefixes a raw title wins.
var Vocabulary = []string{
	"Director",
	"Founder",
	"Co-Founder",
	"Cofounder",
	"Creator",
	"Managing Director",
	"Manager",
	"Company Director",
	"Business Development Manager",
	"Chief Executive Officer",
	"Digital Marketing Executive",
	"Marketing Manager",
	"CEO",
	"President",
	"Owner",
	"Business Owner",
}

// Classify maps a raw job title to the first vocabulary entry it starts
// with, ignoring case.
func Classify(raw string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return "", false
	}
	for _, title := range Vocabulary {
		if strings.HasPrefix(lower, strings.ToLower(title)) {
			return title, true
		}
	}
	return "", false
}

// Employees pages through the people search of the company at link and
// returns the people whose titles classify. Pages are visited in order and
// at most five are read. A short page ends the walk, except a page of
// exactly three rows, which LinkedIn shows even when more pages exist.
func (c *Client) Employees(ctx context.Context, link string) ([]EmployeeRecord, error) {
	current, err := c.s.CurrentURL(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmployeesUnavailable, err)
	}
	if current != link {
		if err := c.s.Navigate(ctx, link); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrNavigationFailed, link, err)
		}
	}

	if _, err := c.waitFor(ctx, c.loc.EmployeesLink, 2); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmployeesUnavailable, err)
	}
	if err := c.click(ctx, c.loc.EmployeesLink); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmployeesUnavailable, err)
	}
	if _, err := c.waitFor(ctx, c.loc.EmployeeRow, 5); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmployeesUnavailable, err)
	}
	peopleURL, err := c.s.CurrentURL(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmployeesUnavailable, err)
	}

	var out []EmployeeRecord
	for page := 1; ; page++ {
		if page > 1 {
			if err := c.pause(ctx); err != nil {
				return out, err
			}
			next, err := WithPage(peopleURL, page)
			if err != nil {
				return out, fmt.Errorf("%w: %w", ErrNavigationFailed, err)
			}
			if err := c.s.Navigate(ctx, next); err != nil {
				return out, fmt.Errorf("%w: %s: %w", ErrNavigationFailed, next, err)
			}
			if _, err := c.waitFor(ctx, c.loc.EmployeeRow, 2); err != nil {
				if ctx.Err() != nil {
					return out, ctx.Err()
				}
				c.logger.Printf("linkedin: no employees on page %d, stopping", page)
				return out, nil
			}
		}

		rows, err := c.s.FindAll(ctx, c.loc.EmployeeRow)
		if err != nil {
			return out, fmt.Errorf("%w: %w", ErrEmployeesUnavailable, err)
		}
		last := (len(rows) < ResultsPerPage && len(rows) != cappedPageSize) || page >= maxEmployeePages

		for i := 1; i <= len(rows); i++ {
			if rec, ok := c.employee(ctx, i); ok {
				out = append(out, rec)
			}
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if last {
			break
		}
	}
	c.logger.Printf("linkedin: found %d employees", len(out))
	return out, nil
}

// employee reads row i (1-based) of the current people page.
func (c *Client) employee(ctx context.Context, i int) (EmployeeRecord, bool) {
	raw, err := c.text(ctx, c.loc.EmployeeRow.Nth(i, c.loc.EmployeeSubtitle.Query))
	if err != nil || raw == "" {
		c.logger.Printf("linkedin: no job title on employee row %d", i)
		return EmployeeRecord{}, false
	}
	title, ok := Classify(raw)
	if !ok {
		return EmployeeRecord{}, false
	}
	// names of people outside the user's network show as "LinkedIn Member"
	// and have no name landmark
	name, err := c.text(ctx, c.loc.EmployeeRow.Nth(i, c.loc.EmployeeName.Query))
	if err != nil || name == "" {
		c.logger.Printf("linkedin: no name on employee row %d", i)
		return EmployeeRecord{}, false
	}
	return EmployeeRecord{Name: name, JobTitle: title}, true
}

func (c *Client) pause(ctx context.Context) error {
	if c.pageMax <= 0 {
		return ctx.Err()
	}
	return c.typist.Between(ctx, c.pageMin, c.pageMax)
}
