// Package sheets keeps the Google Sheets lead log: the list of companies
// already saved, and appending newly found ones.
package sheets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"LinkedinLeads/internal/linkedin"
	"LinkedinLeads/internal/website"
)

const (
	// titleRange is the company title column, below the header row.
	titleRange  = "Sheet1!A2:A"
	appendRange = "Sheet1!A2"
)

// IDs names the two spreadsheets of the lead log. UsedLeads holds leads
// already contacted and moved out of Leads; it is only read.
type IDs struct {
	Leads     string
	UsedLeads string
}

// Client reads and appends the lead log.
type Client struct {
	service *sheets.Service
	ids     IDs
}

// New creates a client. Authentication comes from opts, usually WithToken
// or WithCredentialsFile.
func New(ctx context.Context, ids IDs, opts ...option.ClientOption) (*Client, error) {
	if ids.Leads == "" {
		return nil, fmt.Errorf("leads spreadsheet id is required")
	}
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}
	return &Client{service: service, ids: ids}, nil
}

// WithToken authenticates with a user's OAuth2 access token.
func WithToken(accessToken string) option.ClientOption {
	return option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
}

// WithCredentialsFile authenticates with a service account or workload
// identity credentials file.
func WithCredentialsFile(ctx context.Context, path string) (option.ClientOption, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return option.WithCredentials(creds), nil
}

// LoggedLeads returns every company title in the used-leads and leads
// spreadsheets, in that order.
func (c *Client) LoggedLeads(ctx context.Context) ([]string, error) {
	var titles []string
	for _, id := range []string{c.ids.UsedLeads, c.ids.Leads} {
		if id == "" {
			continue
		}
		resp, err := c.service.Spreadsheets.Values.Get(id, titleRange).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get logged leads from %s: %w", id, err)
		}
		for _, row := range resp.Values {
			if len(row) == 0 {
				continue
			}
			titles = append(titles, fmt.Sprint(row[0]))
		}
	}
	return titles, nil
}

// Append adds one lead as a new row of the leads spreadsheet.
func (c *Client) Append(ctx context.Context, rec linkedin.CompanyRecord, info *website.Info) error {
	vr := &sheets.ValueRange{Values: [][]any{Row(rec, info)}}
	_, err := c.service.Spreadsheets.Values.Append(c.ids.Leads, appendRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append %q to %s: %w", rec.Title, c.ids.Leads, err)
	}
	return nil
}
