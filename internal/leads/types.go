// Package leads runs a complete crawl: open a browser, log in, then search
// and research companies until enough distinct leads are found, optionally
// enriching them from their websites and saving them to Google Sheets.
package leads

import (
	"context"

	"LinkedinLeads/internal/linkedin"
	"LinkedinLeads/internal/notify"
	"LinkedinLeads/internal/website"
)

// Messages reported by Result.Message.
const (
	MsgDriverUnavailable = "Could not start Chrome."
	MsgLoginFailed       = "Failed to login to LinkedIn."
	MsgSearchFailed      = "LinkedIn search failed."
	MsgLoggedLeadsFailed = "Failed to get Google leads."
	MsgSaveFailed        = "Failed to save to Google."
	MsgCancelled         = "Run cancelled."
	MsgExhausted         = "Search space exhausted."
)

// Request is the input of one run.
type Request struct {
	RunID           string
	Credentials     linkedin.Credentials
	Search          linkedin.SearchRequest
	NumOfResults    int
	ResearchWebsite bool
	SaveToGoogle    bool
	// Token is the Google OAuth2 access token used when SaveToGoogle is set.
	Token string
}

// Lead is a researched company plus what its website revealed.
type Lead struct {
	linkedin.CompanyRecord
	ProfileURL    string        `json:"profileUrl,omitempty"`
	WebsiteScrape *website.Info `json:"websiteScrape,omitempty"`
}

// Result is what a run returns to its caller.
type Result struct {
	Status  bool   `json:"status"`
	Data    []Lead `json:"data"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Saved   int    `json:"saved,omitempty"`

	Err error `json:"-"`
}

// Engine is the LinkedIn side of a run, implemented by *linkedin.Client.
type Engine interface {
	Authenticate(ctx context.Context, cred linkedin.Credentials) error
	Search(ctx context.Context, req linkedin.SearchRequest) (linkedin.SearchOutcome, error)
	ResearchCompany(ctx context.Context, href string) (linkedin.CompanyRecord, error)
}

// WebsiteResearcher is implemented by *website.Client.
type WebsiteResearcher interface {
	Research(ctx context.Context, site string) (*website.Info, error)
}

// LeadLog is the persistent list of known leads, implemented by *sheets.Client.
type LeadLog interface {
	LoggedLeads(ctx context.Context) ([]string, error)
	Append(ctx context.Context, rec linkedin.CompanyRecord, info *website.Info) error
}

// Notifier is implemented by *notify.Slack.
type Notifier interface {
	Notify(ctx context.Context, sum notify.Summary) error
}
