package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"LinkedinLeads/internal/browser"
	"LinkedinLeads/internal/config"
	"LinkedinLeads/internal/leads"
	"LinkedinLeads/internal/linkedin"
	"LinkedinLeads/internal/metrics"
	"LinkedinLeads/internal/notify"
	"LinkedinLeads/internal/sheets"
	"LinkedinLeads/internal/website"
)

// Pause between employee result pages.
const (
	pageDelayMin = 1500 * time.Millisecond
	pageDelayMax = 3000 * time.Millisecond
)

// setupMetrics installs the meter provider for the process.
func setupMetrics(ctx context.Context, c *config.Config) (*metrics.Recorder, func(context.Context) error, error) {
	shutdown, err := metrics.Setup(ctx, c.OTLPEndpoint)
	if err != nil {
		return nil, nil, err
	}
	rec, err := metrics.New(nil)
	if err != nil {
		shutdown(ctx)
		return nil, nil, err
	}
	return rec, shutdown, nil
}

// newRunner wires a leads.Runner from configuration. Logs of the run and of
// every collaborator go to logger.
func newRunner(c *config.Config, logger *log.Logger, rec *metrics.Recorder) (*leads.Runner, error) {
	locs, err := linkedin.LoadLocators(c.LocatorsFile)
	if err != nil {
		return nil, err
	}

	seed := uint64(c.RandomSeed)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	site := website.New(logger)
	site.Timeout = c.WebsiteTimeout
	if c.UserAgent != "" {
		site.UserAgent = c.UserAgent
	}

	r := &leads.Runner{
		Browser: browser.Launcher{Options: browser.Options{
			Headless:  c.Headless,
			ExecPath:  c.ChromePath,
			UserAgent: c.UserAgent,
			Lang:      c.Lang,
			Logger:    logger,
		}},
		Client: linkedin.Options{
			Locators:     locs,
			Seed:         seed,
			Headless:     c.Headless,
			PageDelayMin: pageDelayMin,
			PageDelayMax: pageDelayMax,
		},
		Website:         site,
		LeadLogs:        leadLogs(c),
		Metrics:         rec,
		MaxIdleSearches: c.MaxIdleSearches,
		WebsiteTimeout:  c.WebsiteTimeout,
		Logger:          logger,
	}
	if c.SlackWebhookURL != "" {
		r.Notifier = notify.NewSlack(c.SlackWebhookURL)
	}
	if c.ProfilesPerMinute > 0 {
		r.Limiter = rate.NewLimiter(rate.Limit(c.ProfilesPerMinute/60), 1)
	}
	return r, nil
}

// leadLogs opens the Google Sheets lead log with the request's access token,
// falling back to the configured credentials file.
func leadLogs(c *config.Config) func(ctx context.Context, token string) (leads.LeadLog, error) {
	ids := sheets.IDs{Leads: c.LeadsSpreadsheetID, UsedLeads: c.UsedLeadsSpreadsheetID}
	return func(ctx context.Context, token string) (leads.LeadLog, error) {
		var auth option.ClientOption
		switch {
		case strings.TrimSpace(token) != "":
			auth = sheets.WithToken(token)
		case c.GoogleCredentialsFile != "":
			opt, err := sheets.WithCredentialsFile(ctx, c.GoogleCredentialsFile)
			if err != nil {
				return nil, err
			}
			auth = opt
		default:
			return nil, nil
		}
		if ids.Leads == "" {
			return nil, fmt.Errorf("LEADS_SPREADSHEET_ID is not set")
		}
		client, err := sheets.New(ctx, ids, auth)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// sanitizeQuotes replaces typographic quotes that break LinkedIn's search
// syntax with plain ones.
func sanitizeQuotes(s string) string {
	repl := map[rune]rune{
		'“': '"', '”': '"', '‟': '"', '〝': '"', '〞': '"',
		'‘': '\'', '’': '\'', '‛': '\'', '‚': '\'', '‹': '\'', '›': '\'',
	}
	var b strings.Builder
	for _, r := range s {
		if rr, ok := repl[r]; ok {
			b.WriteRune(rr)
		} else {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
