// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	env "github.com/netflix/go-env"

	"LinkedinLeads/internal/linkedin"
)

// Config holds every setting of the crawler. Command-line flags override
// these values.
type Config struct {
	LinkedInEmail    string `env:"LINKEDIN_EMAIL"`
	LinkedInPassword string `env:"LINKEDIN_PASSWORD"`

	ChromePath string `env:"CHROME_PATH"`
	Headless   bool   `env:"HEADLESS,default=false"`
	UserAgent  string `env:"USER_AGENT"`
	Lang       string `env:"BROWSER_LANG,default=en-GB"`

	SearchTerm        string `env:"SEARCH_TERM"`
	SearchType        string `env:"SEARCH_TYPE"`
	SearchIndustry    string `env:"SEARCH_INDUSTRY"`
	SearchLocation    string `env:"SEARCH_LOCATION"`
	SearchCompanySize string `env:"SEARCH_COMPANY_SIZE"`
	NumOfResults      int    `env:"NUM_OF_RESULTS,default=10"`

	ResearchWebsite bool `env:"RESEARCH_WEBSITE,default=false"`
	SaveToGoogle    bool `env:"SAVE_TO_GOOGLE,default=false"`

	GoogleToken            string `env:"GOOGLE_TOKEN"`
	GoogleCredentialsFile  string `env:"GOOGLE_CREDENTIALS_FILE"`
	LeadsSpreadsheetID     string `env:"LEADS_SPREADSHEET_ID"`
	UsedLeadsSpreadsheetID string `env:"USED_LEADS_SPREADSHEET_ID"`

	SlackWebhookURL string `env:"SLACK_WEBHOOK_URL"`
	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"`
	LocatorsFile    string `env:"LOCATORS_FILE"`

	ProfilesPerMinute float64       `env:"PROFILES_PER_MINUTE,default=20"`
	MaxIdleSearches   int           `env:"MAX_IDLE_SEARCHES,default=5"`
	RunTimeout        time.Duration `env:"RUN_TIMEOUT,default=30m"`
	WebsiteTimeout    time.Duration `env:"WEBSITE_TIMEOUT,default=10s"`
	RandomSeed        int           `env:"RANDOM_SEED,default=0"`

	OutDir     string `env:"OUT_DIR,default=data"`
	ListenAddr string `env:"LISTEN_ADDR,default=:8080"`
}

// Load reads the environment. The caller loads .env first.
func Load() (*Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate clamps numeric settings to safe ranges and checks the ones that
// cannot be repaired.
func (c *Config) Validate() error {
	if c.NumOfResults < 1 {
		c.NumOfResults = 1
	}
	if c.NumOfResults > linkedin.MaxResults {
		c.NumOfResults = linkedin.MaxResults
	}
	if c.MaxIdleSearches < 1 {
		c.MaxIdleSearches = 1
	}
	if c.MaxIdleSearches > 50 {
		c.MaxIdleSearches = 50
	}
	if c.ProfilesPerMinute < 0 {
		c.ProfilesPerMinute = 0
	}
	if c.RunTimeout < 0 {
		c.RunTimeout = 0
	}
	if c.WebsiteTimeout <= 0 {
		c.WebsiteTimeout = 10 * time.Second
	}
	if strings.TrimSpace(c.OutDir) == "" {
		c.OutDir = "data"
	}

	if c.SlackWebhookURL != "" {
		if err := checkURL("SLACK_WEBHOOK_URL", c.SlackWebhookURL); err != nil {
			return err
		}
	}
	if c.OTLPEndpoint != "" {
		if err := checkURL("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", c.OTLPEndpoint); err != nil {
			return err
		}
	}
	if c.SaveToGoogle && c.LeadsSpreadsheetID == "" {
		return fmt.Errorf("LEADS_SPREADSHEET_ID is required when SAVE_TO_GOOGLE is set")
	}
	return nil
}

// Search builds the search request described by the SEARCH_* settings.
func (c *Config) Search() linkedin.SearchRequest {
	return linkedin.SearchRequest{
		Term: c.SearchTerm,
		Type: linkedin.ParseSearchType(c.SearchType),
		Filters: linkedin.Filters{
			Industry:    c.SearchIndustry,
			Location:    c.SearchLocation,
			CompanySize: c.SearchCompanySize,
		},
	}
}

func checkURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s URL format: %w", name, err)
	}
	if !strings.HasPrefix(u.Scheme, "http") {
		return fmt.Errorf("%s scheme must be http or https", name)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a valid host", name)
	}
	return nil
}
