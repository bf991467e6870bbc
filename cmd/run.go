package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"LinkedinLeads/internal/config"
	"LinkedinLeads/internal/export"
	"LinkedinLeads/internal/leads"
	"LinkedinLeads/internal/linkedin"
)

var runFlags struct {
	email           string
	password        string
	query           string
	searchType      string
	industry        string
	location        string
	companySize     string
	results         int
	headless        bool
	researchWebsite bool
	saveToGoogle    bool
	googleToken     string
	outDir          string
	writeJSON       bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one crawl and export the leads as CSV",
	Long: `Run logs into LinkedIn, collects the requested number of company leads and
writes them to a timestamped CSV in the output directory. Flags override the
matching environment variables.`,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.email, "email", "", "LinkedIn email (LINKEDIN_EMAIL)")
	f.StringVar(&runFlags.password, "password", "", "LinkedIn password (LINKEDIN_PASSWORD)")
	f.StringVarP(&runFlags.query, "query", "q", "", "search term (SEARCH_TERM)")
	f.StringVar(&runFlags.searchType, "type", "", "result type: people or company (SEARCH_TYPE)")
	f.StringVar(&runFlags.industry, "industry", "", "industry filter (SEARCH_INDUSTRY)")
	f.StringVar(&runFlags.location, "location", "", "location filter (SEARCH_LOCATION)")
	f.StringVar(&runFlags.companySize, "company-size", "", "company size filter, e.g. 11-50 (SEARCH_COMPANY_SIZE)")
	f.IntVarP(&runFlags.results, "results", "n", 10, "number of companies to collect (NUM_OF_RESULTS)")
	f.BoolVar(&runFlags.headless, "headless", false, "run Chrome headless (HEADLESS)")
	f.BoolVar(&runFlags.researchWebsite, "research-website", false, "scrape company websites (RESEARCH_WEBSITE)")
	f.BoolVar(&runFlags.saveToGoogle, "save-to-google", false, "append new leads to Google Sheets (SAVE_TO_GOOGLE)")
	f.StringVar(&runFlags.googleToken, "google-token", "", "Google OAuth2 access token (GOOGLE_TOKEN)")
	f.StringVar(&runFlags.outDir, "out-dir", "", "output directory (OUT_DIR)")
	f.BoolVar(&runFlags.writeJSON, "json", false, "also write the result as JSON next to the CSV")
}

// applyRunFlags copies the flags the user set over the environment values.
func applyRunFlags(cmd *cobra.Command, c *config.Config) error {
	f := cmd.Flags()
	set := func(name string, apply func()) {
		if f.Changed(name) {
			apply()
		}
	}
	set("email", func() { c.LinkedInEmail = runFlags.email })
	set("password", func() { c.LinkedInPassword = runFlags.password })
	set("query", func() { c.SearchTerm = runFlags.query })
	set("type", func() { c.SearchType = runFlags.searchType })
	set("industry", func() { c.SearchIndustry = runFlags.industry })
	set("location", func() { c.SearchLocation = runFlags.location })
	set("company-size", func() { c.SearchCompanySize = runFlags.companySize })
	set("results", func() { c.NumOfResults = runFlags.results })
	set("headless", func() { c.Headless = runFlags.headless })
	set("research-website", func() { c.ResearchWebsite = runFlags.researchWebsite })
	set("save-to-google", func() { c.SaveToGoogle = runFlags.saveToGoogle })
	set("google-token", func() { c.GoogleToken = runFlags.googleToken })
	set("out-dir", func() { c.OutDir = runFlags.outDir })
	c.SearchTerm = sanitizeQuotes(c.SearchTerm)
	return c.Validate()
}

func runRun(cmd *cobra.Command, args []string) error {
	if err := applyRunFlags(cmd, cfg); err != nil {
		return err
	}
	if cfg.LinkedInEmail == "" || cfg.LinkedInPassword == "" || cfg.SearchTerm == "" {
		return fmt.Errorf("usage: --email --password --query [--results N] [--headless] [--out-dir data]")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RunTimeout)
		defer cancel()
	}

	rec, shutdown, err := setupMetrics(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdown(context.WithoutCancel(ctx))

	logger := log.Default()
	runner, err := newRunner(cfg, logger, rec)
	if err != nil {
		return err
	}

	res := runner.Run(ctx, leads.Request{
		Credentials:     linkedin.Credentials{Email: cfg.LinkedInEmail, Password: cfg.LinkedInPassword},
		Search:          cfg.Search(),
		NumOfResults:    cfg.NumOfResults,
		ResearchWebsite: cfg.ResearchWebsite,
		SaveToGoogle:    cfg.SaveToGoogle,
		Token:           cfg.GoogleToken,
	})
	logger.Printf("📦 Total collected: %d companies", len(res.Data))

	now := time.Now()
	path := export.Filename(cfg.OutDir, now)
	if err := export.Write(path, res.Data, now); err != nil {
		return fmt.Errorf("failed to save CSV: %w", err)
	}
	logger.Printf("💾 CSV saved to: %s", path)

	if runFlags.writeJSON {
		jsonPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
		if err := writeJSON(jsonPath, res); err != nil {
			return fmt.Errorf("failed to save JSON: %w", err)
		}
		logger.Printf("💾 JSON saved to: %s", jsonPath)
	}

	if !res.Status {
		return fmt.Errorf("%s %s", res.Message, res.Error)
	}
	if res.Message != "" {
		logger.Printf("ℹ️ %s", res.Message)
	}
	logger.Println("🏁 Done.")
	return nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
