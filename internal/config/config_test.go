package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"LinkedinLeads/internal/linkedin"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		require.Equal(t, 10, cfg.NumOfResults)
		require.Equal(t, 5, cfg.MaxIdleSearches)
		require.Equal(t, 20.0, cfg.ProfilesPerMinute)
		require.Equal(t, 30*time.Minute, cfg.RunTimeout)
		require.Equal(t, 10*time.Second, cfg.WebsiteTimeout)
		require.Equal(t, "data", cfg.OutDir)
		require.Equal(t, ":8080", cfg.ListenAddr)
		require.False(t, cfg.Headless)
	})

	t.Run("parses search settings", func(t *testing.T) {
		t.Setenv("SEARCH_TERM", "digital agency")
		t.Setenv("SEARCH_TYPE", "company")
		t.Setenv("SEARCH_INDUSTRY", "Advertising Services")
		t.Setenv("SEARCH_LOCATION", "London")
		t.Setenv("SEARCH_COMPANY_SIZE", "11-50")
		t.Setenv("HEADLESS", "true")
		t.Setenv("RANDOM_SEED", "42")

		cfg, err := Load()
		require.NoError(t, err)

		require.Equal(t, linkedin.SearchRequest{
			Term: "digital agency",
			Type: linkedin.Company,
			Filters: linkedin.Filters{
				Industry:    "Advertising Services",
				Location:    "London",
				CompanySize: "11-50",
			},
		}, cfg.Search())
		require.True(t, cfg.Headless)
		require.Equal(t, 42, cfg.RandomSeed)
	})

	t.Run("clamps ranges", func(t *testing.T) {
		t.Setenv("NUM_OF_RESULTS", "5000")
		t.Setenv("MAX_IDLE_SEARCHES", "0")
		t.Setenv("PROFILES_PER_MINUTE", "-3")

		cfg, err := Load()
		require.NoError(t, err)

		require.Equal(t, linkedin.MaxResults, cfg.NumOfResults)
		require.Equal(t, 1, cfg.MaxIdleSearches)
		require.Zero(t, cfg.ProfilesPerMinute)
	})

	t.Run("rejects bad webhook", func(t *testing.T) {
		t.Setenv("SLACK_WEBHOOK_URL", "hooks.slack.com/services/T000")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "SLACK_WEBHOOK_URL")
	})

	t.Run("google needs a spreadsheet", func(t *testing.T) {
		t.Setenv("SAVE_TO_GOOGLE", "true")

		_, err := Load()
		require.Error(t, err)

		t.Setenv("LEADS_SPREADSHEET_ID", "1AbC")
		cfg, err := Load()
		require.NoError(t, err)
		require.True(t, cfg.SaveToGoogle)
	})
}
