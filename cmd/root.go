package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"LinkedinLeads/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "linkedin-leads",
	Short: "Collect company leads from LinkedIn search",
	Long: `linkedin-leads logs into LinkedIn with a real Chrome session, searches with
the given filters, researches the company profiles it finds and lists their
decision makers. Leads can be enriched from company websites, saved to Google
Sheets and exported as CSV.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
	c, err := config.Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}
