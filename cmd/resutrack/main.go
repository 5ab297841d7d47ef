// Package main provides the resutrack command line tool for tracking
// resume submissions.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// getenv is swapped out by tests.
var getenv = os.Getenv

var rootFlags struct {
	configPath  string
	backend     string
	storeDir    string
	slotKey     string
	redisURL    string
	databaseURL string
	classifier  string
	model       string
	logLevel    string
	logFormat   string
}

var rootCmd = &cobra.Command{
	Use:   "resutrack",
	Short: "Track resume submissions",
	Long: "resutrack keeps a list of job applications: company, resume link, dates, stipend " +
		"and notes. It can check whether a resume link looks shareable and export the list " +
		"as a spreadsheet.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", "", "Path to a JSON or YAML config file")
	pf.StringVar(&rootFlags.backend, "backend", "", "Storage backend: file, redis or postgres")
	pf.StringVar(&rootFlags.storeDir, "store", "", "Directory for the file backend")
	pf.StringVar(&rootFlags.slotKey, "slot-key", "", "Storage key holding the entries")
	pf.StringVar(&rootFlags.redisURL, "redis-url", "", "Redis URL for the redis backend")
	pf.StringVar(&rootFlags.databaseURL, "database-url", "", "PostgreSQL URL for the postgres backend")
	pf.StringVar(&rootFlags.classifier, "classifier", "", "Link classifier: auto, llm or rules")
	pf.StringVar(&rootFlags.model, "model", "", "Gemini model for link checks")
	pf.StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "", "Log format: json or pretty")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
