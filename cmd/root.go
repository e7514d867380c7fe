// Package cmd implements the command-line interface for jobharvest.
// It provides the root command and subcommands for running the scrape
// and import pipeline.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdimport "github.com/devjobshq/jobharvest/cmd/importcmd"
	cmdschedule "github.com/devjobshq/jobharvest/cmd/schedule"
	cmdscrape "github.com/devjobshq/jobharvest/cmd/scrape"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug mode for all commands
	Debug bool

	// rootCmd represents the root command for the jobharvest CLI.
	rootCmd = &cobra.Command{
		Use:   "jobharvest",
		Short: "Discover and harvest job postings into Postgres",
		Long: `jobharvest scans a job site's sequential identifier space for live
postings, harvests each posting's details with bounded concurrency, and
imports the result idempotently into PostgreSQL.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command
func Execute() error {
	// Load .env file early so environment variables are available
	_ = godotenv.Load()

	// Parse flags early to get debug flag before creating logger
	_ = rootCmd.ParseFlags(os.Args[1:])

	// Initialize configuration
	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	// Execute the root command with a fresh context
	return rootCmd.ExecuteContext(context.Background())
}

// init initializes the root command and its subcommands.
func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug mode")

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("jobharvest version %s\n", "1.0.0")
		},
	})

	// Add subcommands
	rootCmd.AddCommand(cmdscrape.Command())
	rootCmd.AddCommand(cmdimport.Command())
	rootCmd.AddCommand(cmdschedule.Command())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	// Set config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	// Enable automatic environment variable reading BEFORE setting defaults
	// so environment variables take precedence over defaults
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// Config file is optional: defaults plus environment variables are a
	// complete configuration on their own
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Config file not found: %v (using defaults and environment variables)\n", err)
	}

	if err := bindEnvVars(); err != nil {
		return err
	}

	setupDevelopmentLogging()

	return nil
}

// bindEnvVars maps environment variables to config keys.
func bindEnvVars() error {
	if err := viper.BindEnv("database.url", "DATABASE_URL"); err != nil {
		return fmt.Errorf("failed to bind DATABASE_URL: %w", err)
	}
	if err := viper.BindEnv("logger.level", "LOG_LEVEL"); err != nil {
		return fmt.Errorf("failed to bind LOG_LEVEL: %w", err)
	}
	if err := viper.BindEnv("logger.encoding", "LOG_FORMAT"); err != nil {
		return fmt.Errorf("failed to bind LOG_FORMAT: %w", err)
	}
	if err := viper.BindEnv("app.debug", "APP_DEBUG"); err != nil {
		return fmt.Errorf("failed to bind APP_DEBUG: %w", err)
	}
	if err := viper.BindEnv("source.base_url", "SOURCE_BASE_URL"); err != nil {
		return fmt.Errorf("failed to bind SOURCE_BASE_URL: %w", err)
	}
	if err := viper.BindEnv("scanner.fallback_start_id", "SCANNER_FALLBACK_START_ID"); err != nil {
		return fmt.Errorf("failed to bind SCANNER_FALLBACK_START_ID: %w", err)
	}
	return nil
}

// setupDevelopmentLogging configures logging based on the debug flag.
func setupDevelopmentLogging() {
	debugFlag := Debug || viper.GetBool("app.debug")
	if debugFlag {
		viper.Set("logger.level", "debug")
		viper.Set("logger.development", true)
		viper.Set("logger.encoding", "console")
	}
	Debug = debugFlag
}

// setDefaults sets default configuration values
func setDefaults() {
	// Logger defaults - production safe
	viper.SetDefault("logger", map[string]any{
		"level":        "info",
		"development":  false,
		"encoding":     "json",
		"output_paths": []string{"stdout"},
		"enable_color": false,
	})

	// Source defaults
	viper.SetDefault("source", map[string]any{
		"base_url":     "https://www.devjobsindia.org",
		"listing_path": "/jobs_list.php",
		"detail_path":  "/jobdescription.php?job_id=%d",
		"user_agent":   "jobharvest/1.0",
	})

	// Scanner defaults
	viper.SetDefault("scanner", map[string]any{
		"batch_size":        10,
		"invalid_threshold": 100,
		"probe_timeout":     (10 * time.Second).String(),
		"bootstrap_retries": 3,
		"bootstrap_timeout": (30 * time.Second).String(),
		"fallback_start_id": 0,
	})

	// Harvester defaults
	viper.SetDefault("harvester", map[string]any{
		"batch_size":    10,
		"fetch_timeout": (15 * time.Second).String(),
	})

	// Schedule defaults
	viper.SetDefault("schedule", map[string]any{
		"spec":        "0 6 * * *",
		"health_addr": ":8099",
		"output_path": "jobs.json",
	})
}
