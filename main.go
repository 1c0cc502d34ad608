package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"caseflow/clients"
	"caseflow/config"
	"caseflow/logger"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "caseflow",
		Short: "Case-management client for debt-advice centres",
		Long: `caseflow is a CLI client for the debt-advice case-management API.

It manages cases, tasks and compliance checklists, browses and maintains a
case's document tree, and launches backend agentic workflows such as report
generation.`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.caseflow.yaml)")
	rootCmd.PersistentFlags().StringP("base-url", "u", "", "case-management API base URL")
	rootCmd.PersistentFlags().StringP("token", "t", "", "API bearer token")
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "HTTP request timeout")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-file", "", "optional rotated log file")

	// Bind flags to viper
	viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	viper.BindPFlag("api.token", rootCmd.PersistentFlags().Lookup("token"))
	viper.BindPFlag("api.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))

	// Bind environment variables
	viper.BindEnv("api.base_url", "CASEFLOW_BASE_URL")
	viper.BindEnv("api.token", "CASEFLOW_TOKEN")
	viper.BindEnv("api.timeout", "CASEFLOW_TIMEOUT")
	viper.BindEnv("log.level", "CASEFLOW_LOG_LEVEL")
	viper.BindEnv("log.file", "CASEFLOW_LOG_FILE")
}

func initConfig() {
	if cfgFile != "" {
		// Use specified config file
		viper.SetConfigFile(cfgFile)
	} else {
		// Look for config file in home directory
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".caseflow")
	}

	viper.AutomaticEnv() // read environment variables

	// If config file is found, read it
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// newAPI builds the backend client from the merged configuration. The
// credentials live in the client from here on; commands never read them
// from ambient state.
func newAPI() (*clients.CaseAPI, zerolog.Logger, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile})
	api := clients.NewCaseAPI(cfg.BaseURL, cfg.Token, cfg.Timeout, log)
	return api, log, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
