package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from config files,
// environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Confluence connection
	ConfluenceURL string
	Username      string
	APIToken      string

	// Sync defaults
	PageID    string
	Label     string
	PageTitle string

	// Logging configuration. LogLevelFromFlag records whether LogLevel
	// came from the --log-level flag; the flag outranks -v/-q, the
	// LOG_LEVEL environment value does not.
	LogLevel         string
	LogLevelFromFlag bool
	LogFormat        string
	LogOutput        string
}

// LoadConfig loads configuration from all sources in order of
// precedence:
//  1. Command-line flags (handled by cobra, applied later)
//  2. Environment variables
//  3. .env files
//  4. Config file (~/.decisionsync.yaml)
//  5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	bindCredentials()

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".decisionsync")
		}
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),

		ConfigFile: viper.ConfigFileUsed(),

		ConfluenceURL: viper.GetString("confluence_url"),
		Username:      viper.GetString("confluence_username"),
		APIToken:      viper.GetString("confluence_api_token"),

		PageID:    viper.GetString("page_id"),
		Label:     viper.GetString("page_label"),
		PageTitle: viper.GetString("page_title"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if config.Label == "" {
		config.Label = "decision-log"
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// Called after cobra parses flags so flag values take precedence over
// config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if logLevel != "" {
		c.LogLevel = logLevel
		c.LogLevelFromFlag = true
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}
	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// bindCredentials explicitly binds the Confluence environment
// variables to their viper keys.
func bindCredentials() {
	bindings := map[string]string{
		"confluence_url":       "CONFLUENCE_URL",
		"confluence_username":  "CONFLUENCE_USERNAME",
		"confluence_api_token": "CONFLUENCE_API_TOKEN",
		"page_id":              "DECISIONSYNC_PAGE_ID",
		"page_label":           "DECISIONSYNC_PAGE_LABEL",
		"page_title":           "DECISIONSYNC_PAGE_TITLE",
	}
	for key, env := range bindings {
		_ = viper.BindEnv(key, env)
	}
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
