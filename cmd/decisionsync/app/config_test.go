package app

import (
	"os"
	"testing"
)

// TestLoadConfig verifies basic config loading.
func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config == nil {
		t.Fatal("LoadConfig() returned nil config")
	}

	// Verify defaults are set
	if config.LogFormat == "" {
		t.Error("LogFormat not set to default")
	}
	if config.Label != "decision-log" {
		t.Errorf("Label = %s, want decision-log", config.Label)
	}
}

// TestConfig_CredentialEnvironmentVariables verifies the Confluence
// environment variable bindings.
func TestConfig_CredentialEnvironmentVariables(t *testing.T) {
	t.Setenv("CONFLUENCE_URL", "https://example.atlassian.net/wiki")
	t.Setenv("CONFLUENCE_USERNAME", "sync-bot@example.com")
	t.Setenv("CONFLUENCE_API_TOKEN", "secret-token")
	t.Setenv("DECISIONSYNC_PAGE_ID", "12345")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.ConfluenceURL != "https://example.atlassian.net/wiki" {
		t.Errorf("ConfluenceURL = %s", config.ConfluenceURL)
	}
	if config.Username != "sync-bot@example.com" {
		t.Errorf("Username = %s", config.Username)
	}
	if config.APIToken != "secret-token" {
		t.Errorf("APIToken = %s", config.APIToken)
	}
	if config.PageID != "12345" {
		t.Errorf("PageID = %s, want 12345", config.PageID)
	}
}

// TestConfig_UpdateFromFlags verifies that flags take precedence.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{LogLevel: "info"}

	config.UpdateFromFlags(true, false, true, "debug")

	if !config.Verbose {
		t.Error("Verbose flag not applied")
	}
	if !config.NoColor {
		t.Error("NoColor flag not applied")
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", config.LogLevel)
	}
	if !config.LogLevelFromFlag {
		t.Error("LogLevelFromFlag not recorded")
	}

	// An empty log-level flag must not clobber the configured value.
	config = &Config{LogLevel: "error"}
	config.UpdateFromFlags(false, true, false, "")
	if config.LogLevel != "error" {
		t.Errorf("LogLevel = %s, want error after empty flag", config.LogLevel)
	}
	if config.LogLevelFromFlag {
		t.Error("empty log-level flag must not mark the level as flag-set")
	}
}

// TestGetEnvOrDefault verifies the env fallback helper.
func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("DECISIONSYNC_TEST_KEY", "set")
	if got := getEnvOrDefault("DECISIONSYNC_TEST_KEY", "fallback"); got != "set" {
		t.Errorf("getEnvOrDefault = %s, want set", got)
	}

	os.Unsetenv("DECISIONSYNC_TEST_KEY")
	if got := getEnvOrDefault("DECISIONSYNC_TEST_KEY", "fallback"); got != "fallback" {
		t.Errorf("getEnvOrDefault = %s, want fallback", got)
	}
}
