package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	path := writeConfig(t, `
rss:
  days_to_include: 3
  max_description_length: 150
  fetch_timeout: 10s
articles:
  max_articles_per_feed: 5
  max_articles_to_process: 40
output:
  date_format: "2006-01-02 15:04"
  reports_directory: out
openai:
  api_key: test_api_key
  model: gpt-4o
  max_news_items: 12
  max_tokens: 2000
  temperature: 0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.RSS.DaysToInclude != 3 {
		t.Errorf("Expected days_to_include 3, got %d", cfg.RSS.DaysToInclude)
	}
	if cfg.RSS.MaxDescriptionLength != 150 {
		t.Errorf("Expected max_description_length 150, got %d", cfg.RSS.MaxDescriptionLength)
	}
	if cfg.RSS.FetchTimeout != 10*time.Second {
		t.Errorf("Expected fetch_timeout 10s, got %v", cfg.RSS.FetchTimeout)
	}
	if cfg.Articles.MaxArticlesPerFeed != 5 || cfg.Articles.MaxArticlesToProcess != 40 {
		t.Errorf("Unexpected articles config: %+v", cfg.Articles)
	}
	if cfg.Output.DateFormat != "2006-01-02 15:04" {
		t.Errorf("Expected date format override, got %q", cfg.Output.DateFormat)
	}
	if cfg.OpenAI.Model != "gpt-4o" || cfg.OpenAI.MaxNewsItems != 12 || cfg.OpenAI.MaxTokens != 2000 {
		t.Errorf("Unexpected openai config: %+v", cfg.OpenAI)
	}
	if cfg.OpenAI.Temperature != 0 {
		t.Errorf("Expected explicit temperature 0 to be kept, got %v", cfg.OpenAI.Temperature)
	}
	// untouched keys keep their defaults
	if cfg.RSS.FeedsFile != "rss_links.txt" {
		t.Errorf("Expected default feeds file, got %q", cfg.RSS.FeedsFile)
	}
	if len(cfg.Scoring.CriticalKeywords) != 6 {
		t.Errorf("Expected default critical keywords, got %v", cfg.Scoring.CriticalKeywords)
	}
}

func TestLoadConfigEnvExpansion(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("TEST_DIGEST_KEY", "expanded-key")
	path := writeConfig(t, `
openai:
  api_key: ${TEST_DIGEST_KEY}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.OpenAI.APIKey != "expanded-key" {
		t.Errorf("Expected expanded api key, got %q", cfg.OpenAI.APIKey)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("REPORTS_DIR", "/tmp/digest-reports")
	t.Setenv("MAX_ARTICLES_TO_PROCESS", "7")
	t.Setenv("DAYS_TO_INCLUDE", "not-a-number")
	path := writeConfig(t, `
rss:
  days_to_include: 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.OpenAI.APIKey != "env-key" {
		t.Errorf("Expected api key from env, got %q", cfg.OpenAI.APIKey)
	}
	if cfg.Output.ReportsDirectory != "/tmp/digest-reports" {
		t.Errorf("Expected reports dir from env, got %q", cfg.Output.ReportsDirectory)
	}
	if cfg.Articles.MaxArticlesToProcess != 7 {
		t.Errorf("Expected max articles 7 from env, got %d", cfg.Articles.MaxArticlesToProcess)
	}
	if cfg.RSS.DaysToInclude != 2 {
		t.Errorf("Invalid env int should keep file value 2, got %d", cfg.RSS.DaysToInclude)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing explicit config file")
	}
	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "rss: [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatal("Expected parse error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing openai key", func(c *Config) { c.OpenAI.APIKey = "" }, "openai.api_key"},
		{"gemini without key", func(c *Config) { c.Summarizer.Provider = "gemini" }, "gemini.api_key"},
		{"gemini with key", func(c *Config) {
			c.Summarizer.Provider = "gemini"
			c.Gemini.APIKey = "g"
		}, ""},
		{"unknown provider", func(c *Config) { c.Summarizer.Provider = "llama" }, "unsupported summarizer provider"},
		{"negative window", func(c *Config) { c.RSS.DaysToInclude = -1 }, "days_to_include"},
		{"zero per feed", func(c *Config) { c.Articles.MaxArticlesPerFeed = 0 }, "max_articles_per_feed"},
		{"zero to process", func(c *Config) { c.Articles.MaxArticlesToProcess = 0 }, "max_articles_to_process"},
		{"zero description", func(c *Config) { c.RSS.MaxDescriptionLength = 0 }, "max_description_length"},
		{"empty date format", func(c *Config) { c.Output.DateFormat = "" }, "date_format"},
		{"postgres without dsn", func(c *Config) { c.Archive.Type = "postgres" }, "archive.dsn"},
		{"archive none", func(c *Config) { c.Archive.Type = "none" }, ""},
		{"unknown archive", func(c *Config) { c.Archive.Type = "s3" }, "unsupported archive type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.OpenAI.APIKey = "k"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
