// Package config loads the digest settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when no config path is given. A missing file at the
// default path is not an error; defaults and the environment apply.
const DefaultPath = "config.yaml"

type Config struct {
	RSS        RSSConfig        `yaml:"rss"`
	Articles   ArticlesConfig   `yaml:"articles"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Output     OutputConfig     `yaml:"output"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	Archive    ArchiveConfig    `yaml:"archive"`
	Schedule   ScheduleConfig   `yaml:"schedule"`

	LogLevel string `yaml:"log_level"`
	Debug    bool   `yaml:"debug"`
}

type RSSConfig struct {
	FeedsFile            string        `yaml:"feeds_file"`
	DaysToInclude        int           `yaml:"days_to_include"`
	MaxDescriptionLength int           `yaml:"max_description_length"`
	FetchTimeout         time.Duration `yaml:"fetch_timeout"`
	UserAgent            string        `yaml:"user_agent"`
}

type ArticlesConfig struct {
	MaxArticlesPerFeed   int `yaml:"max_articles_per_feed"`
	MaxArticlesToProcess int `yaml:"max_articles_to_process"`
}

type ScoringConfig struct {
	CriticalKeywords  []string `yaml:"critical_keywords"`
	ImportantKeywords []string `yaml:"important_keywords"`
}

type OutputConfig struct {
	DateFormat       string `yaml:"date_format"` // Go time layout
	ReportsDirectory string `yaml:"reports_directory"`
	FileExtension    string `yaml:"file_extension"`
}

type SummarizerConfig struct {
	Provider string        `yaml:"provider"` // openai | gemini
	Timeout  time.Duration `yaml:"timeout"`
}

type OpenAIConfig struct {
	APIKey       string  `yaml:"api_key"`
	BaseURL      string  `yaml:"base_url"`
	Model        string  `yaml:"model"`
	MaxNewsItems int     `yaml:"max_news_items"`
	MaxTokens    int     `yaml:"max_tokens"`
	Temperature  float32 `yaml:"temperature"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type ArchiveConfig struct {
	Type          string `yaml:"type"` // file | postgres | none
	Path          string `yaml:"path"`
	DSN           string `yaml:"dsn"`
	RetentionDays int    `yaml:"retention_days"`
}

type ScheduleConfig struct {
	Cron string `yaml:"cron"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		RSS: RSSConfig{
			FeedsFile:            "rss_links.txt",
			DaysToInclude:        1,
			MaxDescriptionLength: 300,
			FetchTimeout:         30 * time.Second,
			UserAgent:            "newsdigest/1.0",
		},
		Articles: ArticlesConfig{
			MaxArticlesPerFeed:   10,
			MaxArticlesToProcess: 100,
		},
		Scoring: ScoringConfig{
			CriticalKeywords:  []string{"breaking", "urgent", "critical", "emergency", "alert", "crisis"},
			ImportantKeywords: []string{"announced", "official", "update", "major", "significant"},
		},
		Output: OutputConfig{
			DateFormat:       "2006-01-02",
			ReportsDirectory: "reports",
			FileExtension:    "txt",
		},
		Summarizer: SummarizerConfig{
			Provider: "openai",
			Timeout:  120 * time.Second,
		},
		OpenAI: OpenAIConfig{
			Model:        "gpt-4o-mini",
			MaxNewsItems: 20,
			MaxTokens:    4000,
			Temperature:  0.7,
		},
		Gemini: GeminiConfig{
			Model: "gemini-1.5-flash",
		},
		Archive: ArchiveConfig{
			Type:          "file",
			Path:          "reports/history.json",
			RetentionDays: 30,
		},
		Schedule: ScheduleConfig{
			Cron: "0 8 * * *",
		},
		LogLevel: "info",
	}
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path means DefaultPath, which may be absent.
func Load(path string) (*Config, error) {
	cfg := Default()

	optional := false
	if path == "" {
		path = DefaultPath
		optional = true
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		expanded := expandEnvVars(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	case optional && errors.Is(err, os.ErrNotExist):
		// defaults + environment only
	default:
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	applyEnv(cfg)

	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) {
	cfg.OpenAI.APIKey = getEnvOrDefault("OPENAI_API_KEY", cfg.OpenAI.APIKey)
	cfg.OpenAI.BaseURL = getEnvOrDefault("OPENAI_BASE_URL", cfg.OpenAI.BaseURL)
	cfg.Gemini.APIKey = getEnvOrDefault("GEMINI_API_KEY", cfg.Gemini.APIKey)
	cfg.Archive.DSN = getEnvOrDefault("DATABASE_URL", cfg.Archive.DSN)
	cfg.RSS.FeedsFile = getEnvOrDefault("FEEDS_FILE", cfg.RSS.FeedsFile)
	cfg.Output.ReportsDirectory = getEnvOrDefault("REPORTS_DIR", cfg.Output.ReportsDirectory)
	cfg.Summarizer.Provider = getEnvOrDefault("SUMMARIZER_PROVIDER", cfg.Summarizer.Provider)

	cfg.Articles.MaxArticlesToProcess = getEnvIntOrDefault("MAX_ARTICLES_TO_PROCESS", cfg.Articles.MaxArticlesToProcess)
	cfg.RSS.DaysToInclude = getEnvIntOrDefault("DAYS_TO_INCLUDE", cfg.RSS.DaysToInclude)

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.RSS.FeedsFile == "" {
		return fmt.Errorf("config: rss.feeds_file is required")
	}
	if c.RSS.DaysToInclude < 0 {
		return fmt.Errorf("config: rss.days_to_include must be >= 0, got %d", c.RSS.DaysToInclude)
	}
	if c.RSS.MaxDescriptionLength <= 0 {
		return fmt.Errorf("config: rss.max_description_length must be > 0, got %d", c.RSS.MaxDescriptionLength)
	}
	if c.Articles.MaxArticlesPerFeed <= 0 {
		return fmt.Errorf("config: articles.max_articles_per_feed must be > 0, got %d", c.Articles.MaxArticlesPerFeed)
	}
	if c.Articles.MaxArticlesToProcess <= 0 {
		return fmt.Errorf("config: articles.max_articles_to_process must be > 0, got %d", c.Articles.MaxArticlesToProcess)
	}
	if c.Output.DateFormat == "" {
		return fmt.Errorf("config: output.date_format is required")
	}
	if c.Output.ReportsDirectory == "" {
		return fmt.Errorf("config: output.reports_directory is required")
	}
	if c.OpenAI.MaxNewsItems <= 0 {
		return fmt.Errorf("config: openai.max_news_items must be > 0, got %d", c.OpenAI.MaxNewsItems)
	}

	switch c.Summarizer.Provider {
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("config: openai.api_key is required (set OPENAI_API_KEY env var)")
		}
		if c.OpenAI.Model == "" {
			return fmt.Errorf("config: openai.model is required")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("config: gemini.api_key is required (set GEMINI_API_KEY env var)")
		}
	default:
		return fmt.Errorf("config: unsupported summarizer provider %q (supported: openai, gemini)", c.Summarizer.Provider)
	}

	switch c.Archive.Type {
	case "", "none":
	case "file":
		if c.Archive.Path == "" {
			return fmt.Errorf("config: archive.path is required for file archive")
		}
	case "postgres":
		if c.Archive.DSN == "" {
			return fmt.Errorf("config: archive.dsn is required for postgres archive (set DATABASE_URL env var)")
		}
	default:
		return fmt.Errorf("config: unsupported archive type %q (supported: file, postgres, none)", c.Archive.Type)
	}

	return nil
}
