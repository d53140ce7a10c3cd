package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment" validate:"oneof=development production"` // controls test URL allowance
	Server      ServerConfig  `toml:"server"`
	Logging     LoggingConfig `toml:"logging"`
	Catalog     CatalogConfig `toml:"catalog"`
	Digest      DigestConfig  `toml:"digest"`
	LLM         LLMConfig     `toml:"llm"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"` // "debug", "info", "warn", "error"
	Output []string `toml:"output"`                                       // "stdout", "file"
}

// CatalogConfig selects and configures the interest/digest record store.
type CatalogConfig struct {
	Backend  string              `toml:"backend" validate:"oneof=supabase badger"` // "supabase" (default) or "badger" (local dev/test)
	Supabase SupabaseConfig      `toml:"supabase"`
	Badger   BadgerCatalogConfig `toml:"badger"`
}

// SupabaseConfig holds the PostgREST endpoint and the privileged service
// credential. The service role key bypasses row-level ownership checks.
type SupabaseConfig struct {
	BaseURL        string `toml:"base_url"`
	ServiceRoleKey string `toml:"service_role_key"`
	InterestsTable string `toml:"interests_table"` // default "interests"
	DigestsTable   string `toml:"digests_table"`   // default "daily_summaries"
	Timeout        string `toml:"timeout"`         // HTTP timeout as duration string
}

// BadgerCatalogConfig configures the embedded catalog backend.
type BadgerCatalogConfig struct {
	Path           string `toml:"path"`             // database directory
	ResetOnStartup bool   `toml:"reset_on_startup"` // delete database on startup for clean test runs
	SeedFile       string `toml:"seed_file"`        // optional JSON file of interest rows loaded at startup
}

// DigestConfig controls the digest generation run.
type DigestConfig struct {
	Schedule       string `toml:"schedule"`          // cron expression for the daily run
	FetchLimit     int    `toml:"fetch_limit"`       // bounded page size for the interests query
	MaxUsersPerRun int    `toml:"max_users_per_run"` // 0 = all candidates
	MaxTopics      int    `toml:"max_topics"`        // topics per generation call
	Pause          string `toml:"pause"`             // inter-candidate delay as duration string ("0" disables)
}

// LLMConfig selects and configures the completion provider.
type LLMConfig struct {
	Provider string       `toml:"provider" validate:"oneof=openai claude gemini"`
	OpenAI   OpenAIConfig `toml:"openai"`
	Claude   ClaudeConfig `toml:"claude"`
	Gemini   GeminiConfig `toml:"gemini"`
}

// OpenAIConfig contains OpenAI chat completions API configuration.
type OpenAIConfig struct {
	APIKey      string  `toml:"api_key"`
	BaseURL     string  `toml:"base_url"` // override for tests; default https://api.openai.com
	Model       string  `toml:"model"`    // default "gpt-5"
	Temperature float32 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
	Timeout     string  `toml:"timeout"`
}

// ClaudeConfig contains Anthropic Claude API configuration.
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"` // default "claude-haiku-3-5-20241022"
	Temperature float32 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
	Timeout     string  `toml:"timeout"`
}

// GeminiConfig contains Google Gemini API configuration.
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"` // default "gemini-3-flash-preview"
	Temperature float32 `toml:"temperature"`
	Timeout     string  `toml:"timeout"`
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability;
// only user-facing settings should be exposed in briefing.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Catalog: CatalogConfig{
			Backend: "supabase",
			Supabase: SupabaseConfig{
				InterestsTable: "interests",
				DigestsTable:   "daily_summaries",
				Timeout:        "30s",
			},
			Badger: BadgerCatalogConfig{
				Path: "./data",
			},
		},
		Digest: DigestConfig{
			Schedule:       "0 6 * * *", // daily at 06:00
			FetchLimit:     250,         // bounded page; in-memory reduction happens afterwards
			MaxUsersPerRun: 0,           // all candidates
			MaxTopics:      12,
			Pause:          "300ms",
		},
		LLM: LLMConfig{
			Provider: "openai",
			OpenAI: OpenAIConfig{
				BaseURL:     "https://api.openai.com",
				Model:       "gpt-5",
				Temperature: 0.4,
				Timeout:     "2m",
			},
			Claude: ClaudeConfig{
				Model:       "claude-haiku-3-5-20241022",
				Temperature: 0.4,
				MaxTokens:   1024,
				Timeout:     "2m",
			},
			Gemini: GeminiConfig{
				Model:       "gemini-3-flash-preview",
				Temperature: 0.4,
				Timeout:     "2m",
			},
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env. Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
// The original worker's variable names (SUPABASE_URL, OPENAI_API_KEY, ...)
// are honoured alongside BRIEFING_* prefixed ones.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("BRIEFING_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("BRIEFING_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("BRIEFING_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("BRIEFING_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	// Catalog configuration
	if backend := os.Getenv("BRIEFING_CATALOG_BACKEND"); backend != "" {
		config.Catalog.Backend = backend
	}
	if url := os.Getenv("SUPABASE_URL"); url != "" {
		config.Catalog.Supabase.BaseURL = url
	}
	if key := os.Getenv("SUPABASE_SERVICE_ROLE_KEY"); key != "" {
		config.Catalog.Supabase.ServiceRoleKey = key
	}
	if path := os.Getenv("BRIEFING_BADGER_PATH"); path != "" {
		config.Catalog.Badger.Path = path
	}

	// Digest configuration
	if schedule := os.Getenv("BRIEFING_DIGEST_SCHEDULE"); schedule != "" {
		config.Digest.Schedule = schedule
	}
	if maxUsers := os.Getenv("MAX_USERS_PER_RUN"); maxUsers != "" {
		if m, err := strconv.Atoi(maxUsers); err == nil {
			config.Digest.MaxUsersPerRun = m
		}
	}
	if limit := os.Getenv("BRIEFING_DIGEST_FETCH_LIMIT"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			config.Digest.FetchLimit = l
		}
	}
	if pause := os.Getenv("BRIEFING_DIGEST_PAUSE"); pause != "" {
		if _, err := time.ParseDuration(pause); err == nil {
			config.Digest.Pause = pause
		}
	}

	// LLM configuration
	if provider := os.Getenv("BRIEFING_LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = provider
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.LLM.OpenAI.APIKey = apiKey
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		config.LLM.OpenAI.Model = model
	}
	if baseURL := os.Getenv("BRIEFING_OPENAI_BASE_URL"); baseURL != "" {
		config.LLM.OpenAI.BaseURL = baseURL
	}
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.LLM.Claude.APIKey = apiKey
	}
	if model := os.Getenv("BRIEFING_CLAUDE_MODEL"); model != "" {
		config.LLM.Claude.Model = model
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.LLM.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("BRIEFING_GEMINI_MODEL"); model != "" {
		config.LLM.Gemini.Model = model
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
// Command-line flags have highest priority.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks struct tags plus the cross-field rules the tags can't express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := ValidateJobSchedule(c.Digest.Schedule); err != nil {
		return fmt.Errorf("invalid digest schedule: %w", err)
	}

	if c.Digest.Pause != "" {
		if _, err := time.ParseDuration(c.Digest.Pause); err != nil {
			return fmt.Errorf("invalid digest pause duration %q: %w", c.Digest.Pause, err)
		}
	}

	return nil
}

// PauseDuration returns the parsed inter-candidate pause. Zero disables pacing.
func (c *DigestConfig) PauseDuration() time.Duration {
	if c.Pause == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Pause)
	if err != nil {
		return 0
	}
	return d
}

// ValidateJobSchedule validates a standard 5-field cron expression.
func ValidateJobSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
