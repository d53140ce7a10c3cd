package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "supabase", config.Catalog.Backend)
	assert.Equal(t, "interests", config.Catalog.Supabase.InterestsTable)
	assert.Equal(t, "daily_summaries", config.Catalog.Supabase.DigestsTable)
	assert.Equal(t, "0 6 * * *", config.Digest.Schedule)
	assert.Equal(t, 250, config.Digest.FetchLimit)
	assert.Equal(t, 0, config.Digest.MaxUsersPerRun)
	assert.Equal(t, 12, config.Digest.MaxTopics)
	assert.Equal(t, 300*time.Millisecond, config.Digest.PauseDuration())
	assert.Equal(t, "openai", config.LLM.Provider)
	assert.Equal(t, "gpt-5", config.LLM.OpenAI.Model)
	assert.InDelta(t, 0.4, config.LLM.OpenAI.Temperature, 0.0001)
}

func TestLoadFromFilesOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "briefing.toml")
	content := `
environment = "production"

[server]
port = 9090

[catalog]
backend = "badger"

[digest]
schedule = "30 7 * * *"
pause = "0"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.True(t, config.IsProduction())
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "badger", config.Catalog.Backend)
	assert.Equal(t, "30 7 * * *", config.Digest.Schedule)
	assert.Equal(t, time.Duration(0), config.Digest.PauseDuration())

	// Untouched sections keep defaults
	assert.Equal(t, 250, config.Digest.FetchLimit)
	assert.Equal(t, "openai", config.LLM.Provider)
}

func TestLoadFromFilesEnvOverrides(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service-key")
	t.Setenv("OPENAI_API_KEY", "openai-key")
	t.Setenv("OPENAI_MODEL", "gpt-5-mini")
	t.Setenv("MAX_USERS_PER_RUN", "5")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, "https://example.supabase.co", config.Catalog.Supabase.BaseURL)
	assert.Equal(t, "service-key", config.Catalog.Supabase.ServiceRoleKey)
	assert.Equal(t, "openai-key", config.LLM.OpenAI.APIKey)
	assert.Equal(t, "gpt-5-mini", config.LLM.OpenAI.Model)
	assert.Equal(t, 5, config.Digest.MaxUsersPerRun)
}

func TestValidateRejectsBadSchedule(t *testing.T) {
	config := NewDefaultConfig()
	config.Digest.Schedule = "not a cron"

	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule")
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	config := NewDefaultConfig()
	config.Catalog.Backend = "dynamo"

	err := config.Validate()
	require.Error(t, err)
}

func TestValidateRejectsBadPause(t *testing.T) {
	config := NewDefaultConfig()
	config.Digest.Pause = "soon"

	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pause")
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, 9999, "0.0.0.0")
	assert.Equal(t, 9999, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)

	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 9999, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
}

func TestValidateJobSchedule(t *testing.T) {
	assert.NoError(t, ValidateJobSchedule("0 6 * * *"))
	assert.NoError(t, ValidateJobSchedule("*/5 * * * *"))
	assert.Error(t, ValidateJobSchedule("61 6 * * *"))
	assert.Error(t, ValidateJobSchedule(""))
}
