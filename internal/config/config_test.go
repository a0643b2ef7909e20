package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-focus-calendar/internal/core/constants"
	"github.com/penwyp/go-focus-calendar/internal/core/model"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Local", cfg.Timezone)
	assert.Equal(t, "table", cfg.Output)
	assert.Equal(t, "day", cfg.GroupBy)
	assert.Equal(t, constants.DefaultResetRule, cfg.ResetRule)
	assert.Equal(t, constants.DefaultRefreshSpec, cfg.RefreshCron)
	assert.NotNil(t, cfg.Subjects)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
timezone: America/Chicago
data_dir: /tmp/sessions
output: grid
refresh: "*/5 * * * *"
subjects:
  - id: 3
    name: Math
    color: "#ff0000"
  - id: art
    name: Art
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "America/Chicago", cfg.Timezone)
	assert.Equal(t, "/tmp/sessions", cfg.DataDir)
	assert.Equal(t, "grid", cfg.Output)
	assert.Equal(t, "*/5 * * * *", cfg.RefreshCron)
	assert.Equal(t, []model.Subject{
		{ID: "3", Name: "Math", Color: "#ff0000"},
		{ID: "art", Name: "Art"},
	}, cfg.Subjects)
}

func TestLoad_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
timezone = "Europe/Berlin"
output = "summary"

[[subjects]]
id = "7"
name = "Reading"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, "summary", cfg.Output)
	require.Len(t, cfg.Subjects, 1)
	assert.Equal(t, model.ID("7"), cfg.Subjects[0].ID)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timezone: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(c *Config)
		wantErr string
	}{
		{name: "defaults are valid", edit: func(c *Config) {}},
		{name: "bad timezone", edit: func(c *Config) { c.Timezone = "Mars/Base" }, wantErr: "invalid timezone 'Mars/Base'"},
		{name: "bad output", edit: func(c *Config) { c.Output = "pdf" }, wantErr: "must be one of"},
		{name: "bad cron", edit: func(c *Config) { c.RefreshCron = "every so often" }, wantErr: "invalid cron spec"},
		{name: "bad rrule", edit: func(c *Config) { c.ResetRule = "FREQ=NEVER" }, wantErr: "invalid reset rule"},
		{name: "subject without name", edit: func(c *Config) { c.Subjects = []model.Subject{{ID: "1"}} }, wantErr: "is required"},
		{name: "subject with bad color", edit: func(c *Config) {
			c.Subjects = []model.Subject{{ID: "1", Name: "Math", Color: "red"}}
		}, wantErr: "must be a hex color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.edit(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewValidator_RegistersCustomTags(t *testing.T) {
	v, err := newValidator()
	require.NoError(t, err)

	tests := []struct {
		tag  string
		good string
		bad  string
	}{
		{tag: "iana", good: "America/Chicago", bad: "Mars/Base"},
		{tag: "cronspec", good: "@every 1m", bad: "every so often"},
		{tag: "rrule", good: constants.DefaultResetRule, bad: "FREQ=NEVER"},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.NoError(t, v.Var(tt.good, tt.tag))
			assert.Error(t, v.Var(tt.bad, tt.tag))
		})
	}

	t.Run("local zone", func(t *testing.T) {
		t.Setenv("TZ", "Europe/Berlin")
		assert.NoError(t, v.Var("Local", "iana"))
	})
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			cfg := Default()
			cfg.Timezone = "Asia/Tokyo"
			cfg.Subjects = []model.Subject{{ID: "1", Name: "Math", Color: "#00ff00"}}

			require.NoError(t, Save(path, cfg))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FOCUS_TIMEZONE=America/Denver\nFOCUS_OUTPUT=json\n"), 0o644))

	t.Setenv(EnvSubject, "math")
	// pre-set variables win over the .env file
	t.Setenv(EnvOutput, "csv")
	os.Unsetenv(EnvTimezone)
	t.Cleanup(func() { os.Unsetenv(EnvTimezone) })

	require.NoError(t, LoadDotEnv(envFile, filepath.Join(dir, "missing.env")))

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "America/Denver", cfg.Timezone)
	assert.Equal(t, "csv", cfg.Output)
	assert.Equal(t, "math", cfg.Subject)
}
