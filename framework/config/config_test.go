package config_test

import (
	"os"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/simpledi/framework/config"
)

// ── helpers ──────────────────────────────────────────────────────────────────

// unsetEnv clears key for the duration of the test and restores it afterwards.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_NAME", "APP_ENV", "APP_DEBUG", "APP_PORT", "LOG_LEVEL", "LOG_FORMAT"} {
		unsetEnv(t, k)
	}

	cfg := config.Load("testdata/empty.env")

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"App.Name", cfg.App.Name, "simpledi"},
		{"App.Env", cfg.App.Env, "local"},
		{"App.Debug", cfg.App.Debug, false},
		{"App.Port", cfg.App.Port, "8000"},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Log.Format", cfg.Log.Format, "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
	assert.True(t, cfg.IsLocal())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("APP_NAME", "MyApp")
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("APP_DEBUG", "true")

	cfg := config.Load("testdata/empty.env")

	assert.Equal(t, "MyApp", cfg.App.Name)
	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "9000", cfg.App.Port)
	assert.True(t, cfg.App.Debug)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	for _, k := range []string{"APP_NAME", "APP_PORT", "LOG_LEVEL"} {
		unsetEnv(t, k)
	}

	cfg := config.Load("testdata/app.env")

	assert.Equal(t, "FromFile", cfg.App.Name)
	assert.Equal(t, "9100", cfg.App.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ProcessEnvWinsOverFile(t *testing.T) {
	t.Setenv("APP_NAME", "FromProcess")
	unsetEnv(t, "APP_PORT")
	unsetEnv(t, "LOG_LEVEL")

	cfg := config.Load("testdata/app.env")

	assert.Equal(t, "FromProcess", cfg.App.Name)
}

// ── Validate ─────────────────────────────────────────────────────────────────

func validConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "app", Env: "testing", Port: "8080"},
		Log: config.LogConfig{Level: "debug", Format: "console"},
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyLogSettingsAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.Log = config.LogConfig{}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"unknown env", func(c *config.Config) { c.App.Env = "staging" }, "app: (env: must be a valid value"},
		{"port not a number", func(c *config.Config) { c.App.Port = "http" }, "port: must be an integer between 1 and 65535"},
		{"port out of range", func(c *config.Config) { c.App.Port = "70000" }, "port: must be an integer between 1 and 65535"},
		{"missing name", func(c *config.Config) { c.App.Name = "" }, "name: cannot be blank"},
		{"name with spaces", func(c *config.Config) { c.App.Name = "my app" }, "name: may only contain letters"},
		{"unknown level", func(c *config.Config) { c.Log.Level = "trace" }, "log: (level: must be a valid value"},
		{"unknown format", func(c *config.Config) { c.Log.Format = "xml" }, "format: must be a valid value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)

			var fields validation.Errors
			assert.ErrorAs(t, err, &fields)
		})
	}
}

// ── Values ───────────────────────────────────────────────────────────────────

func TestValues_CoversKeys(t *testing.T) {
	cfg := validConfig()
	cfg.App.Debug = true

	values := cfg.Values()
	assert.Len(t, values, len(config.Keys))
	for _, k := range config.Keys {
		assert.Contains(t, values, k)
	}
	assert.Equal(t, "8080", values["app_port"])
	assert.Equal(t, "true", values["app_debug"])
}

func TestLoad_UnparsableDebugFallsBack(t *testing.T) {
	t.Setenv("APP_DEBUG", "notabool")

	cfg := config.Load("testdata/empty.env")
	assert.False(t, cfg.App.Debug)
}
