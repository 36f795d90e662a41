package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

// Config is the typed configuration of an application built on the container.
type Config struct {
	App AppConfig `json:"app"`
	Log LogConfig `json:"log"`
}

type AppConfig struct {
	Name  string `json:"name"`
	Env   string `json:"env"` // local | production | testing
	Debug bool   `json:"debug"`
	Port  string `json:"port"`
}

type LogConfig struct {
	Level  string `json:"level"`  // debug | info | warn | error
	Format string `json:"format"` // json | console
}

// Load reads .env (if present) and populates a Config from environment
// variables. Variables already set in the process win over the files.
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "simpledi"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", false),
			Port:  env("APP_PORT", "8000"),
		},
		Log: LogConfig{
			Level:  env("LOG_LEVEL", "info"),
			Format: env("LOG_FORMAT", "json"),
		},
	}
}

// Keys names the flattened settings reported by Values, in declaration order.
var Keys = []string{"app_name", "app_env", "app_debug", "app_port", "log_level", "log_format"}

// Values flattens the configuration into the names listed in Keys.
func (c *Config) Values() map[string]string {
	return map[string]string{
		"app_name":   c.App.Name,
		"app_env":    c.App.Env,
		"app_debug":  strconv.FormatBool(c.App.Debug),
		"app_port":   c.App.Port,
		"log_level":  c.Log.Level,
		"log_format": c.Log.Format,
	}
}

// Validate checks that the loaded values are usable. Failures are reported
// per section and field, e.g. "config: app: (port: ...)".
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.App),
		validation.Field(&c.Log),
	)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

var appName = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Validate checks the application section.
func (a AppConfig) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required,
			validation.Match(appName).Error("may only contain letters, numbers, dashes and underscores")),
		validation.Field(&a.Env, validation.Required, validation.In("local", "production", "testing")),
		validation.Field(&a.Port, validation.Required, validation.By(portNumber)),
	)
}

// Validate checks the logging section. Empty values are left to defaults.
func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&l.Format, validation.In("json", "console")),
	)
}

func portNumber(value any) error {
	n, err := strconv.Atoi(value.(string))
	if err != nil || n < 1 || n > 65535 {
		return errors.New("must be an integer between 1 and 65535")
	}
	return nil
}

// IsLocal reports whether APP_ENV is "local".
func (c *Config) IsLocal() bool { return c.App.Env == "local" }

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool { return c.App.Env == "production" }

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// envBool treats unparsable values as unset.
func envBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}
