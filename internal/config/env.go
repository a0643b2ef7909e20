package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings
const (
	EnvTimezone = "FOCUS_TIMEZONE"
	EnvDataDir  = "FOCUS_DATA_DIR"
	EnvOutput   = "FOCUS_OUTPUT"
	EnvSubject  = "FOCUS_SUBJECT"
)

// LoadDotEnv loads KEY=VALUE pairs from files (default ".env") into the
// process environment without overriding variables already set. Missing
// files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ApplyEnv copies FOCUS_* variables over cfg
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvTimezone); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		c.Output = v
	}
	if v := os.Getenv(EnvSubject); v != "" {
		c.Subject = v
	}
}
