package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	// FileName is the planner configuration file looked up from the
	// working directory upwards.
	FileName = "planner_config.toml"

	envPrefix = "PLANNER"

	DefaultDBPath     = "data/planner.db"
	DefaultSecretsDir = "secrets"
	DefaultTimeZone   = "America/New_York"
)

// ErrNotFound is returned when no configuration file could be located.
var ErrNotFound = errors.New("configuration file not found")

type CalendarConfig struct {
	WorkCalendarIDs []string
}

type Config struct {
	Path     string
	Calendar CalendarConfig
}

// Settings are the environment driven knobs (PLANNER_*).
type Settings struct {
	DBPath     string
	SecretsDir string
	TimeZone   string
	LogLevel   string
}

// Location resolves the configured reporting timezone.
func (s Settings) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", s.TimeZone, err)
	}
	return loc, nil
}

// LoadSettings reads PLANNER_DB_PATH, PLANNER_SECRETS_DIR, PLANNER_TIMEZONE
// and PLANNER_LOG_LEVEL, falling back to defaults.
func LoadSettings() Settings {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("db_path", DefaultDBPath)
	v.SetDefault("secrets_dir", DefaultSecretsDir)
	v.SetDefault("timezone", DefaultTimeZone)
	v.SetDefault("log_level", "")

	return Settings{
		DBPath:     v.GetString("db_path"),
		SecretsDir: v.GetString("secrets_dir"),
		TimeZone:   v.GetString("timezone"),
		LogLevel:   v.GetString("log_level"),
	}
}

// Find walks from start up to the filesystem root looking for FileName.
func Find(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// Load reads the configuration at path. An empty path means "search from
// the working directory".
func Load(path string) (*Config, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		path, err = Find(wd)
		if err != nil {
			return nil, fmt.Errorf("missing %s in the repo root: %w", FileName, err)
		}
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("missing %s at %s: %w", FileName, path, ErrNotFound)
		}
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if _, ok := v.Get("calendar").(map[string]any); !ok {
		return nil, fmt.Errorf("%s missing [calendar] section", FileName)
	}

	raw := v.Get("calendar.work_calendar_ids")
	if raw == nil {
		return nil, fmt.Errorf("%s missing calendar.work_calendar_ids", FileName)
	}
	ids, err := stringList(raw)
	if err != nil {
		return nil, fmt.Errorf("%s calendar.work_calendar_ids must be a list of strings", FileName)
	}

	return &Config{
		Path:     path,
		Calendar: CalendarConfig{WorkCalendarIDs: ids},
	}, nil
}

func stringList(raw any) ([]string, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected list, got %T", raw)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", item)
		}
		out = append(out, s)
	}
	return out, nil
}
