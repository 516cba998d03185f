package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kk-code-lab/vaultsearch/internal/search"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Content search strategies
const (
	StrategySequential = "sequential"
	StrategyConcurrent = "concurrent"
)

const envPrefix = "VAULTSEARCH"

// Settings application settings
type Settings struct {
	Root          string        `mapstructure:"root"`
	IncludeHidden bool          `mapstructure:"include_hidden"`
	TextTypes     []string      `mapstructure:"text_types"`
	FuzzyEngine   string        `mapstructure:"fuzzy_engine"`
	Strategy      string        `mapstructure:"strategy"` // StrategySequential or StrategyConcurrent
	Workers       int           `mapstructure:"workers"`
	Timeout       time.Duration `mapstructure:"timeout"`
	SettleDelay   time.Duration `mapstructure:"settle_delay"`
	Limit         int           `mapstructure:"limit"`
	LogLevel      string        `mapstructure:"log_level"`
	CacheSize     int           `mapstructure:"cache_size"`
	MaxFileSize   int64         `mapstructure:"max_file_size"`
}

// flagKeys maps CLI flag names to setting keys.
var flagKeys = map[string]string{
	"root":           "root",
	"include-hidden": "include_hidden",
	"text-types":     "text_types",
	"fuzzy-engine":   "fuzzy_engine",
	"strategy":       "strategy",
	"workers":        "workers",
	"timeout":        "timeout",
	"settle-delay":   "settle_delay",
	"limit":          "limit",
	"log-level":      "log_level",
	"cache-size":     "cache_size",
	"max-file-size":  "max_file_size",
}

// LoadSettings loads settings from environment variables and optional .env file
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > .env file > defaults.
// If flags is nil, only env vars, the .env file and defaults are used.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	v.SetDefault("root", ".")
	v.SetDefault("include_hidden", false)
	v.SetDefault("text_types", search.DefaultTextTypes)
	v.SetDefault("fuzzy_engine", string(search.FuzzyEngineNative))
	v.SetDefault("strategy", StrategySequential)
	v.SetDefault("workers", 4)
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("settle_delay", search.DefaultSettleDelay)
	v.SetDefault("limit", 20)
	v.SetDefault("log_level", "info")
	v.SetDefault("cache_size", 256)
	v.SetDefault("max_file_size", int64(8<<20)) // 8MB

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for flag, key := range flagKeys {
			if f := flags.Lookup(flag); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
	}

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // a missing .env is fine

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	// A comma-separated env value can arrive as a single element. An explicit
	// --text-types flag wins over the environment.
	textTypesFlagSet := flags != nil && flags.Changed("text-types")
	if raw := os.Getenv(envPrefix + "_TEXT_TYPES"); raw != "" && !textTypesFlagSet && len(settings.TextTypes) <= 1 {
		settings.TextTypes = strings.Split(raw, ",")
	}
	settings.TextTypes = normalizeTextTypes(settings.TextTypes)
	settings.Root = expandHomeDir(settings.Root)

	return &settings, nil
}

func normalizeTextTypes(types []string) []string {
	var result []string
	for _, t := range types {
		t = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(t), "."))
		if t != "" {
			result = append(result, t)
		}
	}
	return result
}

// expandHomeDir expands ~ to the user's home directory
func expandHomeDir(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}

// ValidateSettings rejects values the searchers cannot run with.
func ValidateSettings(s *Settings) error {
	if s.Root == "" {
		return errors.New("root cannot be empty")
	}

	if _, err := search.ParseFuzzyEngine(s.FuzzyEngine); err != nil {
		return err
	}

	switch s.Strategy {
	case StrategySequential, StrategyConcurrent:
		// valid
	default:
		return errors.New("strategy must be 'sequential' or 'concurrent', got: " + s.Strategy)
	}

	if s.Workers < 0 {
		return errors.New("workers cannot be negative")
	}
	if s.Strategy == StrategyConcurrent && s.Workers == 0 {
		return errors.New("strategy 'concurrent' requires at least one worker")
	}
	if s.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	if s.CacheSize < 0 {
		return errors.New("cache-size cannot be negative")
	}
	if s.Timeout < 0 {
		return errors.New("timeout cannot be negative")
	}
	if s.SettleDelay < 0 {
		return errors.New("settle-delay cannot be negative")
	}

	if _, err := ParseLogLevel(s.LogLevel); err != nil {
		return err
	}

	return nil
}

// ParseLogLevel maps a log_level value to a slog level. Empty means info.
func ParseLogLevel(name string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(name) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log-level %q: %w", name, err)
	}
	return level, nil
}
