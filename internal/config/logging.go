package config

import (
	"context"
	"log/slog"
)

// Log logs the resolved settings in a granular way, skipping irrelevant ones
func Log(s *Settings) {
	LogWithLogger(s, slog.Default())
}

// LogWithLogger logs the resolved settings using the provided logger
func LogWithLogger(s *Settings, logger *slog.Logger) {
	ctx := context.Background()
	logger.InfoContext(ctx, "Config: root", "value", s.Root, "include_hidden", s.IncludeHidden)
	logger.InfoContext(ctx, "Config: fuzzy_engine", "value", s.FuzzyEngine)
	logger.InfoContext(ctx, "Config: text_types", "value", s.TextTypes)

	logger.InfoContext(ctx, "Config: strategy", "value", s.Strategy)
	if s.Strategy == StrategyConcurrent {
		logger.InfoContext(ctx, "Config: workers", "value", s.Workers)
	}
	if s.Timeout > 0 {
		logger.InfoContext(ctx, "Config: timeout", "value", s.Timeout)
	}
	if s.CacheSize > 0 {
		logger.InfoContext(ctx, "Config: cache_size", "value", s.CacheSize)
	}
	logger.DebugContext(ctx, "Config: resolved", "settings", SettingsLogValue(*s))
}

// SettingsLogValue returns a slog.Value grouping every setting
func SettingsLogValue(s Settings) slog.Value {
	return slog.GroupValue(
		slog.String("root", s.Root),
		slog.Bool("include_hidden", s.IncludeHidden),
		slog.Any("text_types", s.TextTypes),
		slog.String("fuzzy_engine", s.FuzzyEngine),
		slog.String("strategy", s.Strategy),
		slog.Int("workers", s.Workers),
		slog.Duration("timeout", s.Timeout),
		slog.Duration("settle_delay", s.SettleDelay),
		slog.Int("limit", s.Limit),
		slog.String("log_level", s.LogLevel),
		slog.Int("cache_size", s.CacheSize),
		slog.Int64("max_file_size", s.MaxFileSize),
	)
}
