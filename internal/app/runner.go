package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/kk-code-lab/vaultsearch/internal/config"
	fsutil "github.com/kk-code-lab/vaultsearch/internal/fs"
	"github.com/spf13/pflag"
)

// Command names a CLI operation.
type Command string

const (
	CommandPaths   Command = "paths"
	CommandContent Command = "content"
	CommandSample  Command = "sample"
	CommandView    Command = "view"
)

// Request is one CLI invocation. Query is used by paths, content and view;
// Count by sample.
type Request struct {
	Command Command
	Query   string
	Count   int
}

// RunParams contains dependencies for the run function
type RunParams struct {
	LoadSettings  func(*pflag.FlagSet) (*config.Settings, error)
	ValidSettings func(*config.Settings) error
	LoadVault     func(context.Context, string, fsutil.VaultOptions) ([]fsutil.FileRecord, error)
	NewReader     func(*config.Settings) fsutil.ContentReader
	Rand          *rand.Rand // Optional: fixed source for sample
	Stdout        io.Writer
	Stderr        io.Writer
}

// DefaultRunParams returns production dependencies
func DefaultRunParams() RunParams {
	return RunParams{
		LoadSettings:  config.LoadSettingsWithFlags,
		ValidSettings: config.ValidateSettings,
		LoadVault:     fsutil.LoadVault,
		NewReader:     NewVaultReader,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
	}
}

// NewVaultReader reads vault files from disk, memoized when a cache size is
// configured.
func NewVaultReader(s *config.Settings) fsutil.ContentReader {
	var reader fsutil.ContentReader = fsutil.DiskReader{Root: s.Root, MaxSize: s.MaxFileSize}
	if s.CacheSize > 0 {
		reader = fsutil.NewCachedReader(reader, s.CacheSize)
	}
	return reader
}

// RunWithDeps executes req with the provided dependencies
func RunWithDeps(ctx context.Context, params RunParams, flags *pflag.FlagSet, req Request) error {
	settings, err := params.LoadSettings(flags)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if err := params.ValidSettings(settings); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Logs go to stderr so results on stdout stay pipeable
	stderr := params.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	level, err := config.ParseLogLevel(settings.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	config.LogWithLogger(settings, logger)

	files, err := params.LoadVault(ctx, settings.Root, fsutil.VaultOptions{IncludeHidden: settings.IncludeHidden})
	if err != nil {
		return fmt.Errorf("failed to load vault: %w", err)
	}
	logger.InfoContext(ctx, "Vault loaded", "root", settings.Root, "files", len(files))

	stdout := params.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	s := &session{
		settings: settings,
		files:    files,
		reader:   params.NewReader(settings),
		rand:     params.Rand,
		out:      stdout,
		logger:   logger,
	}

	switch req.Command {
	case CommandPaths:
		return s.paths(ctx, req.Query)
	case CommandContent:
		return s.content(ctx, req.Query)
	case CommandSample:
		return s.sample(ctx, req.Count)
	case CommandView:
		return s.view(ctx, req.Query)
	default:
		return fmt.Errorf("unknown command %q", req.Command)
	}
}
