package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kk-code-lab/vaultsearch/internal/config"
	fsutil "github.com/kk-code-lab/vaultsearch/internal/fs"
	"github.com/kk-code-lab/vaultsearch/internal/search"
	"github.com/spf13/pflag"
)

// noopValidate is a no-op validation function for tests
func noopValidate(*config.Settings) error {
	return nil
}

func writeVault(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"notes/alpha.md":    "The quick brown fox",
		"notes/beta.md":     "lazy dog sleeps",
		"ideas.txt":         "fox ideas",
		".hidden/secret.md": "fox in hiding",
	}
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

func testSettings(root string) *config.Settings {
	return &config.Settings{
		Root:        root,
		TextTypes:   []string{"md"},
		FuzzyEngine: "native",
		Strategy:    config.StrategySequential,
		Workers:     2,
		SettleDelay: 300 * time.Millisecond,
		LogLevel:    "error",
		CacheSize:   16,
	}
}

func testParams(settings *config.Settings, out *bytes.Buffer) RunParams {
	return RunParams{
		LoadSettings: func(*pflag.FlagSet) (*config.Settings, error) {
			return settings, nil
		},
		ValidSettings: config.ValidateSettings,
		LoadVault:     fsutil.LoadVault,
		NewReader:     NewVaultReader,
		Rand:          rand.New(rand.NewPCG(1, 2)),
		Stdout:        out,
		Stderr:        io.Discard,
	}
}

func run(t *testing.T, settings *config.Settings, req Request) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := RunWithDeps(context.Background(), testParams(settings, &out), nil, req)
	return out.String(), err
}

func outputLines(out string) []string {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func TestRunWithDeps_ErrorCases(t *testing.T) {
	settings := testSettings(t.TempDir())

	tests := []struct {
		name           string
		params         RunParams
		req            Request
		wantErrContain string
	}{
		{
			name: "LoadSettings error",
			params: RunParams{
				LoadSettings: func(*pflag.FlagSet) (*config.Settings, error) {
					return nil, errors.New("settings error")
				},
				ValidSettings: noopValidate,
			},
			wantErrContain: "failed to load settings",
		},
		{
			name: "ValidSettings error",
			params: RunParams{
				LoadSettings: func(*pflag.FlagSet) (*config.Settings, error) {
					return settings, nil
				},
				ValidSettings: func(*config.Settings) error {
					return errors.New("validation error")
				},
			},
			wantErrContain: "invalid configuration",
		},
		{
			name: "LoadVault error",
			params: RunParams{
				LoadSettings: func(*pflag.FlagSet) (*config.Settings, error) {
					return settings, nil
				},
				ValidSettings: noopValidate,
				LoadVault: func(context.Context, string, fsutil.VaultOptions) ([]fsutil.FileRecord, error) {
					return nil, errors.New("walk error")
				},
				Stderr: io.Discard,
			},
			wantErrContain: "failed to load vault",
		},
		{
			name: "unknown command",
			params: RunParams{
				LoadSettings: func(*pflag.FlagSet) (*config.Settings, error) {
					return settings, nil
				},
				ValidSettings: noopValidate,
				LoadVault: func(context.Context, string, fsutil.VaultOptions) ([]fsutil.FileRecord, error) {
					return nil, nil
				},
				NewReader: NewVaultReader,
				Stdout:    io.Discard,
				Stderr:    io.Discard,
			},
			req:            Request{Command: "grep"},
			wantErrContain: "unknown command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RunWithDeps(context.Background(), tt.params, nil, tt.req)
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErrContain)
			}
			if !strings.Contains(err.Error(), tt.wantErrContain) {
				t.Errorf("Expected error containing %q, got %q", tt.wantErrContain, err.Error())
			}
		})
	}
}

func TestDefaultRunParams(t *testing.T) {
	params := DefaultRunParams()

	if params.LoadSettings == nil {
		t.Error("LoadSettings is nil")
	}
	if params.ValidSettings == nil {
		t.Error("ValidSettings is nil")
	}
	if params.LoadVault == nil {
		t.Error("LoadVault is nil")
	}
	if params.NewReader == nil {
		t.Error("NewReader is nil")
	}
	if params.Stdout == nil || params.Stderr == nil {
		t.Error("Output writers are nil")
	}
}

func TestNewVaultReader(t *testing.T) {
	settings := testSettings("/vault")
	if _, ok := NewVaultReader(settings).(*fsutil.CachedReader); !ok {
		t.Error("Expected a cached reader when cache size is set")
	}

	settings.CacheSize = 0
	reader, ok := NewVaultReader(settings).(fsutil.DiskReader)
	if !ok {
		t.Fatal("Expected a plain disk reader without cache")
	}
	if reader.Root != "/vault" {
		t.Errorf("Expected root '/vault', got '%s'", reader.Root)
	}
}

func TestRunPaths_HighlightsMatch(t *testing.T) {
	out, err := run(t, testSettings(writeVault(t)), Request{Command: CommandPaths, Query: "alpha"})
	if err != nil {
		t.Fatalf("paths failed: %v", err)
	}

	lines := outputLines(out)
	if len(lines) != 1 {
		t.Fatalf("Expected 1 result, got %d: %q", len(lines), out)
	}
	if !strings.Contains(lines[0], "notes/[alpha].md") {
		t.Errorf("Expected highlighted path, got %q", lines[0])
	}
}

func TestRunPaths_BlankQueryListsByName(t *testing.T) {
	settings := testSettings(writeVault(t))
	settings.Limit = 2

	out, err := run(t, settings, Request{Command: CommandPaths, Query: " "})
	if err != nil {
		t.Fatalf("paths failed: %v", err)
	}

	lines := outputLines(out)
	if len(lines) != 2 {
		t.Fatalf("Expected limit of 2 results, got %d: %q", len(lines), out)
	}
	if !strings.HasSuffix(lines[0], "notes/alpha.md") || !strings.HasSuffix(lines[1], "notes/beta.md") {
		t.Errorf("Expected name order alpha, beta; got %q", lines)
	}
}

func TestRunPaths_HiddenFiles(t *testing.T) {
	root := writeVault(t)
	settings := testSettings(root)

	out, err := run(t, settings, Request{Command: CommandPaths, Query: "secret"})
	if err != nil {
		t.Fatalf("paths failed: %v", err)
	}
	if out != "" {
		t.Errorf("Expected hidden file to be skipped, got %q", out)
	}

	settings.IncludeHidden = true
	out, err = run(t, settings, Request{Command: CommandPaths, Query: "secret"})
	if err != nil {
		t.Fatalf("paths failed: %v", err)
	}
	if !strings.Contains(out, "[secret]") {
		t.Errorf("Expected hidden file with include-hidden, got %q", out)
	}
}

func TestRunPaths_SahilmEngine(t *testing.T) {
	settings := testSettings(writeVault(t))
	settings.FuzzyEngine = "sahilm"

	out, err := run(t, settings, Request{Command: CommandPaths, Query: "beta"})
	if err != nil {
		t.Fatalf("paths failed: %v", err)
	}
	if !strings.Contains(out, "notes/[beta].md") {
		t.Errorf("Expected highlighted beta, got %q", out)
	}
}

func TestRunContent_PrintsSnippet(t *testing.T) {
	out, err := run(t, testSettings(writeVault(t)), Request{Command: CommandContent, Query: "fox"})
	if err != nil {
		t.Fatalf("content failed: %v", err)
	}

	lines := outputLines(out)
	if len(lines) != 2 {
		t.Fatalf("Expected path and snippet lines, got %q", out)
	}
	if lines[0] != "notes/alpha.md" {
		t.Errorf("Expected notes/alpha.md, got %q", lines[0])
	}
	if strings.TrimSpace(lines[1]) != "The quick brown [fox]" {
		t.Errorf("Expected highlighted snippet, got %q", lines[1])
	}
}

func TestRunContent_TextTypes(t *testing.T) {
	settings := testSettings(writeVault(t))
	settings.TextTypes = []string{"md", "txt"}

	out, err := run(t, settings, Request{Command: CommandContent, Query: "fox"})
	if err != nil {
		t.Fatalf("content failed: %v", err)
	}
	if !strings.Contains(out, "ideas.txt") {
		t.Errorf("Expected txt file to be searched, got %q", out)
	}
}

func TestRunContent_ConcurrentMatchesSequential(t *testing.T) {
	root := writeVault(t)
	settings := testSettings(root)
	settings.TextTypes = []string{"md", "txt"}

	sequential, err := run(t, settings, Request{Command: CommandContent, Query: "fox"})
	if err != nil {
		t.Fatalf("sequential failed: %v", err)
	}

	settings.Strategy = config.StrategyConcurrent
	settings.Workers = 3
	concurrent, err := run(t, settings, Request{Command: CommandContent, Query: "fox"})
	if err != nil {
		t.Fatalf("concurrent failed: %v", err)
	}

	if sequential != concurrent {
		t.Errorf("Expected identical output\nsequential: %q\nconcurrent: %q", sequential, concurrent)
	}
}

func TestRunContent_ReadFailure(t *testing.T) {
	settings := testSettings(writeVault(t))
	var out bytes.Buffer
	params := testParams(settings, &out)
	params.NewReader = func(*config.Settings) fsutil.ContentReader {
		return fsutil.ContentReaderFunc(func(context.Context, string) (string, error) {
			return "", errors.New("disk gone")
		})
	}

	err := RunWithDeps(context.Background(), params, nil, Request{Command: CommandContent, Query: "fox"})
	if !errors.Is(err, search.ErrContentRead) {
		t.Fatalf("Expected ErrContentRead, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("Expected no partial output, got %q", out.String())
	}
}

func TestRunSample(t *testing.T) {
	out, err := run(t, testSettings(writeVault(t)), Request{Command: CommandSample, Count: 2})
	if err != nil {
		t.Fatalf("sample failed: %v", err)
	}

	lines := outputLines(out)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 sampled files, got %q", out)
	}
	known := map[string]bool{"ideas.txt": true, "notes/alpha.md": true, "notes/beta.md": true}
	if lines[0] == lines[1] {
		t.Errorf("Expected distinct files, got %q", lines)
	}
	for _, line := range lines {
		if !known[line] {
			t.Errorf("Unexpected sampled file %q", line)
		}
	}
}

func TestRunSample_TooMany(t *testing.T) {
	_, err := run(t, testSettings(writeVault(t)), Request{Command: CommandSample, Count: 10})
	if !errors.Is(err, search.ErrInvalidArgument) {
		t.Fatalf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestRunView(t *testing.T) {
	out, err := run(t, testSettings(writeVault(t)), Request{Command: CommandView, Query: "fox"})
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}

	lines := outputLines(out)
	if len(lines) != 1 {
		t.Fatalf("Expected 1 view result, got %q", out)
	}
	if !strings.HasPrefix(lines[0], "notes/alpha.md") || !strings.HasSuffix(lines[0], "name:0 content:1") {
		t.Errorf("Unexpected view line %q", lines[0])
	}
}

func TestRunView_Cancelled(t *testing.T) {
	settings := testSettings(writeVault(t))
	settings.SettleDelay = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := RunWithDeps(ctx, testParams(settings, &out), nil, Request{Command: CommandView, Query: "fox"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}
