package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeVaultFile(t *testing.T, root, rel string, content []byte) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func recordPaths(records []FileRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Path
	}
	return out
}

func TestLoadVaultSkipsHiddenAndSortsByPath(t *testing.T) {
	root := t.TempDir()
	writeVaultFile(t, root, "zeta.md", []byte("z"))
	writeVaultFile(t, root, "notes/alpha.md", []byte("a"))
	writeVaultFile(t, root, ".obsidian/workspace.json", []byte("{}"))
	writeVaultFile(t, root, "notes/.draft.md", []byte("d"))
	writeVaultFile(t, root, "img/data.png", []byte{0x89, 'P', 'N', 'G'})

	records, err := LoadVault(context.Background(), root, VaultOptions{})
	if err != nil {
		t.Fatalf("LoadVault: %v", err)
	}

	got := recordPaths(records)
	want := []string{"img/data.png", "notes/alpha.md", "zeta.md"}
	if len(got) != len(want) {
		t.Fatalf("paths = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("paths = %v, want %v", got, want)
		}
	}
}

func TestLoadVaultIncludeHidden(t *testing.T) {
	root := t.TempDir()
	writeVaultFile(t, root, ".obsidian/app.json", []byte("{}"))
	writeVaultFile(t, root, "a.md", []byte("a"))

	records, err := LoadVault(context.Background(), root, VaultOptions{IncludeHidden: true})
	if err != nil {
		t.Fatalf("LoadVault: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected hidden file to be included, got %v", recordPaths(records))
	}
}

func TestLoadVaultHonorsCancelledContext(t *testing.T) {
	root := t.TempDir()
	writeVaultFile(t, root, "a.md", []byte("a"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadVault(ctx, root, VaultOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoadVaultMissingRoot(t *testing.T) {
	_, err := LoadVault(context.Background(), filepath.Join(t.TempDir(), "missing"), VaultOptions{})
	if err == nil {
		t.Fatalf("expected error for missing root")
	}
}
