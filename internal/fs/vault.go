package fs

import (
	"context"
	iofs "io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// VaultOptions controls which entries LoadVault turns into records.
type VaultOptions struct {
	IncludeHidden bool
}

// LoadVault walks root and returns one record per regular file, sorted by
// path. Paths are slash-separated and relative to root. Hidden files and
// directories are skipped unless opts.IncludeHidden is set.
func LoadVault(ctx context.Context, root string, opts VaultOptions) ([]FileRecord, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var records []FileRecord
	err := filepath.WalkDir(root, func(fullPath string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if fullPath == root {
			return nil
		}

		if !opts.IncludeHidden && IsHidden(fullPath, d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, relErr := filepath.Rel(root, fullPath)
		if relErr != nil {
			return relErr
		}
		records = append(records, NewFileRecord(filepath.ToSlash(rel)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(records, func(a, b FileRecord) int {
		return strings.Compare(a.Path, b.Path)
	})
	return records, nil
}
