package fs

import (
	"path"
	"strings"
)

// FileRecord is a file as the host knows it. Records are never mutated by the
// search code.
type FileRecord struct {
	ID        string
	Name      string
	Path      string
	Extension string
}

// NewFileRecord derives a record from a slash-separated path relative to the
// vault root. The path doubles as the identifier.
func NewFileRecord(relPath string) FileRecord {
	name := path.Base(relPath)
	ext := strings.TrimPrefix(path.Ext(name), ".")
	if strings.HasPrefix(name, ".") && strings.Count(name, ".") == 1 {
		// dotfiles like ".env" are all name
		ext = ""
	}
	return FileRecord{
		ID:        relPath,
		Name:      name,
		Path:      relPath,
		Extension: ext,
	}
}

// BaseName returns the name without its extension.
func (r FileRecord) BaseName() string {
	if r.Extension == "" {
		return r.Name
	}
	return strings.TrimSuffix(r.Name, "."+r.Extension)
}

// HasExtension reports whether the record's extension is one of exts.
// The comparison ignores case.
func (r FileRecord) HasExtension(exts map[string]struct{}) bool {
	if r.Extension == "" {
		return false
	}
	_, ok := exts[strings.ToLower(r.Extension)]
	return ok
}
