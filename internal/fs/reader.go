package fs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

const (
	defaultCacheCapacity = 256
	defaultMaxReadSize   = 8 << 20
)

var (
	// ErrBinaryContent is returned when a file asked for as text is binary.
	ErrBinaryContent = errors.New("binary content")
	// ErrContentTooLarge is returned when a file is bigger than the reader's
	// size limit.
	ErrContentTooLarge = errors.New("content exceeds size limit")
)

// ContentReader fetches the textual content of a file by identifier.
type ContentReader interface {
	ReadContent(ctx context.Context, id string) (string, error)
}

// ContentReaderFunc adapts a plain function to ContentReader.
type ContentReaderFunc func(ctx context.Context, id string) (string, error)

// ReadContent calls f.
func (f ContentReaderFunc) ReadContent(ctx context.Context, id string) (string, error) {
	return f(ctx, id)
}

// DiskReader reads vault files from disk. Identifiers are slash paths
// relative to Root, as produced by LoadVault.
type DiskReader struct {
	Root string
	// MaxSize is the largest file, in bytes, that will be read. Bigger files
	// fail with ErrContentTooLarge. Zero means 8 MiB, negative means
	// unlimited.
	MaxSize int64
}

// ReadContent implements ContentReader.
func (r DiskReader) ReadContent(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	clean := filepath.Clean(filepath.FromSlash(id))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("read %s: path escapes vault root", id)
	}
	full := filepath.Join(r.Root, clean)

	limit := r.MaxSize
	if limit == 0 {
		limit = defaultMaxReadSize
	}
	readLimit := limit
	if limit > 0 {
		readLimit = limit + 1
	}
	content, err := readFileLimited(full, readLimit)
	if err != nil {
		return "", err
	}
	if limit > 0 && int64(len(content)) > limit {
		return "", fmt.Errorf("read %s: %w (limit %d bytes)", id, ErrContentTooLarge, limit)
	}
	if !IsTextFile(full, content) {
		return "", fmt.Errorf("read %s: %w", id, ErrBinaryContent)
	}
	return NormalizeTextContent(content), nil
}

// CachedReader memoizes successful reads of another reader. Failed reads are
// not cached. When the cache is full it is dropped wholesale.
type CachedReader struct {
	next     ContentReader
	mu       sync.RWMutex
	entries  map[string]string
	capacity int
}

// NewCachedReader wraps next. A non-positive capacity selects the default.
func NewCachedReader(next ContentReader, capacity int) *CachedReader {
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	return &CachedReader{
		next:     next,
		entries:  make(map[string]string),
		capacity: capacity,
	}
}

// ReadContent implements ContentReader.
func (c *CachedReader) ReadContent(ctx context.Context, id string) (string, error) {
	c.mu.RLock()
	content, ok := c.entries[id]
	c.mu.RUnlock()
	if ok {
		return content, nil
	}

	content, err := c.next.ReadContent(ctx, id)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.capacity {
		c.entries = make(map[string]string)
	}
	c.entries[id] = content
	return content, nil
}

// Invalidate forgets the cached content of id.
func (c *CachedReader) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// Clear drops every cached entry.
func (c *CachedReader) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
}
