package fs

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	// sniffSize bounds how much of a file IsTextFile looks at.
	sniffSize = 4096
	// maxControlPercent is the share of control bytes above which a
	// non-UTF-8 sample counts as binary.
	maxControlPercent = 30
)

// attachmentExtensions are file types a vault stores next to notes that never
// hold searchable text.
var attachmentExtensions = extensionSet(
	"png", "jpg", "jpeg", "gif", "bmp", "webp", "ico", "psd", "heic",
	"mp3", "wav", "ogg", "flac", "m4a", "webm",
	"mp4", "mov", "mkv", "avi",
	"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx",
	"zip", "gz", "tgz", "bz2", "xz", "7z", "tar",
	"ttf", "otf", "woff", "woff2",
	"exe", "dll", "so", "dylib", "wasm", "bin",
)

func extensionSet(exts ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		set[ext] = struct{}{}
	}
	return set
}

// IsTextFile reports whether content read from path holds text. Attachment
// extensions are rejected without looking at the bytes.
func IsTextFile(path string, content []byte) bool {
	if isAttachment(path) {
		return false
	}

	sample := content[:min(len(content), sniffSize)]
	switch {
	case len(sample) == 0, hasUnicodeBOM(sample):
		return true
	case bytes.IndexByte(sample, 0x00) >= 0:
		return false
	case utf8.Valid(sample):
		return true
	}

	control := 0
	for _, b := range sample {
		if (b < 0x20 && b != '\t' && b != '\n' && b != '\r' && b != 0x1b) || b == 0x7f {
			control++
		}
	}
	return control*100/len(sample) < maxControlPercent
}

func isAttachment(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return false
	}
	_, ok := attachmentExtensions[ext]
	return ok
}

func hasUnicodeBOM(sample []byte) bool {
	return bytes.HasPrefix(sample, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(sample, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(sample, []byte{0xFE, 0xFF})
}

// NormalizeTextContent decodes note bytes to a UTF-8 string. A UTF-8 or
// UTF-16 byte order mark selects the encoding and is dropped. Content
// without a BOM is taken as UTF-8.
func NormalizeTextContent(content []byte) string {
	if !hasUnicodeBOM(content) {
		return string(content)
	}
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, content)
	if err != nil {
		return string(content)
	}
	return string(out)
}

// readFileLimited returns up to limit bytes from the beginning of path. A
// non-positive limit reads the whole file.
func readFileLimited(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	if limit <= 0 {
		return io.ReadAll(f)
	}
	return io.ReadAll(io.LimitReader(f, limit))
}
