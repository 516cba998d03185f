//go:build !windows

package fs

// IsHidden reports whether a vault entry is hidden. On Unix-like systems that
// is any dot-prefixed name, which also covers host metadata dirs such as
// ".obsidian".
func IsHidden(_ string, name string) bool {
	return len(name) > 0 && name[0] == '.'
}
