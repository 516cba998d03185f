//go:build windows

package fs

import "syscall"

const fileAttributeHidden = 0x02

// IsHidden reports whether a vault entry is hidden. Dot-prefixed names are
// hidden regardless of attributes so host metadata dirs are skipped the same
// way on every platform.
func IsHidden(fullPath string, name string) bool {
	if len(name) > 0 && name[0] == '.' {
		return true
	}
	target := fullPath
	if target == "" {
		target = name
	}
	if target == "" {
		return false
	}

	ptr, err := syscall.UTF16PtrFromString(target)
	if err != nil {
		return false
	}
	attrs, err := syscall.GetFileAttributes(ptr)
	if err != nil {
		return false
	}
	return attrs&fileAttributeHidden != 0
}
