package util

import (
	"path/filepath"
	"strings"
)

// SanitizeFileName reduces name to a safe, flat file name: path components
// are dropped, whitespace and separators become '_', everything outside
// [A-Za-z0-9._-] is removed and leading dots/underscores are stripped.
// The extension survives even if the base name sanitizes to nothing.
func SanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	ext := filepath.Ext(name)
	base := cleanFileNamePart(strings.TrimSuffix(name, ext))
	ext = cleanFileNamePart(strings.TrimPrefix(ext, "."))

	base = strings.TrimLeft(base, "._")
	if base == "" {
		base = "file"
	}

	if ext == "" {
		return base
	}
	return base + "." + ext
}

func cleanFileNamePart(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '/', r == ':':
			b.WriteRune('_')
		}
	}
	return b.String()
}
