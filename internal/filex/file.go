// Package filex contains small filesystem helpers used by the download flow.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir makes sure dir exists, creating it (and parents) if needed.
// It returns the absolute path of the directory.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return abs, nil
}

// SanitizeFilename reduces a server-declared filename to a safe base name:
// directory components are stripped, and names that would escape the target
// directory collapse to a fallback. The server controls the original
// filename, so it is never trusted as a path.
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) || base == ".." || base == "" {
		return "download"
	}
	return base
}

// UniquePath returns path if nothing exists there, otherwise appends a
// numeric suffix before the extension ("report.pdf" -> "report (1).pdf")
// until a free name is found.
func UniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
