// Package pathutil provides path helpers for run artifacts.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RedactPath reduces a full path to .../<parent>/<basename> for short error messages.
// For example, "/home/user/results/plot_entropy.png" becomes ".../results/plot_entropy.png".
func RedactPath(path string) string {
	if path == "" {
		return ""
	}
	cleaned := filepath.Clean(path)
	dir := filepath.Dir(cleaned)
	base := filepath.Base(cleaned)
	parent := filepath.Base(dir)
	if parent == "." || parent == string(filepath.Separator) {
		return base
	}
	return ".../" + parent + "/" + base
}

// EnsureDir creates dir and any missing parents. It is a no-op when dir
// already exists and fails when dir exists but is not a directory.
func EnsureDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("directory path is empty")
	}
	if strings.ContainsRune(dir, '\x00') {
		return fmt.Errorf("directory path contains null byte")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", RedactPath(dir), err)
	}
	return nil
}

// ArtifactPaths returns the <dir>/<stem>.<ext> path for each extension, in order.
func ArtifactPaths(dir, stem string, exts ...string) []string {
	paths := make([]string, len(exts))
	for i, ext := range exts {
		paths[i] = filepath.Join(dir, stem+"."+strings.TrimPrefix(ext, "."))
	}
	return paths
}
