package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a leading "~" and environment variables and returns a
// clean absolute path.
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("path contains null byte")
	}

	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return filepath.Clean(abs), nil
}

// ValidateDirectory expands path and checks that it is a directory,
// creating it first when create is set.
func ValidateDirectory(path string, create bool) (string, error) {
	dir, err := ExpandPath(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return "", fmt.Errorf("%s is not a directory", dir)
		}
		return dir, nil
	case os.IsNotExist(err) && create:
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating directory %s: %w", dir, err)
		}
		return dir, nil
	default:
		return "", fmt.Errorf("checking directory %s: %w", dir, err)
	}
}

// ValidateFile expands path and makes sure its parent directory exists. The
// file itself may not exist yet.
func ValidateFile(path string) (string, error) {
	file, err := ExpandPath(path)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(file); err == nil && info.IsDir() {
		return "", fmt.Errorf("%s is a directory", file)
	}
	if _, err := ValidateDirectory(filepath.Dir(file), true); err != nil {
		return "", err
	}
	return file, nil
}
