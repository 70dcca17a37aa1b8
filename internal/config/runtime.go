package config

import (
	"os"
	"path/filepath"
)

// GetRuntimePath resolves GEODROP_RUNTIME_PATH before the .env file inside
// it has been loaded.
func GetRuntimePath() string {
	return resolveRuntimePath(os.Getenv("GEODROP_RUNTIME_PATH"))
}

func resolveRuntimePath(path string) string {
	if path == "" {
		path = ".geodrop"
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
