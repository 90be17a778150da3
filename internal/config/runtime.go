package config

import (
	"os"
	"path/filepath"
)

const defaultRuntimePath = ".loopbot"

// GetRuntimePath is usable before the .env file is loaded. Relative paths
// live under the user's home directory.
func GetRuntimePath() string {
	return resolveRuntimePath(os.Getenv("LOOP_RUNTIME_PATH"))
}

func resolveRuntimePath(path string) string {
	if path == "" {
		path = defaultRuntimePath
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
