package main

import (
	"os"
	"path/filepath"
)

// homelabDir returns the toolkit's state directory, HOMELAB_HOME or
// ~/.homelab.
func homelabDir() string {
	if dir := os.Getenv("HOMELAB_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".homelab"
	}
	return filepath.Join(home, ".homelab")
}

func contextsDir() string {
	return filepath.Join(homelabDir(), "contexts")
}

func contextDir(name string) string {
	return filepath.Join(contextsDir(), name)
}

func currentContextFile() string {
	return filepath.Join(homelabDir(), "current-context")
}
