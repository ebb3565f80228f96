package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/cose/internal/constants"
	"github.com/mrz1836/cose/internal/errors"
)

// GlobalConfigDir returns the path to the global cose configuration directory.
// COSE_HOME takes precedence; otherwise this is ~/.cose on Unix systems.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigDir() (string, error) {
	if coseHome := os.Getenv("COSE_HOME"); coseHome != "" {
		return coseHome, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.CoseHome), nil
}

// ProjectConfigDir returns the relative path to the project configuration directory.
// This is always .cose relative to the working directory.
func ProjectConfigDir() string {
	return constants.ProjectConfigDir
}

// GlobalConfigPath returns the full path to the global configuration file.
// This is typically ~/.cose/config.yaml on Unix systems.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// ProjectConfigPath returns the relative path to the project configuration file.
// This is always .cose/config.yaml relative to the working directory.
func ProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), constants.GlobalConfigName)
}
