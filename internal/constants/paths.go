package constants

// Configuration file names.
const (
	// GlobalConfigName is the name of the global cose configuration file.
	// This file is located in the cose home directory.
	GlobalConfigName = "config.yaml"

	// ProjectConfigDir is the per-project configuration directory.
	ProjectConfigDir = ".cose"
)
