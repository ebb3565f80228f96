// Package config provides configuration management for cose with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (COSE_* prefix)
//  3. Project config (.cose/config.yaml)
//  4. Global config (~/.cose/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import any other internal packages.
package config

import "time"

// Config is the root configuration structure for cose.
type Config struct {
	// Crypto contains settings for signing and verification.
	Crypto CryptoConfig `yaml:"crypto" mapstructure:"crypto"`

	// Batch contains settings for verify-batch.
	Batch BatchConfig `yaml:"batch" mapstructure:"batch"`

	// Logging contains settings for the CLI log sink.
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// CryptoConfig holds configuration for cryptographic operations.
type CryptoConfig struct {
	// DefaultAlgorithm names the algorithm used when --alg is not given
	// and the key document carries no alg member.
	// Default: "EdDSA"
	DefaultAlgorithm string `yaml:"default_algorithm" mapstructure:"default_algorithm"`
}

// BatchConfig holds configuration for batch verification.
type BatchConfig struct {
	// Concurrency is the number of entries verified in parallel (1..64).
	// Default: 4
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`

	// Timeout bounds a whole batch run.
	// Default: 1m
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// LoggingConfig holds configuration for CLI logging.
type LoggingConfig struct {
	// FileEnabled turns the rotating log file under ~/.cose/logs on or off.
	// Default: true
	FileEnabled bool `yaml:"file_enabled" mapstructure:"file_enabled"`
}
