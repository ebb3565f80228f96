package config

import (
	"github.com/mrz1836/cose/internal/constants"
)

// DefaultConfig returns a new Config with default values.
// These defaults are the base layer that config files, environment
// variables and CLI flags override.
func DefaultConfig() *Config {
	return &Config{
		Crypto: CryptoConfig{
			DefaultAlgorithm: constants.AlgorithmNameEdDSA,
		},
		Batch: BatchConfig{
			Concurrency: constants.DefaultBatchConcurrency,
			Timeout:     constants.DefaultBatchTimeout,
		},
		Logging: LoggingConfig{
			FileEnabled: true,
		},
	}
}
