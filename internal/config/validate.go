package config

import (
	"github.com/mrz1836/cose/internal/constants"
	"github.com/mrz1836/cose/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - crypto.default_algorithm must name a registered algorithm
//   - batch.concurrency must be between 1 and 64
//   - batch.timeout must be positive
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateCryptoConfig(&cfg.Crypto); err != nil {
		return err
	}

	return validateBatchConfig(&cfg.Batch)
}

// KnownAlgorithm reports whether name is one of the algorithm names cose registers.
func KnownAlgorithm(name string) bool {
	switch name {
	case constants.AlgorithmNameEdDSA,
		constants.AlgorithmNameRS256,
		constants.AlgorithmNameRS384,
		constants.AlgorithmNameRS512,
		constants.AlgorithmNameRS1:
		return true
	default:
		return false
	}
}

func validateCryptoConfig(cfg *CryptoConfig) error {
	if !KnownAlgorithm(cfg.DefaultAlgorithm) {
		return errors.Wrapf(errors.ErrConfigInvalidCrypto,
			"crypto.default_algorithm %q is not a known algorithm", cfg.DefaultAlgorithm)
	}
	return nil
}

func validateBatchConfig(cfg *BatchConfig) error {
	if cfg.Concurrency < 1 || cfg.Concurrency > constants.MaxBatchConcurrency {
		return errors.Wrapf(errors.ErrConfigInvalidBatch,
			"batch.concurrency must be between 1 and %d, got %d", constants.MaxBatchConcurrency, cfg.Concurrency)
	}

	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidBatch,
			"batch.timeout must be positive, got %s", cfg.Timeout)
	}

	return nil
}
