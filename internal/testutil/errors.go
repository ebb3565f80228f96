// Package testutil provides testing utilities for cose.
//
// This package contains mock errors used across test files.
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
// These errors stand in for failures of the signing engine and its collaborators.
var (
	// ErrMockEngineFault is a non-cryptographic engine failure (malformed input, internal error).
	ErrMockEngineFault = errors.New("engine fault")

	// ErrMockEngineUnavailable indicates the engine could not be reached, as with a remote HSM.
	ErrMockEngineUnavailable = errors.New("engine unavailable")

	// ErrMockRandomness indicates the entropy source failed.
	ErrMockRandomness = errors.New("randomness source failed")

	// ErrMockUnexpectedCall is returned by fakes from methods a test never expects to reach.
	ErrMockUnexpectedCall = errors.New("unexpected call")
)
