// Package errors provides centralized error handling for cose.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrInvalidKeyUsage indicates a signing operation was attempted with a key
	// that has no private component.
	ErrInvalidKeyUsage = errors.New("the key is not private")

	// ErrUnsupportedAlgorithm indicates the key's family or curve does not match
	// what the selected algorithm supports.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm or curve")

	// ErrSigningFailed indicates the primitive engine failed while producing a signature.
	// The engine's error is kept in the chain.
	ErrSigningFailed = errors.New("unable to sign the data")

	// ErrUnsupportedHash indicates a hash selection outside the supported digest set.
	ErrUnsupportedHash = errors.New("unsupported hash algorithm")

	// ErrSignatureInvalid indicates a signature did not verify.
	// Library verification reports this as false; only the CLI surfaces it as an error.
	ErrSignatureInvalid = errors.New("invalid signature")

	// ErrSignatureEncoding indicates signature text that is not base64url.
	ErrSignatureEncoding = errors.New("signature is not valid base64url")

	// ErrAlgorithmNotFound indicates no implementation is registered for an identifier or name.
	ErrAlgorithmNotFound = errors.New("algorithm not found")

	// ErrKeyMissingParameter indicates a required key parameter is absent.
	ErrKeyMissingParameter = errors.New("missing key parameter")

	// ErrKeyInvalidParameter indicates a key parameter has the wrong type or length.
	ErrKeyInvalidParameter = errors.New("invalid key parameter")

	// ErrKeyTypeMismatch indicates key data of one family was given to another family's factory.
	ErrKeyTypeMismatch = errors.New("key type mismatch")

	// ErrUnsupportedKeyType indicates a key type with no family implementation.
	ErrUnsupportedKeyType = errors.New("unsupported key type")

	// ErrUnsupportedCurve indicates an OKP curve outside the registered set.
	ErrUnsupportedCurve = errors.New("unsupported curve")

	// ErrKeyFileInvalid indicates a key document could not be parsed.
	ErrKeyFileInvalid = errors.New("invalid key file")

	// ErrManifestInvalid indicates a verify-batch manifest could not be parsed.
	ErrManifestInvalid = errors.New("invalid manifest")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidCrypto indicates an invalid crypto configuration value.
	ErrConfigInvalidCrypto = errors.New("invalid crypto configuration")

	// ErrConfigInvalidBatch indicates an invalid batch configuration value.
	ErrConfigInvalidBatch = errors.New("invalid batch configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrConflictingFlags indicates that mutually exclusive flags were used together.
	ErrConflictingFlags = errors.New("conflicting flags")

	// ErrJSONErrorOutput indicates that an error has already been output as JSON.
	// This ensures a non-zero exit code while preventing duplicate error messages.
	ErrJSONErrorOutput = errors.New("error output as JSON")
)
