// Package constants provides centralized constant values used throughout cose.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// COSE algorithm identifiers from the IANA "COSE Algorithms" registry.
// The envelope format selects an implementation by these integers.
const (
	// AlgorithmEdDSA is the identifier for EdDSA signatures.
	AlgorithmEdDSA = -8

	// AlgorithmRS256 is RSASSA-PKCS1-v1_5 using SHA-256.
	AlgorithmRS256 = -257

	// AlgorithmRS384 is RSASSA-PKCS1-v1_5 using SHA-384.
	AlgorithmRS384 = -258

	// AlgorithmRS512 is RSASSA-PKCS1-v1_5 using SHA-512.
	AlgorithmRS512 = -259

	// AlgorithmRS1 is RSASSA-PKCS1-v1_5 using SHA-1.
	// Registered for WebAuthn compatibility only.
	AlgorithmRS1 = -65535
)

// Algorithm names as used on the command line and in configuration.
const (
	AlgorithmNameEdDSA = "EdDSA"
	AlgorithmNameRS256 = "RS256"
	AlgorithmNameRS384 = "RS384"
	AlgorithmNameRS512 = "RS512"
	AlgorithmNameRS1   = "RS1"
)

// Common COSE key parameter labels.
const (
	// KeyLabelKty is the key type label, common to every key family.
	KeyLabelKty = 1

	// KeyLabelKid is the key identifier label.
	KeyLabelKid = 2

	// KeyLabelAlg is the label restricting a key to one algorithm.
	KeyLabelAlg = 3
)

// Key type values carried under KeyLabelKty.
const (
	// KeyTypeOKP is the octet key pair family (EdDSA, ECDH over X25519/X448).
	KeyTypeOKP = 1

	// KeyTypeEC2 is the two-coordinate elliptic curve family.
	KeyTypeEC2 = 2

	// KeyTypeRSA is the RSA family.
	KeyTypeRSA = 3
)

// OKP key parameter labels.
const (
	OKPLabelCurve = -1
	OKPLabelX     = -2
	OKPLabelD     = -4
)

// OKP curve identifiers.
const (
	CurveX25519  = 4
	CurveX448    = 5
	CurveEd25519 = 6
	CurveEd448   = 7
)

// RSA key parameter labels (RFC 8230).
const (
	RSALabelN    = -1
	RSALabelE    = -2
	RSALabelD    = -3
	RSALabelP    = -4
	RSALabelQ    = -5
	RSALabelDP   = -6
	RSALabelDQ   = -7
	RSALabelQInv = -8
)

// Directory names and paths used by cose.
const (
	// CoseHome is the hidden directory name where cose stores its data.
	// This directory is created in the user's home directory.
	CoseHome = ".cose"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"
)

// Batch verification defaults.
const (
	// DefaultBatchConcurrency is the number of manifest entries verified in parallel.
	DefaultBatchConcurrency = 4

	// MaxBatchConcurrency bounds batch.concurrency.
	MaxBatchConcurrency = 64

	// DefaultBatchTimeout bounds a whole verify-batch run.
	DefaultBatchTimeout = time.Minute
)

// Log rotation settings for the CLI log file.
const (
	LogMaxSizeMB   = 10
	LogMaxBackups  = 3
	LogMaxAgeDays  = 28
	LogCompress    = true
	CLILogFileName = "cose.log"
)
