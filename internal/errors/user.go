package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries is the pre-built mapping of sentinel errors to their user-facing messages.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Signing & Verification
	// ===================
	{
		err: ErrInvalidKeyUsage,
		info: ErrorInfo{
			Message: "The key has no private component and cannot sign.",
			Action:  "Use a key file that includes the 'd' parameter.",
		},
	},
	{
		err: ErrUnsupportedAlgorithm,
		info: ErrorInfo{
			Message: "The key does not match the selected algorithm.",
			Action:  "Use an Ed25519 OKP key with EdDSA, or an RSA key with RS1/RS256/RS384/RS512.",
		},
	},
	{
		err: ErrSigningFailed,
		info: ErrorInfo{
			Message: "The signing operation failed.",
			Action:  "Check that the key parameters are consistent and try again.",
		},
	},
	{
		err: ErrSignatureInvalid,
		info: ErrorInfo{
			Message: "The signature is not valid for this payload and key.",
			Action:  "",
		},
	},
	{
		err: ErrSignatureEncoding,
		info: ErrorInfo{
			Message: "The signature could not be decoded.",
			Action:  "Pass the signature as base64url text, as printed by 'cose sign'.",
		},
	},
	{
		err: ErrAlgorithmNotFound,
		info: ErrorInfo{
			Message: "The requested algorithm is not registered.",
			Action:  "Run 'cose algorithms' to see supported algorithms.",
		},
	},
	{
		err: ErrUnsupportedHash,
		info: ErrorInfo{
			Message: "The requested hash algorithm is not supported.",
			Action:  "Use SHA-1, SHA-256, SHA-384 or SHA-512.",
		},
	},

	// ===================
	// Key Material
	// ===================
	{
		err: ErrKeyMissingParameter,
		info: ErrorInfo{
			Message: "The key is missing a required parameter.",
			Action:  "Check the key file against the expected fields for its key type.",
		},
	},
	{
		err: ErrKeyInvalidParameter,
		info: ErrorInfo{
			Message: "The key has a malformed parameter.",
			Action:  "Check the encoding and length of each key field.",
		},
	},
	{
		err: ErrKeyTypeMismatch,
		info: ErrorInfo{
			Message: "The key type does not match the expected key family.",
			Action:  "",
		},
	},
	{
		err: ErrUnsupportedKeyType,
		info: ErrorInfo{
			Message: "The key type is not supported.",
			Action:  "Use an OKP or RSA key.",
		},
	},
	{
		err: ErrUnsupportedCurve,
		info: ErrorInfo{
			Message: "The key curve is not supported.",
			Action:  "Use one of Ed25519, Ed448, X25519 or X448.",
		},
	},
	{
		err: ErrKeyFileInvalid,
		info: ErrorInfo{
			Message: "The key file could not be read.",
			Action:  "Ensure the file is valid YAML or JSON with a 'kty' field.",
		},
	},
	{
		err: ErrManifestInvalid,
		info: ErrorInfo{
			Message: "The batch manifest could not be read.",
			Action:  "Ensure each entry has 'payload' and 'signature' fields.",
		},
	},

	// ===================
	// Configuration & CLI
	// ===================
	{
		err: ErrConfigNil,
		info: ErrorInfo{
			Message: "Configuration is not loaded.",
			Action:  "Ensure .cose/config.yaml is valid YAML.",
		},
	},
	{
		err: ErrConfigInvalidCrypto,
		info: ErrorInfo{
			Message: "Invalid crypto configuration.",
			Action:  "Check the 'crypto' section in your config for invalid values.",
		},
	},
	{
		err: ErrConfigInvalidBatch,
		info: ErrorInfo{
			Message: "Invalid batch configuration.",
			Action:  "Check the 'batch' section in your config for invalid values.",
		},
	},
	{
		err: ErrEmptyValue,
		info: ErrorInfo{
			Message: "A required value was not provided.",
			Action:  "Provide the required value and try again.",
		},
	},
	{
		err: ErrConflictingFlags,
		info: ErrorInfo{
			Message: "The specified flags cannot be used together.",
			Action:  "Check the command help for valid flag combinations.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It first tries a direct map lookup for unwrapped sentinel errors,
// then falls back to errors.Is() traversal for wrapped errors.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
