package crypto

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mrz1836/cose/internal/engine"
)

// Accept projects a three-valued verification outcome onto the boolean contract.
// Only engine.ResultValid is accepted. The distinction between a rejection and
// an engine fault is kept in the debug log, never in the return value.
func Accept(ctx context.Context, identifier int, result engine.VerifyResult, cause error) bool {
	logger := zerolog.Ctx(ctx)
	event := logger.Debug().
		Int("alg", identifier).
		Str("outcome", result.String())
	if cause != nil && result == engine.ResultError {
		event = event.Err(cause)
	}
	event.Msg("signature verification finished")

	return result == engine.ResultValid
}
