// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Battle errors
	CodeBattleInvalidRoster Code = "BATTLE_INVALID_ROSTER"
	CodeBattleInvalidIntent Code = "BATTLE_INVALID_INTENT"
	CodeBattleFinished      Code = "BATTLE_FINISHED"
	CodeBattleTurnConflict  Code = "BATTLE_TURN_CONFLICT"

	// Catalog errors
	CodeCatalogUnknownCreature Code = "CATALOG_UNKNOWN_CREATURE"
	CodeCatalogUnknownMove     Code = "CATALOG_UNKNOWN_MOVE"

	// Replay errors
	CodeReplayDiverged Code = "REPLAY_DIVERGED"

	// Request errors
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeInvalidFilter   Code = "INVALID_FILTER"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeBattleInvalidRoster,
		CodeBattleInvalidIntent,
		CodeCatalogUnknownCreature,
		CodeCatalogUnknownMove,
		CodeInvalidArgument,
		CodeInvalidFilter:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeBattleFinished:
		return codes.FailedPrecondition

	// Aborted - concurrent writer won the race
	case CodeBattleTurnConflict:
		return codes.Aborted

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	// DataLoss - stored journal no longer reproduces
	case CodeReplayDiverged:
		return codes.DataLoss

	default:
		return codes.Internal
	}
}
