// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// League lifecycle errors
	CodeLeagueNameEmpty    Code = "LEAGUE_NAME_EMPTY"
	CodeLeagueNameTaken    Code = "LEAGUE_NAME_TAKEN"
	CodeLeagueFounderEmpty Code = "LEAGUE_FOUNDER_EMPTY"
	CodeLeagueInactive     Code = "LEAGUE_INACTIVE"

	// Role errors
	CodeNotCommissioner   Code = "NOT_COMMISSIONER"
	CodeNotTreasurer      Code = "NOT_TREASURER"
	CodeCommissionerEmpty Code = "COMMISSIONER_EMPTY"

	// Season errors
	CodeSeasonDuesTooLow Code = "DUES_TOO_LOW"

	// Team membership errors
	CodeTeamNameEmpty           Code = "TEAM_NAME_EMPTY"
	CodeTeamAlreadyJoined       Code = "TEAM_ALREADY_JOINED"
	CodeTeamNameMismatch        Code = "TEAM_NAME_MISMATCH"
	CodeTeamNotActiveThisSeason Code = "TEAM_NOT_ACTIVE_THIS_SEASON"

	// Fund errors
	CodeInsufficientCash     Code = "INSUFFICIENT_CASH"
	CodeInsufficientPosition Code = "INSUFFICIENT_POSITION"
	CodeInsufficientBalance  Code = "INSUFFICIENT_BALANCE"
	CodeNoRewardsPending     Code = "NO_REWARDS_PENDING"

	// Vault accountant errors
	CodeUnknownVault   Code = "UNKNOWN_VAULT"
	CodeUnknownLedger  Code = "UNKNOWN_LEDGER"
	CodeZeroAmount     Code = "ZERO_AMOUNT"
	CodeNoShares       Code = "NO_SHARES"
	CodeReentrantCall  Code = "REENTRANT_CALL"
	CodeNotImplemented Code = "NOT_IMPLEMENTED"

	// Certificate errors
	CodeCertificateUnauthorized Code = "CERTIFICATE_UNAUTHORIZED"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeLeagueNameEmpty,
		CodeLeagueFounderEmpty,
		CodeCommissionerEmpty,
		CodeTeamNameEmpty,
		CodeZeroAmount,
		CodeUnknownVault,
		CodeUnknownLedger:
		return codes.InvalidArgument

	// PermissionDenied - caller lacks the required role
	case CodeNotCommissioner,
		CodeNotTreasurer,
		CodeCertificateUnauthorized:
		return codes.PermissionDenied

	// FailedPrecondition - state doesn't allow operation
	case CodeLeagueInactive,
		CodeSeasonDuesTooLow,
		CodeTeamAlreadyJoined,
		CodeTeamNameMismatch,
		CodeTeamNotActiveThisSeason,
		CodeInsufficientCash,
		CodeInsufficientPosition,
		CodeInsufficientBalance,
		CodeNoRewardsPending,
		CodeNoShares,
		CodeReentrantCall:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	// AlreadyExists - unique resource constraint
	case CodeLeagueNameTaken:
		return codes.AlreadyExists

	// Unimplemented - operation deliberately unsupported
	case CodeNotImplemented:
		return codes.Unimplemented

	default:
		return codes.Internal
	}
}
