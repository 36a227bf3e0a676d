// Package errors provides structured error handling for FluxMCP.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Identifier errors
	CodeModelIDEmpty     Code = "MODEL_ID_EMPTY"
	CodeMediaIDEmpty     Code = "MEDIA_ID_EMPTY"
	CodeModelIDMalformed Code = "MODEL_ID_MALFORMED"

	// Record validation errors
	CodeCompoundMissingCompartment Code = "COMPOUND_MISSING_COMPARTMENT"
	CodeCompoundBoundsInverted     Code = "COMPOUND_BOUNDS_INVERTED"
	CodeMediaSourceInvalid         Code = "MEDIA_SOURCE_INVALID"
	CodeMediaEmpty                 Code = "MEDIA_EMPTY"
	CodeModelArtifactEmpty         Code = "MODEL_ARTIFACT_EMPTY"
	CodeMediaPresetUnknown         Code = "MEDIA_PRESET_UNKNOWN"

	// Storage errors
	CodeModelNotFound    Code = "MODEL_NOT_FOUND"
	CodeMediaNotFound    Code = "MEDIA_NOT_FOUND"
	CodeCapacityExceeded Code = "CAPACITY_EXCEEDED"

	// Collaborator errors
	CodeBuildFailed       Code = "BUILD_FAILED"
	CodeGapfillInfeasible Code = "GAPFILL_INFEASIBLE"
	CodeFBAInfeasible     Code = "FBA_INFEASIBLE"
	CodeSolverUnavailable Code = "SOLVER_UNAVAILABLE"
	CodeCompoundNotFound  Code = "COMPOUND_NOT_FOUND"
	CodeReactionNotFound  Code = "REACTION_NOT_FOUND"
	CodeIndexUnavailable  Code = "INDEX_UNAVAILABLE"
)

// Kind groups codes into the failure categories callers branch on.
type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindNotFound   Kind = "NOT_FOUND"
	KindCapacity   Kind = "CAPACITY_EXCEEDED"
	KindLibrary    Kind = "LIBRARY"
	KindInfeasible Kind = "INFEASIBLE"
	KindServer     Kind = "SERVER"
)

// Kind maps an error code to its failure category.
func (c Code) Kind() Kind {
	switch c {
	case CodeModelIDEmpty,
		CodeMediaIDEmpty,
		CodeModelIDMalformed,
		CodeCompoundMissingCompartment,
		CodeCompoundBoundsInverted,
		CodeMediaSourceInvalid,
		CodeMediaEmpty,
		CodeModelArtifactEmpty,
		CodeMediaPresetUnknown:
		return KindValidation

	case CodeModelNotFound,
		CodeMediaNotFound,
		CodeCompoundNotFound,
		CodeReactionNotFound:
		return KindNotFound

	case CodeCapacityExceeded:
		return KindCapacity

	case CodeBuildFailed:
		return KindLibrary

	case CodeGapfillInfeasible,
		CodeFBAInfeasible:
		return KindInfeasible

	default:
		return KindServer
	}
}

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c.Kind() {
	case KindValidation:
		return codes.InvalidArgument
	case KindNotFound:
		return codes.NotFound
	case KindCapacity:
		return codes.ResourceExhausted
	case KindInfeasible:
		return codes.FailedPrecondition
	case KindLibrary:
		return codes.InvalidArgument
	default:
		return codes.Internal
	}
}
