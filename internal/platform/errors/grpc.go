package errors

import (
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FromGRPCStatus converts a gRPC status error from a collaborator into a
// domain error. When the status carries an ErrorInfo detail for our domain,
// the original code is recovered exactly; otherwise the gRPC code is
// classified into the nearest failure category.
func FromGRPCStatus(err error, fallback Code) *Error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return Wrap(fallback, err.Error(), err)
	}

	for _, detail := range st.Details() {
		info, ok := detail.(*errdetails.ErrorInfo)
		if !ok {
			continue
		}
		if info.GetDomain() != Domain && info.GetDomain() != "" {
			continue
		}
		return &Error{
			Code:     Code(info.GetReason()),
			Message:  st.Message(),
			Metadata: info.GetMetadata(),
			Cause:    err,
		}
	}

	return Wrap(classifyGRPCCode(st.Code(), fallback), st.Message(), err)
}

// classifyGRPCCode picks a domain code for an undecorated gRPC status.
func classifyGRPCCode(code codes.Code, fallback Code) Code {
	switch code {
	case codes.InvalidArgument:
		return fallback
	case codes.FailedPrecondition:
		return fallback
	case codes.NotFound:
		return fallback
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return CodeSolverUnavailable
	default:
		return CodeUnknown
	}
}
