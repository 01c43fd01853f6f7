// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Form errors
	CodeFormInvalid   Code = "FORM_INVALID"
	CodeFormMalformed Code = "FORM_MALFORMED"
	CodeCrossOrigin   Code = "CROSS_ORIGIN"

	// Schema errors
	CodeSchemaUnavailable Code = "SCHEMA_UNAVAILABLE"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeFormInvalid,
		CodeFormMalformed:
		return codes.InvalidArgument

	// PermissionDenied - requests from another origin
	case CodeCrossOrigin:
		return codes.PermissionDenied

	default:
		return codes.Internal
	}
}
