// Package errors maps domain and gRPC failures to HTTP responses.
package errors

import (
	stderrors "errors"
	"net/http"

	domainerrors "github.com/louisbranch/localeforms/internal/platform/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// HTTPStatus maps an error to an HTTP status code. Domain errors go through
// their gRPC code, so form failures are 400 and everything else is 500.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var domainErr *domainerrors.Error
	if stderrors.As(err, &domainErr) {
		return HTTPStatusForCode(domainErr.Code.GRPCCode(), http.StatusInternalServerError)
	}
	st, ok := status.FromError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	return HTTPStatusForCode(st.Code(), http.StatusInternalServerError)
}

// HTTPStatusForCode maps a gRPC code to an HTTP status, using fallback for
// codes without a closer match.
func HTTPStatusForCode(code codes.Code, fallback int) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.FailedPrecondition, codes.AlreadyExists:
		return http.StatusConflict
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return fallback
	}
}
