package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/bgbghq67-sys/banga-photobooth-admin/internal/ledger"
)

type APIError error

var (
	// General
	APIErrorUnknown        APIError = errors.New("unknownError")
	APIErrorInvalidRequest APIError = errors.New("invalidRequest")
	APIErrorNotFound       APIError = errors.New("notFound")
	APIErrorTimeout        APIError = errors.New("timeout")

	// Sessions
	APIErrorNoSessions APIError = errors.New("noSessionsRemaining")

	// Store
	APIErrorStoreUnavailable APIError = errors.New("storeUnavailable")
)

func statusForAPIError(err APIError) int {
	switch err {
	case APIErrorInvalidRequest:
		return http.StatusBadRequest
	case APIErrorNotFound:
		return http.StatusNotFound
	case APIErrorNoSessions:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// FromLedgerError maps ledger and context failures onto the API taxonomy.
func FromLedgerError(err error) APIError {
	var validation ledger.ValidationError
	switch {
	case errors.As(err, &validation):
		return APIErrorInvalidRequest
	case errors.Is(err, ledger.ErrDeviceNotFound):
		return APIErrorNotFound
	case errors.Is(err, ledger.ErrNoSessions):
		return APIErrorNoSessions
	case errors.Is(err, context.DeadlineExceeded):
		return APIErrorTimeout
	default:
		return APIErrorUnknown
	}
}
