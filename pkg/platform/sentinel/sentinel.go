package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in the store
// - ErrConflict: a uniqueness constraint rejected the write
// - ErrUnavailable: store temporarily unreachable
// - ErrPermissionDenied: store rules rejected the operation
// - ErrInvalidArgument: store rejected the record shape
// - ErrFailedPrecondition: store-side precondition not met
// - ErrDeadlineExceeded: bounded wait elapsed before the store answered
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrUnavailable        = errors.New("unavailable")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrFailedPrecondition = errors.New("failed precondition")
	ErrDeadlineExceeded   = errors.New("deadline exceeded")
)
