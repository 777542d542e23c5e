package errors

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("admin access required")

	// ErrInvalidAuditEntry rejects an audit row without an action or a
	// justification.
	ErrInvalidAuditEntry = errors.New("audit entry requires an action and a justification")
	ErrInvalidAuditQuery = errors.New("invalid audit query")

	ErrIdempotencyConflict = errors.New("request id reused for a different admin action")
)
