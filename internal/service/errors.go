package service

import "errors"

// Failure kinds surfaced by the business layer. Handlers map these to HTTP
// status codes at the edge; nothing below the handlers knows about HTTP.
var (
	ErrUnauthenticated    = errors.New("not signed in")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrValidation         = errors.New("validation")
	ErrConflict           = errors.New("already exists")

	// ErrPaymentFailed means the gateway rejected or timed out and no state
	// was mutated.
	ErrPaymentFailed = errors.New("payment failed")

	// ErrPostChargeInconsistency means the charge succeeded but order
	// persistence did not. The charge cannot be reversed here, manual
	// reconciliation is required.
	ErrPostChargeInconsistency = errors.New("charge succeeded but order was not recorded")
)
