package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
	// ErrBadRequest is kept as an alias so request-decoding failures and
	// validation failures map to the same status.
	ErrBadRequest = ErrValidation

	// ErrTransient marks a datastore, storage or network call that failed or
	// timed out. Safe to retry the whole request.
	ErrTransient = errors.New("transient i/o failure")
	// ErrPersistence marks a registration write that did not succeed.
	ErrPersistence = errors.New("persistence failure")
	// ErrGeneration marks a ticket rendering failure. Nothing has been stored.
	ErrGeneration = errors.New("ticket generation failed")
	// ErrPartialIssuance marks an uploaded ticket whose participant status
	// could not be updated. Needs reconciliation.
	ErrPartialIssuance = errors.New("partial ticket issuance")
	// ErrDelivery marks an email that could not be handed to the transport.
	ErrDelivery = errors.New("delivery failed")
)
