// Package faults holds the error kinds shared across services. Services wrap
// these sentinels with operation context; the HTTP layer unwraps them to pick
// a status code.
package faults

import "errors"

var (
	ErrInvalidRange    = errors.New("faults: range start must be before range end")
	ErrConflict        = errors.New("faults: range conflicts with an existing reservation")
	ErrExhausted       = errors.New("faults: no resources left")
	ErrPolicy          = errors.New("faults: operation violates a derived-state policy")
	ErrNotFound        = errors.New("faults: not found")
	ErrForbidden       = errors.New("faults: not allowed")
	ErrExternalService = errors.New("faults: external service failed")
)
