// Package domain holds the entities and state machines of the
// reservation and settlement engine. All state is in-memory; the
// adapters under internal/adapter provide storage and transport.
package domain

import "errors"

// ErrValidation is the base error for rejected input: bad date
// ordering, non-positive amounts, empty descriptions, out-of-range
// tax rates or missing references. Callers can fix the input and
// retry. Check with errors.Is.
var ErrValidation = errors.New("validation failed")

// ErrStateConflict is the base error for illegal lifecycle
// transitions, such as refunding a payment that never completed or
// confirming a booking whose dates were taken by a concurrent
// confirmation. Callers must inspect current status before retrying.
var ErrStateConflict = errors.New("state conflict")
