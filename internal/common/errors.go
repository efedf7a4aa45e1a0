// Package common defines shared constants and sentinel errors used across
// client and server layers of cosignet. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Bundle loading / wire-format errors (missing version or document payload).
	ErrValidation = errors.New("invalid bundle")

	// Malformed key or signature byte lengths.
	ErrInput = errors.New("malformed input")

	// Recomputed document hash does not match the recorded one.
	ErrIntegrity = errors.New("document hash mismatch")

	// A recorded signature fails verification.
	ErrInvalidSignature = errors.New("invalid signature")

	// Finalizing a bundle with unfilled required fields.
	ErrIncomplete = errors.New("bundle incomplete")

	// Anchor API auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
)
