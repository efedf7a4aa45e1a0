// Package models defines server-side persistence models.
package models

import "time"

// Anchor is one attested Merkle root. The root is unique; re-anchoring the
// same root returns the original attestation.
type Anchor struct {
	Root       string // lower-hex, 64 chars
	AnchoredAt time.Time
	PublicKey  string // ed25519:<hex> display form
	Signature  string // lower-hex, 64 bytes
}
