// Package cryptox implements the signing protocol primitives: deterministic
// identity derivation from credentials, the canonical signing message, and
// Ed25519 sign/verify with a displayable public-key format.
package cryptox

import (
	"crypto/ed25519"
	"crypto/sha256"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// ProtocolVersion is the fixed version literal baked into salts and
	// signing messages. Changing it changes every derived identity.
	ProtocolVersion = "cosignet-v1"

	identitySaltPrefix = "cosignet-identity-v1:"

	// pbkdf2Iterations is part of the derivation contract: two
	// implementations with different counts derive different identities.
	pbkdf2Iterations = 100_000
)

// NormalizeEmail lower-cases and trims an email address. It must be applied
// identically at derivation, signing, and verification time, or identities
// silently diverge.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DeriveKeypair deterministically derives an Ed25519 keypair from
// credentials. Identical normalized email + password always yield the
// identical keypair. There is no failure mode: a wrong password yields a
// different, valid-looking keypair, which surfaces later as a signature
// verification mismatch.
//
// The caller should wipe password (and the returned private key) when done.
func DeriveKeypair(email string, password []byte) (ed25519.PublicKey, ed25519.PrivateKey) {
	salt := []byte(identitySaltPrefix + NormalizeEmail(email))
	seed := pbkdf2.Key(password, salt, pbkdf2Iterations, ed25519.SeedSize, sha256.New)
	priv := ed25519.NewKeyFromSeed(seed)
	return priv.Public().(ed25519.PublicKey), priv
}
