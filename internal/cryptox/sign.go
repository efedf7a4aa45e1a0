package cryptox

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cosignet/internal/common"
)

// PublicKeyPrefix is the scheme identifier prepended to a displayable
// public key.
const PublicKeyPrefix = "ed25519:"

// Sign produces a 64-byte deterministic Ed25519 signature over message.
// A private key of the wrong length is common.ErrInput.
func Sign(message []byte, priv ed25519.PrivateKey) ([]byte, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: private key must be %d bytes, got %d",
			common.ErrInput, ed25519.PrivateKeySize, len(priv))
	}
	return ed25519.Sign(priv, message), nil
}

// Verify reports whether sig is a valid signature by the holder of pub over
// exactly message. Malformed keys or signatures of the correct length yield
// false, never a panic; wrong-length input is common.ErrInput.
func Verify(message, sig []byte, pub ed25519.PublicKey) (bool, error) {
	if len(pub) != ed25519.PublicKeySize {
		return false, fmt.Errorf("%w: public key must be %d bytes, got %d",
			common.ErrInput, ed25519.PublicKeySize, len(pub))
	}
	if len(sig) != ed25519.SignatureSize {
		return false, fmt.Errorf("%w: signature must be %d bytes, got %d",
			common.ErrInput, ed25519.SignatureSize, len(sig))
	}
	return ed25519.Verify(pub, message, sig), nil
}

// FormatPublicKey renders a public key as "ed25519:<64 lower-hex chars>".
func FormatPublicKey(pub ed25519.PublicKey) string {
	return PublicKeyPrefix + hex.EncodeToString(pub)
}

// ParsePublicKey parses the displayable form produced by FormatPublicKey.
// Any string not beginning with the exact scheme prefix, or whose payload is
// not 32 hex-encoded bytes, is rejected with common.ErrInput.
func ParsePublicKey(s string) (ed25519.PublicKey, error) {
	if !strings.HasPrefix(s, PublicKeyPrefix) {
		return nil, fmt.Errorf("%w: public key must start with %q", common.ErrInput, PublicKeyPrefix)
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(s, PublicKeyPrefix))
	if err != nil {
		return nil, fmt.Errorf("%w: public key is not valid hex", common.ErrInput)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: public key must be %d bytes, got %d",
			common.ErrInput, ed25519.PublicKeySize, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}
