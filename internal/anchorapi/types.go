// Package anchorapi defines the JSON wire types of the timestamp anchor
// service, shared by the server and the CLI client. The core signing
// protocol treats the service as an opaque submit/verify oracle; the proof
// blob is stored in the bundle without interpretation.
package anchorapi

import "strings"

// AttestationVersion is the domain prefix of the anchor attestation
// message.
const AttestationVersion = "cosignet-anchor-v1"

type TokenRequest struct {
	Secret string `json:"secret"`
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type AnchorRequest struct {
	Root string `json:"root"` // lower-hex Merkle root
}

// Proof is the attestation the service returns: its Ed25519 signature over
// the attestation message binds the root to the anchoring time.
type Proof struct {
	Root       string `json:"root"`
	AnchoredAt string `json:"anchoredAt"`
	PublicKey  string `json:"publicKey"`
	Signature  string `json:"signature"` // lower-hex, 64 bytes
}

type VerifyRequest struct {
	Root  string `json:"root"`
	Proof Proof  `json:"proof"`
}

type VerifyResponse struct {
	Valid bool `json:"valid"`
}

type ArchiveRequest struct {
	BundleID string `json:"bundleId"`
}

type ArchiveResponse struct {
	UploadURL string `json:"uploadUrl"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// AttestationMessage builds the exact byte message the anchor service
// signs: version literal, lower-hex root, and RFC3339 anchoring time, one
// per line.
func AttestationMessage(root, anchoredAt string) []byte {
	return []byte(strings.Join([]string{AttestationVersion, root, anchoredAt}, "\n"))
}
